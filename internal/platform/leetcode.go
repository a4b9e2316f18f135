package platform

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// LeetCodeClient stands in for a real LeetCode integration. LeetCode exposes
// no public submissions API, so FetchSubmissions returns a fixed set of
// representative records. Callers must not assume freshness.
type LeetCodeClient struct {
	logger zerolog.Logger
	now    func() time.Time
}

// NewLeetCodeClient constructs the mock LeetCode client.
func NewLeetCodeClient(logger zerolog.Logger) *LeetCodeClient {
	return &LeetCodeClient{
		logger: logger.With().Str("component", "leetcode_client").Logger(),
		now:    time.Now,
	}
}

// Platform identifies this client.
func (c *LeetCodeClient) Platform() models.Platform {
	return models.PlatformLeetCode
}

// FetchSubmissions returns mock records. The error is always nil.
func (c *LeetCodeClient) FetchSubmissions(_ context.Context, handle string, opts FetchOptions) ([]RawSubmission, error) {
	c.logger.Debug().Str("handle", handle).Msg("serving mock leetcode submissions")

	now := c.now().UTC()
	ms := func(v float64) *float64 { return &v }

	mocks := []RawSubmission{
		{
			ID:              "lc-mock-1",
			ProblemID:       "two-sum",
			ProblemTitle:    "Two Sum",
			ProblemURL:      "https://leetcode.com/problems/two-sum/",
			DifficultyLabel: "Easy",
			Tags:            []string{"array", "hash-table"},
			Verdict:         "Accepted",
			Language:        "python3",
			TimeMillis:      ms(52),
			MemoryBytes:     ms(15_200_000),
			SubmittedAt:     now.Add(-48 * time.Hour),
		},
		{
			ID:              "lc-mock-2",
			ProblemID:       "longest-substring-without-repeating-characters",
			ProblemTitle:    "Longest Substring Without Repeating Characters",
			ProblemURL:      "https://leetcode.com/problems/longest-substring-without-repeating-characters/",
			DifficultyLabel: "Medium",
			Tags:            []string{"string", "sliding-window"},
			Verdict:         "Wrong Answer",
			Language:        "python3",
			TimeMillis:      ms(120),
			MemoryBytes:     ms(16_900_000),
			SubmittedAt:     now.Add(-24 * time.Hour),
		},
		{
			ID:              "lc-mock-3",
			ProblemID:       "median-of-two-sorted-arrays",
			ProblemTitle:    "Median of Two Sorted Arrays",
			ProblemURL:      "https://leetcode.com/problems/median-of-two-sorted-arrays/",
			DifficultyLabel: "Hard",
			Tags:            []string{"binary-search", "divide-and-conquer"},
			Verdict:         "Time Limit Exceeded",
			Language:        "golang",
			TimeMillis:      ms(2000),
			MemoryBytes:     ms(9_400_000),
			SubmittedAt:     now.Add(-6 * time.Hour),
		},
	}

	results := make([]RawSubmission, 0, len(mocks))
	for _, mock := range mocks {
		if !withinRange(mock.SubmittedAt, opts.From, opts.To) {
			continue
		}
		results = append(results, mock)
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}

	return results, nil
}

var leetcodeVerdicts = map[string]models.SubmissionStatus{
	"accepted":              models.StatusAccepted,
	"wrong answer":          models.StatusWrongAnswer,
	"time limit exceeded":   models.StatusTimeLimitExceeded,
	"memory limit exceeded": models.StatusMemoryLimitExceeded,
	"runtime error":         models.StatusRuntimeError,
	"compile error":         models.StatusCompilationError,
}

// MapVerdict translates a LeetCode verdict into a canonical status.
func (c *LeetCodeClient) MapVerdict(verdict string) models.SubmissionStatus {
	if status, ok := leetcodeVerdicts[strings.ToLower(strings.TrimSpace(verdict))]; ok {
		return status
	}
	return models.StatusOther
}

// MapDifficulty matches the enum-style LeetCode difficulty case-insensitively.
// Anything else, including the empty string, maps to unknown.
func (c *LeetCodeClient) MapDifficulty(_ *float64, label string) models.Difficulty {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "easy":
		return models.DifficultyEasy
	case "medium":
		return models.DifficultyMedium
	case "hard":
		return models.DifficultyHard
	default:
		return models.DifficultyUnknown
	}
}
