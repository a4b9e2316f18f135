package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// DefaultHackerRankAPIURL is the unofficial profile endpoint root.
const DefaultHackerRankAPIURL = "https://www.hackerrank.com/rest/hackers"

// HackerRankClient is a best-effort integration against an unofficial
// endpoint. Any failure — network, non-2xx, unrecognized payload shape —
// yields an empty list rather than an error, so a broken upstream only ever
// contributes an empty delta.
type HackerRankClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHackerRankClient constructs the HackerRank client.
func NewHackerRankClient(baseURL string, logger zerolog.Logger) *HackerRankClient {
	if baseURL == "" {
		baseURL = DefaultHackerRankAPIURL
	}

	return &HackerRankClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("component", "hackerrank_client").Logger(),
	}
}

// Platform identifies this client.
func (c *HackerRankClient) Platform() models.Platform {
	return models.PlatformHackerRank
}

type hrSubmission struct {
	ID            json.Number `json:"id"`
	ChallengeSlug string      `json:"challenge_slug"`
	ChallengeName string      `json:"challenge_name"`
	Status        string      `json:"status"`
	Language      string      `json:"language"`
	Score         *float64    `json:"score"`
	Difficulty    string      `json:"difficulty_name"`
	CreatedAtUnix int64       `json:"created_at_epoch"`
}

// FetchSubmissions fetches recent submissions from the unofficial profile
// endpoint. The payload shape has changed repeatedly, so three plausible
// shapes are tried in order before giving up with an empty list.
func (c *HackerRankClient) FetchSubmissions(ctx context.Context, handle string, opts FetchOptions) ([]RawSubmission, error) {
	endpoint := fmt.Sprintf("%s/%s/recent_challenges?limit=%d", c.baseURL, handle, fetchCount(opts.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to build hackerrank request")
		return []RawSubmission{}, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("handle", handle).Msg("hackerrank request failed")
		return []RawSubmission{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Str("handle", handle).Msg("hackerrank returned non-ok status")
		return []RawSubmission{}, nil
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn().Err(err).Str("handle", handle).Msg("malformed hackerrank response")
		return []RawSubmission{}, nil
	}

	items, ok := extractHackerRankList(payload)
	if !ok {
		c.logger.Warn().Str("handle", handle).Msg("unrecognized hackerrank payload shape")
		return []RawSubmission{}, nil
	}

	submissions := make([]RawSubmission, 0, len(items))
	for _, item := range items {
		raw := c.normalize(item)
		if raw.ID == "" || raw.ProblemID == "" {
			continue
		}
		if !withinRange(raw.SubmittedAt, opts.From, opts.To) {
			continue
		}
		submissions = append(submissions, raw)
	}

	return submissions, nil
}

// extractHackerRankList tries the three payload shapes seen in the wild:
// {"models": [...]}, {"data": [...]}, and a bare top-level array.
func extractHackerRankList(payload json.RawMessage) ([]hrSubmission, bool) {
	var withModels struct {
		Models []hrSubmission `json:"models"`
	}
	if err := json.Unmarshal(payload, &withModels); err == nil && withModels.Models != nil {
		return withModels.Models, true
	}

	var withData struct {
		Data []hrSubmission `json:"data"`
	}
	if err := json.Unmarshal(payload, &withData); err == nil && withData.Data != nil {
		return withData.Data, true
	}

	var bare []hrSubmission
	if err := json.Unmarshal(payload, &bare); err == nil && bare != nil {
		return bare, true
	}

	return nil, false
}

func (c *HackerRankClient) normalize(item hrSubmission) RawSubmission {
	raw := RawSubmission{
		ID:              item.ID.String(),
		ProblemID:       item.ChallengeSlug,
		ProblemTitle:    item.ChallengeName,
		ProblemURL:      fmt.Sprintf("https://www.hackerrank.com/challenges/%s/problem", item.ChallengeSlug),
		DifficultyLabel: item.Difficulty,
		Verdict:         item.Status,
		Language:        item.Language,
		Rating:          item.Score,
	}

	if item.ID.String() == "0" || item.ID.String() == "" {
		raw.ID = ""
	}

	if item.CreatedAtUnix > 0 {
		raw.SubmittedAt = time.Unix(item.CreatedAtUnix, 0).UTC()
	}

	return raw
}

var hackerRankVerdicts = map[string]models.SubmissionStatus{
	"solved":                models.StatusAccepted,
	"accepted":              models.StatusAccepted,
	"wrong answer":          models.StatusWrongAnswer,
	"time limit exceeded":   models.StatusTimeLimitExceeded,
	"memory limit exceeded": models.StatusMemoryLimitExceeded,
	"runtime error":         models.StatusRuntimeError,
	"compilation error":     models.StatusCompilationError,
	"attempted":             models.StatusOther,
}

// MapVerdict translates a HackerRank status into a canonical status.
func (c *HackerRankClient) MapVerdict(verdict string) models.SubmissionStatus {
	if status, ok := hackerRankVerdicts[strings.ToLower(strings.TrimSpace(verdict))]; ok {
		return status
	}
	return models.StatusOther
}

// MapDifficulty matches the string difficulty by substring, falling back to
// numeric score thresholds (<30 easy, <60 medium, else hard). Empty input
// maps to medium.
func (c *HackerRankClient) MapDifficulty(rating *float64, label string) models.Difficulty {
	normalized := strings.ToLower(label)
	switch {
	case strings.Contains(normalized, "easy"):
		return models.DifficultyEasy
	case strings.Contains(normalized, "medium"):
		return models.DifficultyMedium
	case strings.Contains(normalized, "hard"):
		return models.DifficultyHard
	}

	if rating != nil {
		switch {
		case *rating < 30:
			return models.DifficultyEasy
		case *rating < 60:
			return models.DifficultyMedium
		default:
			return models.DifficultyHard
		}
	}

	return models.DifficultyMedium
}
