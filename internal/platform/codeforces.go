package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// DefaultCodeforcesAPIURL is the public Codeforces REST API root.
const DefaultCodeforcesAPIURL = "https://codeforces.com/api"

// codeforcesFetchTimeout bounds one user.status call.
const codeforcesFetchTimeout = 15 * time.Second

// cfVerdicts translates Codeforces verdict tokens. Anything absent from the
// table, including the empty string, maps to StatusOther.
var cfVerdicts = map[string]models.SubmissionStatus{
	"OK":                      models.StatusAccepted,
	"WRONG_ANSWER":            models.StatusWrongAnswer,
	"TIME_LIMIT_EXCEEDED":     models.StatusTimeLimitExceeded,
	"MEMORY_LIMIT_EXCEEDED":   models.StatusMemoryLimitExceeded,
	"RUNTIME_ERROR":           models.StatusRuntimeError,
	"COMPILATION_ERROR":       models.StatusCompilationError,
	"IDLENESS_LIMIT_EXCEEDED": models.StatusRuntimeError,
}

// CodeforcesClient fetches submissions from the public Codeforces API.
type CodeforcesClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewCodeforcesClient constructs a Codeforces client. The Codeforces API asks
// callers to stay below one request per two seconds, enforced here with a
// local rate limiter.
func NewCodeforcesClient(baseURL string, logger zerolog.Logger) *CodeforcesClient {
	if baseURL == "" {
		baseURL = DefaultCodeforcesAPIURL
	}

	return &CodeforcesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: codeforcesFetchTimeout},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:     logger.With().Str("component", "codeforces_client").Logger(),
	}
}

// Platform identifies this client.
func (c *CodeforcesClient) Platform() models.Platform {
	return models.PlatformCodeforces
}

type cfEnvelope struct {
	Status  string         `json:"status"`
	Comment string         `json:"comment"`
	Result  []cfSubmission `json:"result"`
}

type cfSubmission struct {
	ID                  int64     `json:"id"`
	ContestID           int       `json:"contestId"`
	CreationTimeSeconds int64     `json:"creationTimeSeconds"`
	Problem             cfProblem `json:"problem"`
	ProgrammingLanguage string    `json:"programmingLanguage"`
	Verdict             string    `json:"verdict"`
	TimeConsumedMillis  float64   `json:"timeConsumedMillis"`
	MemoryConsumedBytes float64   `json:"memoryConsumedBytes"`
}

type cfProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    *float64 `json:"rating"`
	Tags      []string `json:"tags"`
}

// FetchSubmissions retrieves the handle's recent submissions via user.status.
// A non-OK API status or a malformed envelope is a hard failure; an absent
// result list yields an empty slice so partial responses do not abort a sync.
func (c *CodeforcesClient) FetchSubmissions(ctx context.Context, handle string, opts FetchOptions) ([]RawSubmission, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/user.status?%s", c.baseURL, url.Values{
		"handle": {handle},
		"from":   {"1"},
		"count":  {fmt.Sprintf("%d", fetchCount(opts.Limit))},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build codeforces request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codeforces request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope cfEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("malformed codeforces response: %w", err)
	}

	if envelope.Status != "OK" {
		return nil, fmt.Errorf("codeforces api status %q: %s", envelope.Status, envelope.Comment)
	}

	submissions := make([]RawSubmission, 0, len(envelope.Result))
	for _, item := range envelope.Result {
		raw := c.normalize(item)
		if !withinRange(raw.SubmittedAt, opts.From, opts.To) {
			continue
		}
		submissions = append(submissions, raw)
	}

	c.logger.Debug().Str("handle", handle).Int("count", len(submissions)).Msg("fetched codeforces submissions")

	return submissions, nil
}

func (c *CodeforcesClient) normalize(item cfSubmission) RawSubmission {
	contestID := item.ContestID
	if contestID == 0 {
		contestID = item.Problem.ContestID
	}

	raw := RawSubmission{
		ContestID:    fmt.Sprintf("%d", contestID),
		ProblemID:    fmt.Sprintf("%d%s", item.Problem.ContestID, item.Problem.Index),
		ProblemTitle: item.Problem.Name,
		ProblemURL:   fmt.Sprintf("https://codeforces.com/contest/%d/problem/%s", item.Problem.ContestID, item.Problem.Index),
		Rating:       item.Problem.Rating,
		Tags:         item.Problem.Tags,
		Verdict:      item.Verdict,
		Language:     item.ProgrammingLanguage,
		SubmittedAt:  time.Unix(item.CreationTimeSeconds, 0).UTC(),
	}

	if item.ID != 0 {
		raw.ID = fmt.Sprintf("%d", item.ID)
	}

	timeMillis := item.TimeConsumedMillis
	memoryBytes := item.MemoryConsumedBytes
	raw.TimeMillis = &timeMillis
	raw.MemoryBytes = &memoryBytes

	return raw
}

// MapVerdict translates a Codeforces verdict into a canonical status. Total:
// unrecognized or absent verdicts map to StatusOther.
func (c *CodeforcesClient) MapVerdict(verdict string) models.SubmissionStatus {
	if status, ok := cfVerdicts[verdict]; ok {
		return status
	}
	return models.StatusOther
}

// MapDifficulty buckets a Codeforces rating: <1200 easy, <1800 medium, else
// hard. A missing rating maps to medium so unrated problems stay visible in
// the default difficulty filters.
func (c *CodeforcesClient) MapDifficulty(rating *float64, _ string) models.Difficulty {
	if rating == nil {
		return models.DifficultyMedium
	}

	switch {
	case *rating < 1200:
		return models.DifficultyEasy
	case *rating < 1800:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}

func fetchCount(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
