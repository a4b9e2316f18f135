package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/events"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/observability"
	"github.com/codetrack-dev/codetrack-api/internal/platform"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

// ErrAccountNotConnected indicates the user has no account on the platform.
var ErrAccountNotConnected = errors.New("platform account not connected")

// ErrPlatformUnsupported indicates no client is registered for the platform.
var ErrPlatformUnsupported = errors.New("platform not supported")

// acceptedPoints is awarded to the user per newly recorded accepted submission.
const acceptedPoints = 10

// SyncService pulls a user's submission history from an external platform,
// normalizes it into the canonical schema and persists the delta.
type SyncService interface {
	Sync(ctx context.Context, userID uint, p models.Platform) (dto.SyncResultResponse, error)
}

type syncService struct {
	users       repository.UserRepository
	accounts    repository.PlatformAccountRepository
	problems    repository.ProblemRepository
	submissions repository.SubmissionRepository
	registry    *platform.Registry
	source      platform.SourceFetcher
	publisher   events.Publisher
	fetchLimit  int
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSyncService constructs the sync orchestrator. The source fetcher and
// publisher may be nil; both paths degrade to no-ops.
func NewSyncService(
	users repository.UserRepository,
	accounts repository.PlatformAccountRepository,
	problems repository.ProblemRepository,
	submissions repository.SubmissionRepository,
	registry *platform.Registry,
	source platform.SourceFetcher,
	publisher events.Publisher,
	fetchLimit int,
	logger zerolog.Logger,
) SyncService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if fetchLimit <= 0 {
		fetchLimit = 100
	}

	return &syncService{
		users:       users,
		accounts:    accounts,
		problems:    problems,
		submissions: submissions,
		registry:    registry,
		source:      source,
		publisher:   publisher,
		fetchLimit:  fetchLimit,
		logger:      logger.With().Str("component", "sync_service").Logger(),
		now:         time.Now,
	}
}

// Sync runs the full pipeline for one user+platform pair. A failing fetch is
// downgraded to an empty delta; a failing item is logged and skipped. The
// returned summary is always well-formed.
func (s *syncService) Sync(ctx context.Context, userID uint, p models.Platform) (dto.SyncResultResponse, error) {
	start := s.now()

	account, err := s.accounts.GetByUserAndPlatform(ctx, userID, p)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SyncResultResponse{}, ErrAccountNotConnected
		}
		return dto.SyncResultResponse{}, err
	}

	client, ok := s.registry.Client(p)
	if !ok {
		return dto.SyncResultResponse{}, ErrPlatformUnsupported
	}

	raws, err := client.FetchSubmissions(ctx, account.Handle, platform.FetchOptions{Limit: s.fetchLimit})
	if err != nil {
		// Zero results is a normal terminal state; the next scheduled tick
		// is the only retry mechanism.
		s.logger.Warn().Err(err).
			Str("platform", string(p)).
			Str("handle", account.Handle).
			Msg("fetch failed, continuing with empty delta")
		observability.SyncRuns().WithLabelValues(string(p), "fetch_failed").Inc()
		raws = nil
	}

	var newProblems []models.Problem
	var newSubmissions []models.Submission

	for _, raw := range raws {
		problem, problemCreated, err := s.resolveProblem(ctx, client, raw)
		if err != nil {
			s.logger.Warn().Err(err).Str("platform", string(p)).Str("external_id", raw.ID).Msg("skipping raw submission")
			observability.SyncItems().WithLabelValues(string(p), observability.ItemFailed).Inc()
			continue
		}
		if problemCreated {
			newProblems = append(newProblems, problem)
			observability.SyncItems().WithLabelValues(string(p), observability.ItemProblemCreated).Inc()
		}

		submission, submissionCreated, err := s.resolveSubmission(ctx, client, account, problem, raw)
		if err != nil {
			s.logger.Warn().Err(err).Str("platform", string(p)).Str("external_id", raw.ID).Msg("skipping raw submission")
			observability.SyncItems().WithLabelValues(string(p), observability.ItemFailed).Inc()
			continue
		}
		if !submissionCreated {
			observability.SyncItems().WithLabelValues(string(p), observability.ItemSkippedDuplicate).Inc()
			continue
		}

		newSubmissions = append(newSubmissions, submission)
		observability.SyncItems().WithLabelValues(string(p), observability.ItemSubmissionCreated).Inc()
	}

	syncedAt := s.now()
	account.Stats = ComputeAccountStats(newProblems, newSubmissions)
	account.LastSynced = &syncedAt
	if err := s.accounts.Update(ctx, &account); err != nil {
		return dto.SyncResultResponse{}, fmt.Errorf("failed to update account stats: %w", err)
	}

	s.publisher.PublishSyncCompleted(ctx, events.SyncCompleted{
		UserID:         userID,
		Platform:       p,
		NewProblems:    len(newProblems),
		NewSubmissions: len(newSubmissions),
		SyncedAt:       syncedAt,
	})

	observability.SyncRuns().WithLabelValues(string(p), "completed").Inc()
	observability.SyncLatency().WithLabelValues(string(p)).Observe(syncedAt.Sub(start).Seconds())

	s.logger.Info().
		Uint("user_id", userID).
		Str("platform", string(p)).
		Int("new_problems", len(newProblems)).
		Int("new_submissions", len(newSubmissions)).
		Msg("sync completed")

	return dto.SyncResultResponse{
		Platform:    p,
		Problems:    dto.NewProblemResponseSlice(newProblems),
		Submissions: dto.NewSubmissionResponseSlice(newSubmissions),
		SyncedAt:    syncedAt,
	}, nil
}

// resolveProblem finds or lazily creates the canonical problem for one raw
// submission. The catalog entity is shared across users; the storage layer's
// unique index arbitrates concurrent creation.
func (s *syncService) resolveProblem(ctx context.Context, client platform.Client, raw platform.RawSubmission) (models.Problem, bool, error) {
	if raw.ProblemID == "" {
		return models.Problem{}, false, fmt.Errorf("raw submission has no problem identifier")
	}

	problem := models.Problem{
		Platform:   client.Platform(),
		PlatformID: raw.ProblemID,
		Title:      raw.ProblemTitle,
		URL:        raw.ProblemURL,
		Difficulty: client.MapDifficulty(raw.Rating, raw.DifficultyLabel),
	}

	if len(raw.Tags) > 0 {
		if topics, err := json.Marshal(raw.Tags); err == nil {
			problem.Topics = datatypes.JSON(topics)
		}
	}

	created, err := s.problems.FindOrCreate(ctx, &problem)
	if err != nil {
		return models.Problem{}, false, fmt.Errorf("failed to resolve problem %s: %w", raw.ProblemID, err)
	}

	return problem, created, nil
}

// resolveSubmission skips raw submissions already imported and persists new
// ones with normalized units. The retention cap is enforced before every
// insert so a sync can never push a user past the cap.
func (s *syncService) resolveSubmission(ctx context.Context, client platform.Client, account models.PlatformAccount, problem models.Problem, raw platform.RawSubmission) (models.Submission, bool, error) {
	if raw.ID == "" {
		return models.Submission{}, false, fmt.Errorf("raw submission has no external identifier")
	}

	_, err := s.submissions.GetByPlatformExternalID(ctx, client.Platform(), raw.ID)
	if err == nil {
		return models.Submission{}, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Submission{}, false, err
	}

	submission := models.Submission{
		UserID:               account.UserID,
		ProblemID:            problem.ID,
		Platform:             client.Platform(),
		PlatformSubmissionID: raw.ID,
		Status:               client.MapVerdict(raw.Verdict),
		Language:             raw.Language,
		Code:                 raw.Code,
		SubmittedAt:          raw.SubmittedAt,
	}

	if raw.TimeMillis != nil {
		seconds := *raw.TimeMillis / 1000
		submission.TimeTakenSec = &seconds
	}
	if raw.MemoryBytes != nil {
		kilobytes := *raw.MemoryBytes / 1024
		submission.MemoryUsedKB = &kilobytes
	}

	if submission.Code == "" && submission.IsAccepted() {
		submission.Code = s.scrapeSource(ctx, client.Platform(), raw)
	}

	if _, err := s.submissions.EvictToCap(ctx, account.UserID, models.RetentionCap); err != nil {
		return models.Submission{}, false, fmt.Errorf("failed to enforce retention cap: %w", err)
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return models.Submission{}, false, fmt.Errorf("failed to persist submission %s: %w", raw.ID, err)
	}

	if submission.IsAccepted() {
		if err := s.users.AddPoints(ctx, account.UserID, acceptedPoints); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", account.UserID).Msg("failed to award points")
		}
	}

	return submission, true, nil
}

// scrapeSource best-effort fetches the submission source via the headless
// browser. Only Codeforces pages are scrapeable; failures leave code empty.
func (s *syncService) scrapeSource(ctx context.Context, p models.Platform, raw platform.RawSubmission) string {
	if s.source == nil || p != models.PlatformCodeforces || raw.ContestID == "" {
		return ""
	}

	code, err := s.source.FetchSource(ctx, raw.ContestID, raw.ID)
	if err != nil {
		s.logger.Debug().Err(err).Str("external_id", raw.ID).Msg("source scrape failed")
		return ""
	}

	return code
}

// ComputeAccountStats recomputes the per-account counters from one sync
// delta. These counters intentionally cover the delta only, not lifetime
// totals; a quiet sync yields 0/0 and a 0 success rate.
func ComputeAccountStats(newProblems []models.Problem, newSubmissions []models.Submission) models.AccountStats {
	stats := models.AccountStats{
		ProblemsSolved:   len(newProblems),
		TotalSubmissions: len(newSubmissions),
	}

	if len(newSubmissions) == 0 {
		return stats
	}

	accepted := 0
	for _, submission := range newSubmissions {
		if submission.IsAccepted() {
			accepted++
		}
	}

	stats.SuccessRate = 100 * float64(accepted) / float64(len(newSubmissions))

	return stats
}
