package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
	"github.com/codetrack-dev/codetrack-api/pkg/ai"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionForbidden indicates the caller does not own the submission.
var ErrSubmissionForbidden = errors.New("forbidden")

// ErrProblemNotFound indicates the referenced problem does not exist.
var ErrProblemNotFound = errors.New("problem not found")

// ErrAnalyzerUnavailable indicates no AI analyzer is configured.
var ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

// SubmissionService records and annotates directly created submissions.
type SubmissionService interface {
	List(ctx context.Context, userID uint, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	Get(ctx context.Context, userID, id uint) (dto.SubmissionResponse, error)
	Create(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Update(ctx context.Context, userID, id uint, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error)
	Analyze(ctx context.Context, userID, id uint) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	problems    repository.ProblemRepository
	users       repository.UserRepository
	analyzer    ai.Analyzer
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. The analyzer
// may be nil; Analyze then reports ErrAnalyzerUnavailable.
func NewSubmissionService(submissions repository.SubmissionRepository, problems repository.ProblemRepository, users repository.UserRepository, analyzer ai.Analyzer, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		problems:    problems,
		users:       users,
		analyzer:    analyzer,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, userID uint, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	repoFilter := repository.SubmissionFilter{
		UserID:    &userID,
		ProblemID: filter.ProblemID,
		Limit:     filter.Limit,
	}
	if filter.Platform != nil {
		p := models.Platform(*filter.Platform)
		repoFilter.Platform = &p
	}
	if filter.Status != nil {
		status := models.SubmissionStatus(*filter.Status)
		repoFilter.Status = &status
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) Get(ctx context.Context, userID, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.ownedSubmission(ctx, userID, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Create records a submission made outside of a platform sync. The retention
// cap applies here exactly as it does on the sync path.
func (s *submissionService) Create(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	problem, err := s.problems.GetByID(ctx, payload.ProblemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrProblemNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submittedAt := s.now()
	if payload.SubmittedAt != nil {
		submittedAt = *payload.SubmittedAt
	}

	submission := models.Submission{
		UserID:       userID,
		ProblemID:    problem.ID,
		Platform:     problem.Platform,
		Status:       models.SubmissionStatus(payload.Status),
		Language:     payload.Language,
		Code:         payload.Code,
		TimeTakenSec: payload.TimeTaken,
		MemoryUsedKB: payload.MemoryUsed,
		SubmittedAt:  submittedAt,
		TimeSpentSec: payload.TimeSpent,
	}

	if _, err := s.submissions.EvictToCap(ctx, userID, models.RetentionCap); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if submission.IsAccepted() {
		if err := s.users.AddPoints(ctx, userID, acceptedPoints); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to award points")
		}
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// Update changes annotation fields only; identity fields are immutable.
func (s *submissionService) Update(ctx context.Context, userID, id uint, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.ownedSubmission(ctx, userID, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if payload.Notes != nil {
		submission.Notes = *payload.Notes
	}
	if payload.TimeComplexity != nil {
		submission.TimeComplexity = *payload.TimeComplexity
	}
	if payload.SpaceComplexity != nil {
		submission.SpaceComplexity = *payload.SpaceComplexity
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission annotated")

	return dto.NewSubmissionResponse(submission), nil
}

// Analyze runs the AI reviewer over the submission and stores the feedback.
func (s *submissionService) Analyze(ctx context.Context, userID, id uint) (dto.SubmissionResponse, error) {
	if s.analyzer == nil {
		return dto.SubmissionResponse{}, ErrAnalyzerUnavailable
	}

	submission, err := s.ownedSubmission(ctx, userID, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	var topics []string
	if len(submission.Problem.Topics) > 0 {
		_ = json.Unmarshal(submission.Problem.Topics, &topics)
	}

	analysis, err := s.analyzer.Analyze(ctx, ai.AnalysisInput{
		ProblemTitle: submission.Problem.Title,
		Difficulty:   string(submission.Problem.Difficulty),
		Topics:       topics,
		Language:     submission.Language,
		Status:       string(submission.Status),
		Code:         submission.Code,
	})
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.AIAnalysis = datatypes.JSON(payload)
	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("submission analyzed")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ownedSubmission(ctx context.Context, userID, id uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}

	if submission.UserID != userID {
		return models.Submission{}, ErrSubmissionForbidden
	}

	return submission, nil
}
