package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

// ProblemService serves the shared problem catalog and per-user notes.
type ProblemService interface {
	List(ctx context.Context, payload dto.ProblemListRequest) (dto.ProblemListResponse, error)
	Get(ctx context.Context, userID, id uint) (dto.ProblemResponse, error)
	UpsertNote(ctx context.Context, userID, problemID uint, payload dto.NoteUpsertRequest) (dto.NoteResponse, error)
}

type problemService struct {
	problems  repository.ProblemRepository
	notes     repository.ProblemNoteRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewProblemService constructs a ProblemService instance.
func NewProblemService(problems repository.ProblemRepository, notes repository.ProblemNoteRepository, validate *validator.Validate, logger zerolog.Logger) ProblemService {
	return &problemService{
		problems:  problems,
		notes:     notes,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "problem_service").Logger(),
	}
}

func (s *problemService) List(ctx context.Context, payload dto.ProblemListRequest) (dto.ProblemListResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProblemListResponse{}, err
	}

	filter := repository.ProblemFilter{
		Topic:    payload.Topic,
		Search:   payload.Search,
		Page:     payload.Page,
		PageSize: payload.PageSize,
	}
	if payload.Platform != "" {
		p := models.Platform(payload.Platform)
		filter.Platform = &p
	}
	if payload.Difficulty != "" {
		difficulty := models.Difficulty(payload.Difficulty)
		filter.Difficulty = &difficulty
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}
	if filter.Page == 0 {
		filter.Page = 1
	}

	problems, total, err := s.problems.List(ctx, filter)
	if err != nil {
		return dto.ProblemListResponse{}, err
	}

	return dto.ProblemListResponse{
		Items:      dto.NewProblemResponseSlice(problems),
		TotalItems: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
	}, nil
}

// Get returns one catalog problem with the caller's note attached, if any.
func (s *problemService) Get(ctx context.Context, userID, id uint) (dto.ProblemResponse, error) {
	problem, err := s.problems.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProblemResponse{}, ErrProblemNotFound
		}
		return dto.ProblemResponse{}, err
	}

	response := dto.NewProblemResponse(problem)

	if note, err := s.notes.GetByUserAndProblem(ctx, userID, id); err == nil {
		response.Note = note.Body
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.ProblemResponse{}, err
	}

	return response, nil
}

// UpsertNote sets the caller's note on the problem. Note text is user
// supplied and rendered back to browsers, so it passes through the HTML
// sanitizer before storage.
func (s *problemService) UpsertNote(ctx context.Context, userID, problemID uint, payload dto.NoteUpsertRequest) (dto.NoteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NoteResponse{}, err
	}

	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NoteResponse{}, ErrProblemNotFound
		}
		return dto.NoteResponse{}, err
	}

	note := models.ProblemNote{
		UserID:    userID,
		ProblemID: problemID,
		Body:      strings.TrimSpace(s.sanitizer.Sanitize(payload.Body)),
	}
	if err := s.notes.Upsert(ctx, &note); err != nil {
		return dto.NoteResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Uint("problem_id", problemID).Msg("problem note saved")

	return dto.NoteResponse{ProblemID: problemID, Body: note.Body}, nil
}
