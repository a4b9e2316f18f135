package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

const recentSubmissionCount = 10

// DashboardService produces lifetime practice aggregates per user, in
// contrast to the per-sync delta stored on each platform account.
type DashboardService interface {
	GetDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, error)
}

type dashboardService struct {
	users       repository.UserRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may
// be nil, in which case every call recomputes.
func NewDashboardService(users repository.UserRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		users:       users,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", userID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{UserID: &userID})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := s.buildResponse(user, submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func (s *dashboardService) buildResponse(user models.User, submissions []models.Submission) dto.DashboardResponse {
	response := dto.DashboardResponse{
		TotalSubmissions: len(submissions),
		Points:           user.Points,
		ByDifficulty:     make(map[models.Difficulty]int),
		ByPlatform:       make(map[models.Platform]int),
	}

	accepted := 0
	solvedProblems := make(map[uint]bool)
	for _, submission := range submissions {
		response.ByPlatform[submission.Platform]++

		if !submission.IsAccepted() {
			continue
		}
		accepted++
		if !solvedProblems[submission.ProblemID] {
			solvedProblems[submission.ProblemID] = true
			response.ByDifficulty[submission.Problem.Difficulty]++
		}
	}

	response.ProblemsSolved = len(solvedProblems)
	if len(submissions) > 0 {
		response.SuccessRate = 100 * float64(accepted) / float64(len(submissions))
	}

	recent := submissions
	if len(recent) > recentSubmissionCount {
		recent = recent[:recentSubmissionCount]
	}
	response.RecentSubmissions = dto.NewSubmissionResponseSlice(recent)

	return response
}
