package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

type dashboardFixture struct {
	users       *memoryUserRepo
	problems    *memoryProblemRepo
	submissions *memorySubmissionRepo
	service     DashboardService
}

func newDashboardFixture(t *testing.T, cache *redis.Client) *dashboardFixture {
	t.Helper()

	users := newMemoryUserRepo()
	problems := newMemoryProblemRepo()
	submissions := newMemorySubmissionRepo(problems)

	user := models.User{Username: "grinder", Email: "grinder@example.com", Points: 40}
	require.NoError(t, users.Create(context.Background(), &user))

	return &dashboardFixture{
		users:       users,
		problems:    problems,
		submissions: submissions,
		service:     NewDashboardService(users, submissions, cache, time.Minute, testLogger()),
	}
}

func (f *dashboardFixture) seed(t *testing.T, difficulty models.Difficulty, status models.SubmissionStatus, p models.Platform, at time.Time) {
	t.Helper()

	problem := models.Problem{
		Platform:   p,
		PlatformID: at.String(),
		Title:      "seeded",
		Difficulty: difficulty,
	}
	require.NoError(t, f.problems.Create(context.Background(), &problem))
	require.NoError(t, f.submissions.Create(context.Background(), &models.Submission{
		UserID:      1,
		ProblemID:   problem.ID,
		Platform:    p,
		Status:      status,
		SubmittedAt: at,
	}))
}

func TestDashboardAggregatesLifetimeTotals(t *testing.T) {
	fixture := newDashboardFixture(t, nil)

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	fixture.seed(t, models.DifficultyEasy, models.StatusAccepted, models.PlatformCodeforces, base)
	fixture.seed(t, models.DifficultyHard, models.StatusAccepted, models.PlatformCodeforces, base.Add(time.Hour))
	fixture.seed(t, models.DifficultyMedium, models.StatusWrongAnswer, models.PlatformLeetCode, base.Add(2*time.Hour))
	fixture.seed(t, models.DifficultyMedium, models.StatusTimeLimitExceeded, models.PlatformLeetCode, base.Add(3*time.Hour))

	dashboard, err := fixture.service.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, dashboard.TotalSubmissions)
	require.Equal(t, 2, dashboard.ProblemsSolved)
	require.InDelta(t, 50.0, dashboard.SuccessRate, 0.001)
	require.Equal(t, 40, dashboard.Points)
	require.Equal(t, 1, dashboard.ByDifficulty[models.DifficultyEasy])
	require.Equal(t, 1, dashboard.ByDifficulty[models.DifficultyHard])
	require.Equal(t, 2, dashboard.ByPlatform[models.PlatformCodeforces])
	require.Equal(t, 2, dashboard.ByPlatform[models.PlatformLeetCode])
	require.Len(t, dashboard.RecentSubmissions, 4)

	// Most recent first.
	require.Equal(t, models.StatusTimeLimitExceeded, dashboard.RecentSubmissions[0].Status)
}

func TestDashboardCountsDistinctSolvedProblems(t *testing.T) {
	fixture := newDashboardFixture(t, nil)

	problem := models.Problem{
		Platform:   models.PlatformCodeforces,
		PlatformID: "1700A",
		Title:      "resubmitted",
		Difficulty: models.DifficultyEasy,
	}
	require.NoError(t, fixture.problems.Create(context.Background(), &problem))

	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, fixture.submissions.Create(context.Background(), &models.Submission{
			UserID:      1,
			ProblemID:   problem.ID,
			Platform:    models.PlatformCodeforces,
			Status:      models.StatusAccepted,
			SubmittedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	dashboard, err := fixture.service.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, dashboard.TotalSubmissions)
	require.Equal(t, 1, dashboard.ProblemsSolved)
	require.Equal(t, 1, dashboard.ByDifficulty[models.DifficultyEasy])
}

func TestDashboardServesCachedResponse(t *testing.T) {
	server := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})

	fixture := newDashboardFixture(t, cache)
	fixture.seed(t, models.DifficultyEasy, models.StatusAccepted, models.PlatformCodeforces, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))

	first, err := fixture.service.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalSubmissions)

	// A write after caching is invisible until the TTL expires.
	fixture.seed(t, models.DifficultyHard, models.StatusAccepted, models.PlatformCodeforces, time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC))

	second, err := fixture.service.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, second.TotalSubmissions)

	server.FastForward(2 * time.Minute)

	third, err := fixture.service.GetDashboard(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, third.TotalSubmissions)
}
