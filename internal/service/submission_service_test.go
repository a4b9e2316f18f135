package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/pkg/ai"
)

type submissionFixture struct {
	users       *memoryUserRepo
	problems    *memoryProblemRepo
	submissions *memorySubmissionRepo
	service     SubmissionService
}

func newSubmissionFixture(t *testing.T, analyzer ai.Analyzer) *submissionFixture {
	t.Helper()

	users := newMemoryUserRepo()
	problems := newMemoryProblemRepo()
	submissions := newMemorySubmissionRepo(problems)
	validate := validator.New(validator.WithRequiredStructEnabled())

	user := models.User{Username: "solver", Email: "solver@example.com"}
	require.NoError(t, users.Create(context.Background(), &user))

	return &submissionFixture{
		users:       users,
		problems:    problems,
		submissions: submissions,
		service:     NewSubmissionService(submissions, problems, users, analyzer, validate, testLogger()),
	}
}

func (f *submissionFixture) seedProblem(t *testing.T, title string) uint {
	t.Helper()

	problem := models.Problem{
		Platform:   models.PlatformLeetCode,
		PlatformID: title,
		Title:      title,
		Difficulty: models.DifficultyMedium,
	}
	require.NoError(t, f.problems.Create(context.Background(), &problem))
	return problem.ID
}

func TestCreateSubmissionAwardsPoints(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "3Sum")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusAccepted, created.Status)
	require.Equal(t, models.PlatformLeetCode, created.Platform)

	user, err := fixture.users.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 10, user.Points)
}

func TestCreateSubmissionNoPointsForRejection(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "3Sum")

	_, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "wrong_answer",
		Language:  "Go",
	})
	require.NoError(t, err)

	user, err := fixture.users.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Zero(t, user.Points)
}

func TestCreateSubmissionValidatesPayload(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: 0,
		Status:    "nonsense",
	})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestCreateSubmissionUnknownProblem(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)

	_, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: 404,
		Status:    "accepted",
		Language:  "Go",
	})
	require.ErrorIs(t, err, ErrProblemNotFound)
}

func TestCreateSubmissionEnforcesRetentionCap(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "Two Sum")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < models.RetentionCap; i++ {
		require.NoError(t, fixture.submissions.Create(context.Background(), &models.Submission{
			UserID:               1,
			ProblemID:            problemID,
			Platform:             models.PlatformLeetCode,
			PlatformSubmissionID: fmt.Sprintf("seed-%d", i),
			Status:               models.StatusWrongAnswer,
			SubmittedAt:          base.Add(time.Duration(i) * time.Minute),
		}))
	}

	_, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)

	count, err := fixture.submissions.CountByUser(context.Background(), 1)
	require.NoError(t, err)
	require.EqualValues(t, models.RetentionCap, count)

	_, err = fixture.submissions.GetByPlatformExternalID(context.Background(), models.PlatformLeetCode, "seed-0")
	require.Error(t, err)
	_, err = fixture.submissions.GetByPlatformExternalID(context.Background(), models.PlatformLeetCode, "seed-1")
	require.NoError(t, err)
}

func TestGetRejectsForeignSubmission(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "Median of Two Sorted Arrays")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)

	_, err = fixture.service.Get(context.Background(), 2, created.ID)
	require.ErrorIs(t, err, ErrSubmissionForbidden)
}

func TestUpdateChangesAnnotationsOnly(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "Valid Parentheses")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)

	notes := "stack approach"
	timeComplexity := "O(n)"
	updated, err := fixture.service.Update(context.Background(), 1, created.ID, dto.SubmissionUpdateRequest{
		Notes:          &notes,
		TimeComplexity: &timeComplexity,
	})
	require.NoError(t, err)
	require.Equal(t, "stack approach", updated.Notes)
	require.Equal(t, "O(n)", updated.TimeComplexity)
	require.Equal(t, created.Status, updated.Status)
	require.Equal(t, created.SubmittedAt, updated.SubmittedAt)
}

type stubAnalyzer struct {
	analysis ai.Analysis
	err      error
	inputs   []ai.AnalysisInput
}

func (a *stubAnalyzer) Analyze(_ context.Context, input ai.AnalysisInput) (ai.Analysis, error) {
	a.inputs = append(a.inputs, input)
	return a.analysis, a.err
}

func TestAnalyzeStoresFeedback(t *testing.T) {
	analyzer := &stubAnalyzer{analysis: ai.Analysis{
		Strengths:        []string{"clean solution"},
		OptimizationTips: []string{"use a map"},
	}}

	fixture := newSubmissionFixture(t, analyzer)
	problemID := fixture.seedProblem(t, "Two Sum")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
		Code:      "func twoSum(nums []int, target int) []int { return nil }",
	})
	require.NoError(t, err)

	analyzed, err := fixture.service.Analyze(context.Background(), 1, created.ID)
	require.NoError(t, err)
	require.NotNil(t, analyzed.AIAnalysis)
	require.Equal(t, []string{"clean solution"}, analyzed.AIAnalysis.Strengths)

	require.Len(t, analyzer.inputs, 1)
	require.Equal(t, "Two Sum", analyzer.inputs[0].ProblemTitle)
}

func TestAnalyzeWithoutAnalyzer(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "Two Sum")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)

	_, err = fixture.service.Analyze(context.Background(), 1, created.ID)
	require.ErrorIs(t, err, ErrAnalyzerUnavailable)
}

func TestAnalyzeSurfacesAnalyzerError(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("rate limited")}

	fixture := newSubmissionFixture(t, analyzer)
	problemID := fixture.seedProblem(t, "Two Sum")

	created, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)

	_, err = fixture.service.Analyze(context.Background(), 1, created.ID)
	require.Error(t, err)
}

func TestListScopedToOwner(t *testing.T) {
	fixture := newSubmissionFixture(t, nil)
	problemID := fixture.seedProblem(t, "Shared Problem")

	other := models.User{Username: "other", Email: "other@example.com"}
	require.NoError(t, fixture.users.Create(context.Background(), &other))

	_, err := fixture.service.Create(context.Background(), 1, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "accepted",
		Language:  "Go",
	})
	require.NoError(t, err)
	_, err = fixture.service.Create(context.Background(), other.ID, dto.SubmissionCreateRequest{
		ProblemID: problemID,
		Status:    "wrong_answer",
		Language:  "Python",
	})
	require.NoError(t, err)

	mine, err := fixture.service.List(context.Background(), 1, dto.SubmissionFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, models.StatusAccepted, mine[0].Status)
}
