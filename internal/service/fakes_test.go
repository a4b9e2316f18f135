package service

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/platform"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[uint]models.User{}, nextID: 1}
}

func (r *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) AddPoints(_ context.Context, id uint, delta int) error {
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Points += delta
	r.users[id] = user
	return nil
}

func (r *memoryUserRepo) ListWithPlatform(_ context.Context, p models.Platform) ([]models.User, error) {
	var result []models.User
	for _, user := range r.users {
		for _, account := range user.PlatformAccounts {
			if account.Platform == p {
				result = append(result, user)
				break
			}
		}
	}
	return result, nil
}

type memoryAccountRepo struct {
	accounts map[uint]models.PlatformAccount
	nextID   uint
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: map[uint]models.PlatformAccount{}, nextID: 1}
}

func (r *memoryAccountRepo) ListByUser(_ context.Context, userID uint) ([]models.PlatformAccount, error) {
	var result []models.PlatformAccount
	for _, account := range r.accounts {
		if account.UserID == userID {
			result = append(result, account)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *memoryAccountRepo) GetByUserAndPlatform(_ context.Context, userID uint, p models.Platform) (models.PlatformAccount, error) {
	for _, account := range r.accounts {
		if account.UserID == userID && account.Platform == p {
			return account, nil
		}
	}
	return models.PlatformAccount{}, gorm.ErrRecordNotFound
}

func (r *memoryAccountRepo) Create(_ context.Context, account *models.PlatformAccount) error {
	account.ID = r.nextID
	r.nextID++
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) Update(_ context.Context, account *models.PlatformAccount) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepo) Delete(_ context.Context, userID uint, p models.Platform) error {
	for id, account := range r.accounts {
		if account.UserID == userID && account.Platform == p {
			delete(r.accounts, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryProblemRepo struct {
	problems map[uint]models.Problem
	nextID   uint
}

func newMemoryProblemRepo() *memoryProblemRepo {
	return &memoryProblemRepo{problems: map[uint]models.Problem{}, nextID: 1}
}

func (r *memoryProblemRepo) List(_ context.Context, filter repository.ProblemFilter) ([]models.Problem, int64, error) {
	var result []models.Problem
	for _, problem := range r.problems {
		if filter.Platform != nil && problem.Platform != *filter.Platform {
			continue
		}
		if filter.Difficulty != nil && problem.Difficulty != *filter.Difficulty {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(problem.Title), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, problem)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *memoryProblemRepo) GetByID(_ context.Context, id uint) (models.Problem, error) {
	problem, ok := r.problems[id]
	if !ok {
		return models.Problem{}, gorm.ErrRecordNotFound
	}
	return problem, nil
}

func (r *memoryProblemRepo) GetByPlatformID(_ context.Context, p models.Platform, platformID string) (models.Problem, error) {
	for _, problem := range r.problems {
		if problem.Platform == p && problem.PlatformID == platformID {
			return problem, nil
		}
	}
	return models.Problem{}, gorm.ErrRecordNotFound
}

func (r *memoryProblemRepo) Create(_ context.Context, problem *models.Problem) error {
	problem.ID = r.nextID
	r.nextID++
	r.problems[problem.ID] = *problem
	return nil
}

func (r *memoryProblemRepo) FindOrCreate(ctx context.Context, problem *models.Problem) (bool, error) {
	if existing, err := r.GetByPlatformID(ctx, problem.Platform, problem.PlatformID); err == nil {
		*problem = existing
		return false, nil
	}
	return true, r.Create(ctx, problem)
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	problems    *memoryProblemRepo
	nextID      uint
}

func newMemorySubmissionRepo(problems *memoryProblemRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: map[uint]models.Submission{}, problems: problems, nextID: 1}
}

func (r *memorySubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range r.submissions {
		if filter.UserID != nil && submission.UserID != *filter.UserID {
			continue
		}
		if filter.ProblemID != nil && submission.ProblemID != *filter.ProblemID {
			continue
		}
		if filter.Platform != nil && submission.Platform != *filter.Platform {
			continue
		}
		if filter.Status != nil && submission.Status != *filter.Status {
			continue
		}
		result = append(result, r.withProblem(submission))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := r.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return r.withProblem(submission), nil
}

func (r *memorySubmissionRepo) GetByPlatformExternalID(_ context.Context, p models.Platform, externalID string) (models.Submission, error) {
	for _, submission := range r.submissions {
		if submission.Platform == p && submission.PlatformSubmissionID == externalID {
			return submission, nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (r *memorySubmissionRepo) Create(_ context.Context, submission *models.Submission) error {
	submission.ID = r.nextID
	r.nextID++
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	if _, ok := r.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.submissions[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	var count int64
	for _, submission := range r.submissions {
		if submission.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memorySubmissionRepo) EvictToCap(ctx context.Context, userID uint, cap int) (int, error) {
	var owned []models.Submission
	for _, submission := range r.submissions {
		if submission.UserID == userID {
			owned = append(owned, submission)
		}
	}

	excess := len(owned) - (cap - 1)
	if excess <= 0 {
		return 0, nil
	}

	sort.Slice(owned, func(i, j int) bool { return owned[i].SubmittedAt.Before(owned[j].SubmittedAt) })
	for _, victim := range owned[:excess] {
		delete(r.submissions, victim.ID)
	}
	return excess, nil
}

func (r *memorySubmissionRepo) withProblem(submission models.Submission) models.Submission {
	if r.problems != nil {
		if problem, ok := r.problems.problems[submission.ProblemID]; ok {
			submission.Problem = problem
		}
	}
	return submission
}

type memoryNoteRepo struct {
	notes map[[2]uint]models.ProblemNote
}

func newMemoryNoteRepo() *memoryNoteRepo {
	return &memoryNoteRepo{notes: map[[2]uint]models.ProblemNote{}}
}

func (r *memoryNoteRepo) GetByUserAndProblem(_ context.Context, userID, problemID uint) (models.ProblemNote, error) {
	note, ok := r.notes[[2]uint{userID, problemID}]
	if !ok {
		return models.ProblemNote{}, gorm.ErrRecordNotFound
	}
	return note, nil
}

func (r *memoryNoteRepo) Upsert(_ context.Context, note *models.ProblemNote) error {
	r.notes[[2]uint{note.UserID, note.ProblemID}] = *note
	return nil
}

// stubClient is a scriptable platform client used by orchestrator tests.
type stubClient struct {
	platform models.Platform
	raws     []platform.RawSubmission
	fetchErr error
	fetches  int
}

func (c *stubClient) Platform() models.Platform {
	return c.platform
}

func (c *stubClient) FetchSubmissions(_ context.Context, _ string, _ platform.FetchOptions) ([]platform.RawSubmission, error) {
	c.fetches++
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.raws, nil
}

func (c *stubClient) MapVerdict(verdict string) models.SubmissionStatus {
	switch verdict {
	case "OK":
		return models.StatusAccepted
	case "WRONG_ANSWER":
		return models.StatusWrongAnswer
	default:
		return models.StatusOther
	}
}

func (c *stubClient) MapDifficulty(rating *float64, _ string) models.Difficulty {
	if rating == nil {
		return models.DifficultyMedium
	}
	if *rating < 1200 {
		return models.DifficultyEasy
	}
	return models.DifficultyHard
}

type stubSourceFetcher struct {
	code string
	err  error
}

func (f *stubSourceFetcher) FetchSource(_ context.Context, _, _ string) (string, error) {
	return f.code, f.err
}
