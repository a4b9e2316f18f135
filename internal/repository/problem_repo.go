package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// ProblemFilter narrows catalog queries.
type ProblemFilter struct {
	Platform   *models.Platform
	Difficulty *models.Difficulty
	Topic      string
	Search     string
	Page       int
	PageSize   int
}

// ProblemRepository defines data operations for the shared problem catalog.
type ProblemRepository interface {
	List(ctx context.Context, filter ProblemFilter) ([]models.Problem, int64, error)
	GetByID(ctx context.Context, id uint) (models.Problem, error)
	GetByPlatformID(ctx context.Context, platform models.Platform, platformID string) (models.Problem, error)
	Create(ctx context.Context, problem *models.Problem) error
	FindOrCreate(ctx context.Context, problem *models.Problem) (created bool, err error)
}

type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository instantiates the repository.
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

func (r *problemRepository) List(ctx context.Context, filter ProblemFilter) ([]models.Problem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Problem{})

	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.Difficulty != nil {
		query = query.Where("difficulty = ?", *filter.Difficulty)
	}
	if topic := strings.TrimSpace(filter.Topic); topic != "" {
		query = query.Where("topics::text LIKE ?", "%"+strings.ToLower(topic)+"%")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var problems []models.Problem
	if err := query.Order("created_at DESC").Find(&problems).Error; err != nil {
		return nil, 0, err
	}

	return problems, total, nil
}

func (r *problemRepository) GetByID(ctx context.Context, id uint) (models.Problem, error) {
	var problem models.Problem
	if err := r.db.WithContext(ctx).First(&problem, id).Error; err != nil {
		return models.Problem{}, err
	}

	return problem, nil
}

func (r *problemRepository) GetByPlatformID(ctx context.Context, platform models.Platform, platformID string) (models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Where("platform_id = ?", platformID).
		First(&problem).Error
	if err != nil {
		return models.Problem{}, err
	}

	return problem, nil
}

func (r *problemRepository) Create(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

// FindOrCreate resolves the canonical problem for (platform, platform_id),
// creating it when absent. Concurrent syncs can race the check-then-create;
// the unique index arbitrates, and the loser re-reads the winner's row so the
// first writer's non-key fields stand.
func (r *problemRepository) FindOrCreate(ctx context.Context, problem *models.Problem) (bool, error) {
	existing, err := r.GetByPlatformID(ctx, problem.Platform, problem.PlatformID)
	if err == nil {
		*problem = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	createErr := r.db.WithContext(ctx).Create(problem).Error
	if createErr == nil {
		return true, nil
	}

	if errors.Is(createErr, gorm.ErrDuplicatedKey) {
		existing, err = r.GetByPlatformID(ctx, problem.Platform, problem.PlatformID)
		if err != nil {
			return false, err
		}
		*problem = existing
		return false, nil
	}

	return false, createErr
}
