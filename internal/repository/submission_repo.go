package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	UserID    *uint
	ProblemID *uint
	Platform  *models.Platform
	Status    *models.SubmissionStatus
	Limit     int
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByPlatformExternalID(ctx context.Context, platform models.Platform, externalID string) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	EvictToCap(ctx context.Context, userID uint, cap int) (int, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{}).Preload("Problem")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ProblemID != nil {
		query = query.Where("problem_id = ?", *filter.ProblemID)
	}
	if filter.Platform != nil {
		query = query.Where("platform = ?", *filter.Platform)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var submissions []models.Submission
	if err := query.Order("submitted_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Preload("Problem").First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByPlatformExternalID(ctx context.Context, platform models.Platform, externalID string) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Where("platform_submission_id = ?", externalID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}

func (r *submissionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("user_id = ?", userID).
		Count(&count).Error

	return count, err
}

// EvictToCap deletes the user's oldest submissions by submitted_at until one
// more insert fits under the cap. Returns the number of evicted rows.
// Postgres cannot LIMIT a DELETE, so victims are selected first by id.
func (r *submissionRepository) EvictToCap(ctx context.Context, userID uint, cap int) (int, error) {
	count, err := r.CountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	excess := int(count) - (cap - 1)
	if excess <= 0 {
		return 0, nil
	}

	var victimIDs []uint
	err = r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("user_id = ?", userID).
		Order("submitted_at ASC").
		Limit(excess).
		Pluck("id", &victimIDs).Error
	if err != nil {
		return 0, err
	}

	if len(victimIDs) == 0 {
		return 0, nil
	}

	if err := r.db.WithContext(ctx).Delete(&models.Submission{}, victimIDs).Error; err != nil {
		return 0, err
	}

	return len(victimIDs), nil
}
