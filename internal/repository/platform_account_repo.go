package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// PlatformAccountRepository defines data operations for connected platform accounts.
type PlatformAccountRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]models.PlatformAccount, error)
	GetByUserAndPlatform(ctx context.Context, userID uint, platform models.Platform) (models.PlatformAccount, error)
	Create(ctx context.Context, account *models.PlatformAccount) error
	Update(ctx context.Context, account *models.PlatformAccount) error
	Delete(ctx context.Context, userID uint, platform models.Platform) error
}

type platformAccountRepository struct {
	db *gorm.DB
}

// NewPlatformAccountRepository instantiates the repository.
func NewPlatformAccountRepository(db *gorm.DB) PlatformAccountRepository {
	return &platformAccountRepository{db: db}
}

func (r *platformAccountRepository) ListByUser(ctx context.Context, userID uint) ([]models.PlatformAccount, error) {
	var accounts []models.PlatformAccount
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("platform ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}

	return accounts, nil
}

func (r *platformAccountRepository) GetByUserAndPlatform(ctx context.Context, userID uint, platform models.Platform) (models.PlatformAccount, error) {
	var account models.PlatformAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("platform = ?", platform).
		First(&account).Error
	if err != nil {
		return models.PlatformAccount{}, err
	}

	return account, nil
}

func (r *platformAccountRepository) Create(ctx context.Context, account *models.PlatformAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *platformAccountRepository) Update(ctx context.Context, account *models.PlatformAccount) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *platformAccountRepository) Delete(ctx context.Context, userID uint, platform models.Platform) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("platform = ?", platform).
		Delete(&models.PlatformAccount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
