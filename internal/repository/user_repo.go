package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/models"
)

// UserRepository defines data operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	AddPoints(ctx context.Context, id uint, delta int) error
	ListWithPlatform(ctx context.Context, platform models.Platform) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("PlatformAccounts").First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) AddPoints(ctx context.Context, id uint, delta int) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
}

// ListWithPlatform returns every user holding an account on the platform,
// with their platform accounts preloaded. Used by the scheduler.
func (r *userRepository) ListWithPlatform(ctx context.Context, platform models.Platform) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("PlatformAccounts").
		Joins("JOIN platform_accounts ON platform_accounts.user_id = users.id").
		Where("platform_accounts.platform = ?", platform).
		Distinct("users.*").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}
