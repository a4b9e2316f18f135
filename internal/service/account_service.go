package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

// ErrAccountNotFound indicates no account exists for the platform.
var ErrAccountNotFound = errors.New("platform account not found")

// AccountService manages the user's connected platform accounts.
type AccountService interface {
	Connect(ctx context.Context, userID uint, payload dto.ConnectPlatformRequest) (dto.PlatformAccountResponse, error)
	Disconnect(ctx context.Context, userID uint, p models.Platform) error
	List(ctx context.Context, userID uint) ([]dto.PlatformAccountResponse, error)
}

type accountService struct {
	accounts  repository.PlatformAccountRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(accounts repository.PlatformAccountRepository, validate *validator.Validate, logger zerolog.Logger) AccountService {
	return &accountService{
		accounts:  accounts,
		validator: validate,
		logger:    logger.With().Str("component", "account_service").Logger(),
	}
}

// Connect links a handle on the platform. Connecting an already linked
// platform replaces the handle and resets the stats block, keeping the
// one-account-per-platform invariant.
func (s *accountService) Connect(ctx context.Context, userID uint, payload dto.ConnectPlatformRequest) (dto.PlatformAccountResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PlatformAccountResponse{}, err
	}

	p := models.Platform(strings.ToLower(payload.Platform))

	existing, err := s.accounts.GetByUserAndPlatform(ctx, userID, p)
	if err == nil {
		existing.Handle = payload.Handle
		existing.Stats = models.AccountStats{}
		existing.LastSynced = nil
		if err := s.accounts.Update(ctx, &existing); err != nil {
			return dto.PlatformAccountResponse{}, err
		}

		s.logger.Info().Uint("user_id", userID).Str("platform", string(p)).Msg("platform account reconnected")

		return dto.NewPlatformAccountResponse(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.PlatformAccountResponse{}, err
	}

	account := models.PlatformAccount{
		UserID:   userID,
		Platform: p,
		Handle:   payload.Handle,
	}
	if err := s.accounts.Create(ctx, &account); err != nil {
		return dto.PlatformAccountResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("platform", string(p)).Msg("platform account connected")

	return dto.NewPlatformAccountResponse(account), nil
}

func (s *accountService) Disconnect(ctx context.Context, userID uint, p models.Platform) error {
	if err := s.accounts.Delete(ctx, userID, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", userID).Str("platform", string(p)).Msg("platform account disconnected")

	return nil
}

func (s *accountService) List(ctx context.Context, userID uint) ([]dto.PlatformAccountResponse, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewPlatformAccountResponseSlice(accounts), nil
}
