package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/repository"
)

// ErrInvalidCredentials indicates the email/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserExists indicates the username or email is already registered.
var ErrUserExists = errors.New("user already exists")

const tokenTTL = 24 * time.Hour

// AuthService registers and authenticates tracker users.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	jwtSecret string
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.AuthResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.AuthResponse{}, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Username:     payload.Username,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Name:         payload.Name,
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user registered")

	return s.issueToken(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user models.User) (dto.AuthResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
