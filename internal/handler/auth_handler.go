package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/service"
	"github.com/codetrack-dev/codetrack-api/internal/utils"
)

// AuthHandler manages registration and login endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrUserExists):
		return utils.SendError(c, fiber.StatusConflict, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
