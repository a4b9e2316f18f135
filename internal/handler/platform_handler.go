package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/dto"
	"github.com/codetrack-dev/codetrack-api/internal/models"
	"github.com/codetrack-dev/codetrack-api/internal/service"
	"github.com/codetrack-dev/codetrack-api/internal/utils"
)

// PlatformHandler manages connected platform accounts and manual syncs.
type PlatformHandler struct {
	accounts service.AccountService
	sync     service.SyncService
	logger   zerolog.Logger
}

// NewPlatformHandler builds a platform handler instance.
func NewPlatformHandler(accounts service.AccountService, sync service.SyncService, logger zerolog.Logger) *PlatformHandler {
	return &PlatformHandler{
		accounts: accounts,
		sync:     sync,
		logger:   logger.With().Str("component", "platform_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PlatformHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.connect)
	router.Delete("/:platform", h.disconnect)
	router.Post("/:platform/sync", h.syncNow)
}

func (h *PlatformHandler) list(c *fiber.Ctx) error {
	accounts, err := h.accounts.List(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "platform accounts retrieved", accounts)
}

func (h *PlatformHandler) connect(c *fiber.Ctx) error {
	var payload dto.ConnectPlatformRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.accounts.Connect(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "platform connected", account)
}

func (h *PlatformHandler) disconnect(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.accounts.Disconnect(c.Context(), userIDFromContext(c), platform); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "platform disconnected", nil)
}

func (h *PlatformHandler) syncNow(c *fiber.Ctx) error {
	platform, err := platformParam(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.sync.Sync(c.Context(), userIDFromContext(c), platform)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "sync completed", result)
}

func (h *PlatformHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrAccountNotConnected):
		return utils.SendError(c, fiber.StatusNotFound, "platform account not found")
	case errors.Is(err, service.ErrPlatformUnsupported):
		return utils.SendError(c, fiber.StatusBadRequest, "platform not supported")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func platformParam(c *fiber.Ctx) (models.Platform, error) {
	platform := models.Platform(strings.ToLower(c.Params("platform")))
	if !platform.Valid() {
		return "", errors.New("unknown platform")
	}
	return platform, nil
}
