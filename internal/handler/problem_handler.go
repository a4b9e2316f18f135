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

// ProblemHandler serves the shared problem catalog and per-user notes.
type ProblemHandler struct {
	service service.ProblemService
	logger  zerolog.Logger
}

// NewProblemHandler builds a problem handler instance.
func NewProblemHandler(service service.ProblemService, logger zerolog.Logger) *ProblemHandler {
	return &ProblemHandler{
		service: service,
		logger:  logger.With().Str("component", "problem_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProblemHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Put("/:id/note", h.upsertNote)
}

func (h *ProblemHandler) list(c *fiber.Ctx) error {
	payload := dto.ProblemListRequest{
		Platform:   c.Query("platform"),
		Difficulty: c.Query("difficulty"),
		Topic:      c.Query("topic"),
		Search:     c.Query("search"),
	}

	var err error
	if payload.Page, err = parseQueryInt(c, "page"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if payload.PageSize, err = parseQueryInt(c, "page_size"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	problems, err := h.service.List(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problems retrieved", problems)
}

func (h *ProblemHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid problem id")
	}

	problem, err := h.service.Get(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "problem retrieved", problem)
}

func (h *ProblemHandler) upsertNote(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid problem id")
	}

	var payload dto.NoteUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	note, err := h.service.UpsertNote(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "note saved", note)
}

func (h *ProblemHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrProblemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "problem not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
