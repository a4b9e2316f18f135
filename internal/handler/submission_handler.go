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

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Post("/:id/analyze", h.analyze)
}

func (h *SubmissionHandler) list(c *fiber.Ctx) error {
	filter := dto.SubmissionFilter{}
	if problemID, err := parseQueryUint(c, "problem_id"); err == nil && problemID != nil {
		filter.ProblemID = problemID
	}
	if platform := c.Query("platform"); platform != "" {
		filter.Platform = &platform
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if limit, err := parseQueryInt(c, "limit"); err == nil {
		filter.Limit = limit
	}

	submissions, err := h.service.List(c.Context(), userIDFromContext(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := h.service.Get(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission retrieved", submission)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission created", submission)
}

func (h *SubmissionHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var payload dto.SubmissionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.service.Update(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission updated", submission)
}

func (h *SubmissionHandler) analyze(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	submission, err := h.service.Analyze(c.Context(), userIDFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission analyzed", submission)
}

func (h *SubmissionHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrProblemNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "problem not found")
	case errors.Is(err, service.ErrSubmissionForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrAnalyzerUnavailable):
		return utils.SendError(c, fiber.StatusServiceUnavailable, "analysis unavailable")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
