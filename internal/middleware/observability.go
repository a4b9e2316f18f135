package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/codetrack-dev/codetrack-api/internal/observability"
)

// Observability records Prometheus request metrics and structured
// latency logging for every API route.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		route := routeTemplate(c)
		method := c.Method()
		status := c.Response().StatusCode()
		statusLabel := fmt.Sprintf("%d", status)

		observability.HTTPRequests().WithLabelValues(method, route, statusLabel).Inc()

		requestLogger := logger.With().
			Str("correlation_id", GetCorrelationID(c)).
			Str("route", route).
			Str("method", method).
			Int("status", status).
			Float64("latency_ms", float64(duration)/float64(time.Millisecond)).
			Logger()

		switch {
		case status >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg("request failed")
		case status >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg("request completed with client error")
		default:
			requestLogger.Info().Msg("request completed")
		}

		return err
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
