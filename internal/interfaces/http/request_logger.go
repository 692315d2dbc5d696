package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pathassist/lab-billing/internal/infrastructure/events"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// RequestLogger registra cada petición y propaga el X-Request-ID al contexto de los casos
// de uso (se usa como correlation_id de los eventos). Va después de requestid.New().
func RequestLogger(log *logger.Logger) fiber.Handler {
	httpLog := log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.GetRespHeader(fiber.HeaderXRequestID)
		c.SetUserContext(events.WithCorrelationID(c.UserContext(), reqID))

		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler fije el status antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := httpLog.Info()
		if status >= fiber.StatusInternalServerError {
			ev = httpLog.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", reqID).
			Msg("request")
		return nil
	}
}
