package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"csvapi/internal/logging"
)

// Logger logs one structured record per HTTP request with the fields
// request_id, method, path, status and latency (milliseconds).
// Handlers get a request-scoped logger through logging.From(c.UserContext()).
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := RequestIDFromCtx(c)

		reqLogger := logger.With(slog.String("request_id", rid))
		c.SetUserContext(logging.With(c.UserContext(), reqLogger))

		err := c.Next()

		status := responseStatus(c, err)
		level := slog.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("request_id", rid),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		logger.LogAttrs(c.UserContext(), level, "request", attrs...)

		return err
	}
}
