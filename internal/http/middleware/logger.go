package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrorLocalKey is the Fiber locals key under which handlers leave the cause of a 500 response for the access log.
const ErrorLocalKey = "error"

// Logger writes one structured access log entry per request.
// Fields: request_id, method, path, status, latency_ms and ip. trace_id is added when a span
// is active and user when the request carries valid claims.
// 5xx responses are logged at error level, 4xx at warn, everything else at info.
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)
		fields := []zap.Field{
			zap.String("request_id", requestIDFromLocals(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
			zap.String("ip", c.IP()),
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		if claims := ClaimsFrom(c); claims != nil {
			fields = append(fields, zap.String("user", claims.Subject))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
			if err != nil {
				fields = append(fields, zap.Error(err))
			} else if cause, ok := c.Locals(ErrorLocalKey).(error); ok {
				fields = append(fields, zap.Error(cause))
			}
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}
		log.Log(level, "http_request", fields...)

		return err
	}
}

// responseStatus resolves the status the error handler will write for err.
// Errors that are not *fiber.Error end up as 500.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
