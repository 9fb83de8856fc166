package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/logger"
)

// RequestLogger assigns a request id, puts a request-scoped logger in the
// request context and logs one line per request.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			l := base.With(slog.String("request_id", requestID))
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), l)))

			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Duration("latency", time.Since(start)),
			}
			// Auth may have added user_id to the request logger.
			l = logger.FromContext(c.Request().Context(), l)
			switch {
			case status >= 500:
				l.Error("request completed", attrs...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", attrs...)
			}
			return nil
		}
	}
}
