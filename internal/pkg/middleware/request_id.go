package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/pkg/requestcontext"
)

// RequestIDMiddleware propagates X-Request-ID, generating one when absent, and
// stores it on the request context so context-aware logs carry it
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = requestcontext.NewRequestID()
			}

			c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			c.Set("request_id", requestID)

			req := c.Request()
			c.SetRequest(req.WithContext(requestcontext.WithRequestID(req.Context(), requestID)))

			return next(c)
		}
	}
}
