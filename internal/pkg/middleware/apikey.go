package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/scynett/momopay/internal/utils"
)

const APIKeyHeader = "X-API-Key"

// ValidateAPIKey guards operator and merchant routes. With no keys configured every request is rejected.
func ValidateAPIKey(keys []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get(APIKeyHeader)
			if apiKey == "" {
				return utils.UnauthorizedResponse(c, "API key is required")
			}

			for _, key := range keys {
				if key != "" && subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					return next(c)
				}
			}

			return utils.UnauthorizedResponse(c, "Invalid API key")
		}
	}
}
