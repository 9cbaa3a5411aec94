package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/intake-api/internal/webhook"
)

// SharedSecret authenticates automation-platform callbacks via the
// x-make-apikey header. The check runs before any parsing of the request
// body; payload validity never matters for an unauthenticated caller.
func SharedSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "webhook secret is not configured"})
			}

			provided := c.Request().Header.Get(webhook.SecretHeader)
			if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or missing api key"})
			}

			return next(c)
		}
	}
}
