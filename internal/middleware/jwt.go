package middleware // reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/employee-management/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token and
// injects the verified identity into the request context.  Handlers behind it
// can read the caller via `c.Get("user_id")` (uint64) and `c.Get("email")`.
// Every validation failure answers 401 with the same generic body; the client
// never learns whether the token was missing, malformed or expired.
func JWTAuth(secret, issuer, audience string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			id, err := utils.VerifyAccessToken(secret, issuer, audience, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", id.UserID)
			c.Set("email", id.Email)
			return next(c)
		}
	}
}
