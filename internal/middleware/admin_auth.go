package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const HeaderAdminToken = "x-admin-token"

// AdminAuth requires the x-admin-token header to equal secret. An empty secret
// means admin routes were never configured and every request gets a 500.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "Admin authentication not configured")
			}
			token := c.Request().Header.Get(HeaderAdminToken)
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Invalid or missing admin token")
			}
			return next(c)
		}
	}
}
