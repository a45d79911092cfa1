package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/authz"
)

// Authorize gates a route behind an authorization rule. It runs after the
// JWT middleware and short-circuits before the handler, so a denied request
// never touches a store.
func Authorize(rule authz.Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := CallerFromContext(c)
			if caller == nil {
				return unauthorized(c, "authentication required")
			}
			if !authz.Permit(caller, rule) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"status":  http.StatusForbidden,
					"message": "insufficient permissions",
				})
			}
			return next(c)
		}
	}
}
