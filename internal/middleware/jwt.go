package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/quiverhq/accounts-api/internal/auth"
	"github.com/quiverhq/accounts-api/internal/authz"
)

// JWT validates bearer tokens and stores the resolved caller in the request
// context. Handlers and the authorization gate receive the caller explicitly
// via CallerFromContext; nothing reads ambient security state.
func JWT(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c, "invalid authorization header")
			}

			claims, err := manager.ParseToken(parts[1])
			if err != nil {
				return unauthorized(c, "invalid token")
			}

			c.Set(ContextKeyCaller, &authz.Caller{
				ID:    claims.Subject,
				Email: claims.Email,
				Role:  claims.Role,
			})

			return next(c)
		}
	}
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"status": http.StatusUnauthorized, "message": message})
}
