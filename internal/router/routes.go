package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/auth"
	"github.com/quiverhq/accounts-api/internal/authz"
	"github.com/quiverhq/accounts-api/internal/config"
	"github.com/quiverhq/accounts-api/internal/entity"
	"github.com/quiverhq/accounts-api/internal/handler"
	middlewarepkg "github.com/quiverhq/accounts-api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Users *handler.UsersHandler
}

type route struct {
	method  string
	path    string
	rule    authz.Rule
	handler echo.HandlerFunc
	extra   []echo.MiddlewareFunc
}

// Register wires all HTTP routes for the API. Authorization is declared per
// route in a single table and enforced uniformly by the Authorize
// middleware, so no handler carries its own role conditionals.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, map[string]any{"status": "ok"})
	})

	uploadLimiter := middlewarepkg.UploadRateLimiter(cfg.RateLimitUpload)

	routes := []route{
		{method: http.MethodGet, path: "", rule: authz.RequireRole(entity.RoleAdmin), handler: handlers.Users.List},
		{method: http.MethodGet, path: "/me", rule: authz.RequireAuthenticated(), handler: handlers.Users.Me},
		{method: http.MethodGet, path: "/:id", rule: authz.RequireAnyRole(entity.RoleAdmin, entity.RoleUser), handler: handlers.Users.Get},
		{method: http.MethodPut, path: "/:id", rule: authz.RequireAnyRole(entity.RoleAdmin, entity.RoleUser), handler: handlers.Users.Update},
		{method: http.MethodPut, path: "/:id/password", rule: authz.RequireAnyRole(entity.RoleAdmin, entity.RoleUser), handler: handlers.Users.UpdatePassword},
		{method: http.MethodDelete, path: "/:id", rule: authz.RequireRole(entity.RoleAdmin), handler: handlers.Users.Delete},
		{method: http.MethodGet, path: "/:id/picture", rule: authz.RequireAnyRole(entity.RoleAdmin, entity.RoleUser), handler: handlers.Users.Avatar},
		{method: http.MethodPost, path: "/:id/picture", rule: authz.RequireAnyRole(entity.RoleAdmin, entity.RoleUser), handler: handlers.Users.Picture, extra: []echo.MiddlewareFunc{uploadLimiter}},
	}

	users := e.Group("/users", middlewarepkg.JWT(jwtManager))
	for _, r := range routes {
		mws := append([]echo.MiddlewareFunc{middlewarepkg.Authorize(r.rule)}, r.extra...)
		users.Add(r.method, r.path, r.handler, mws...)
	}
}
