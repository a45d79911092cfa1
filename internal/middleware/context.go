package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/quiverhq/accounts-api/internal/authz"
)

// Context keys used to store request metadata.
const (
	ContextKeyCaller    = "caller"
	ContextKeyRequestID = "request_id"
)

// CallerFromContext extracts the identity resolved by the JWT middleware,
// or nil when the request is unauthenticated.
func CallerFromContext(c echo.Context) *authz.Caller {
	caller, _ := c.Get(ContextKeyCaller).(*authz.Caller)
	return caller
}
