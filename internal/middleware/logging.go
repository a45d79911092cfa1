package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging writes a concise structured line for each HTTP request, including
// the caller id once authentication has resolved one.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			rid, _ := c.Get(ContextKeyRequestID).(string)
			callerID := "-"
			if caller := CallerFromContext(c); caller != nil {
				callerID = caller.ID
			}
			log.Printf("request_id=%s caller=%s method=%s path=%s status=%d latency=%s",
				rid, callerID, c.Request().Method, c.Request().URL.Path, c.Response().Status, latency)

			return err
		}
	}
}
