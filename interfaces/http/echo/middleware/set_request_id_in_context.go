package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
)

// SetRequestIDInContext keeps the caller's X-Request-ID (or generates one)
// and echoes it on the response.
func SetRequestIDInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			c.Set(RequestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)
			c.SetRequest(c.Request().WithContext(appctx.WithRequestID(c.Request().Context(), id)))
			return next(c)
		}
	}
}
