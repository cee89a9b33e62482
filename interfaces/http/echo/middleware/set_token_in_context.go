package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
)

// SetTokenInContext stores the raw bearer token, without its scheme, in both
// the echo context and the request context.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// First, look in the request header for the Authorization key
			token := c.Request().Header.Get(Authorization)

			// If no present, look in cookie
			if token == "" {
				cookie, err := c.Cookie(Authorization)
				if err == nil {
					token = cookie.Value
				}
			}

			token = strings.TrimSpace(strings.TrimPrefix(token, BearerPrefix))

			c.Set(TokenKey, token)
			c.SetRequest(c.Request().WithContext(appctx.WithToken(c.Request().Context(), token)))
			return next(c)
		}
	}
}
