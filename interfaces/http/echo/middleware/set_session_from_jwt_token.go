package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/bm-health-portal/models"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
)

// UserClaims is the payload of the tokens issued by the sandbox API.
type UserClaims struct {
	User models.UserSummary `json:"user"`
	jwt.RegisteredClaims
}

// SetSessionFromJWTToken verifies the HS256 bearer token and puts its user
// claim in the request context. Requests without a valid token continue
// anonymously.
func SetSessionFromJWTToken(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Attempt to get the JWTToken from the request header first
			JWTToken := strings.TrimPrefix(c.Request().Header.Get(Authorization), BearerPrefix)

			// If not present, attempt to get it from the cookie
			if JWTToken == "" {
				cookie, err := c.Cookie(SessionHeader)
				if err != nil {
					if !errors.Is(err, http.ErrNoCookie) {
						log.Errorf("Error retrieving session cookie: %v", err)
					}
					return next(c)
				}
				JWTToken = cookie.Value
			}

			claims := &UserClaims{}
			_, err := jwt.ParseWithClaims(JWTToken, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				log.Debugf("Rejected session token: %v", err)
				return next(c)
			}

			if err := claims.User.Validate(); err != nil {
				log.Debugf("Token carries no usable user: %v", err)
				return next(c)
			}

			c.Set(JWTSessionKey, claims.User)
			c.SetRequest(c.Request().WithContext(appctx.WithSession(c.Request().Context(), claims.User)))
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := appctx.GetSessionFromContext(c.Request().Context()); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
