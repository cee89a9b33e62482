package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/octabyte/bm-health-portal/models"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var testSecret = []byte("sandbox-secret-for-tests")

type MiddlewareTestSuite struct {
	suite.Suite
	e *echo.Echo
}

func (s *MiddlewareTestSuite) SetupTest() {
	s.e = echo.New()
	s.e.Use(SetRequestIDInContext(), SetTokenInContext(), SetSessionFromJWTToken(testSecret))

	s.e.GET("/whoami", func(c echo.Context) error {
		user, ok := appctx.GetSessionFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]interface{}{
			"authenticated": ok,
			"id":            user.ID,
			"token":         appctx.GetTokenFromContext(c.Request().Context()),
		})
	})
	s.e.GET("/private", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireSession())
}

func signToken(t *testing.T, secret []byte, user models.UserSummary, expiresIn time.Duration) string {
	t.Helper()
	claims := UserClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func (s *MiddlewareTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *MiddlewareTestSuite) TestValidToken() {
	token := signToken(s.T(), testSecret, models.UserSummary{ID: 1, Email: "sarah.johnson@email.com"}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(Authorization, BearerPrefix+token)
	rec := s.serve(req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"authenticated":true,"id":1,"token":"`+token+`"}`, rec.Body.String())
	s.NotEmpty(rec.Header().Get(RequestIDHeader))
}

func (s *MiddlewareTestSuite) TestTokenFromCookie() {
	token := signToken(s.T(), testSecret, models.UserSummary{ID: 7}, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionHeader, Value: token})
	rec := s.serve(req)

	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *MiddlewareTestSuite) TestRejectedTokens() {
	cases := map[string]string{
		"wrong secret": signToken(s.T(), []byte("another-secret-entirely"), models.UserSummary{ID: 1}, time.Hour),
		"expired":      signToken(s.T(), testSecret, models.UserSummary{ID: 1}, -time.Minute),
		"no user":      signToken(s.T(), testSecret, models.UserSummary{}, time.Hour),
		"garbage":      "abc123",
	}

	for name, token := range cases {
		s.Run(name, func() {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set(Authorization, BearerPrefix+token)
			rec := s.serve(req)

			s.Equal(http.StatusUnauthorized, rec.Code)
			s.JSONEq(`{"message":"Unauthorized"}`, rec.Body.String())
		})
	}
}

func (s *MiddlewareTestSuite) TestRequestIDIsKept() {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := s.serve(req)

	s.Equal("req-42", rec.Header().Get(RequestIDHeader))
	s.JSONEq(`{"authenticated":false,"id":0,"token":""}`, rec.Body.String())
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func TestSetTokenInContextStripsScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Authorization, "Bearer abc123")
	c := e.NewContext(req, httptest.NewRecorder())

	err := SetTokenInContext()(func(c echo.Context) error { return nil })(c)

	require.NoError(t, err)
	assert.Equal(t, "abc123", c.Get(TokenKey))
}
