package mockapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/bm-health-portal/models"
)

func (s *Server) signin(c echo.Context) error {
	var creds models.Credentials
	if err := c.Bind(&creds); err != nil {
		return err
	}
	if err := models.ValidateNew(&creds); err != nil {
		return badRequest(err)
	}

	profile, err := s.data.Authenticate(creds)
	if err != nil {
		log.Debugf("signin rejected for %s", creds.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}
	return s.respondWithToken(c, http.StatusOK, profile)
}

func (s *Server) signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := models.ValidateNew(&req); err != nil {
		return badRequest(err)
	}

	profile, err := s.data.Register(req)
	if errors.Is(err, errEmailTaken) {
		return echo.NewHTTPError(http.StatusConflict, "Email is already registered")
	}
	if err != nil {
		return err
	}
	return s.respondWithToken(c, http.StatusCreated, profile)
}

func (s *Server) respondWithToken(c echo.Context, status int, profile models.Profile) error {
	user := summaryOf(profile)
	token, err := s.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(status, models.AuthResponse{Token: token, UserSummary: user})
}

func badRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}
