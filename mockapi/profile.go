package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/bm-health-portal/models"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
)

// pathUser parses :userId and checks it against the token's user.
func pathUser(c echo.Context) (int64, error) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	return userID, authorize(c, userID)
}

// authorize rejects access to another user's records.
func authorize(c echo.Context, owner int64) error {
	user, ok := appctx.GetSessionFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	if user.ID != owner {
		return echo.NewHTTPError(http.StatusForbidden, "Access denied")
	}
	return nil
}

func (s *Server) getProfile(c echo.Context) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	profile, err := s.data.Profile(userID)
	if errors.Is(err, errUnknownUser) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) updateProfile(c echo.Context) error {
	userID, err := pathUser(c)
	if err != nil {
		return err
	}

	var profile models.Profile
	if err := c.Bind(&profile); err != nil {
		return err
	}
	if err := models.ValidateNew(&profile); err != nil {
		return badRequest(err)
	}

	updated, err := s.data.UpdateProfile(userID, profile)
	if errors.Is(err, errUnknownUser) {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
