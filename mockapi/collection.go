package mockapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/utils"
)

type filter[T any] func(T) bool

// registerCollection mounts the CRUD routes of one resource:
//
//	GET    /{name}/user/:userId
//	GET    /{name}/user/:userId/{view}
//	POST   /{name}/user/:userId
//	PUT    /{name}/:id
//	DELETE /{name}/:id
func registerCollection[T models.Validatable](g *echo.Group, name string, t *table[T], views map[string]filter[T]) {
	base := "/" + name

	g.GET(base+"/user/:userId", func(c echo.Context) error {
		userID, err := pathUser(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, t.list(userID, nil))
	})

	for view, keep := range views {
		g.GET(base+"/user/:userId/"+view, func(c echo.Context) error {
			userID, err := pathUser(c)
			if err != nil {
				return err
			}
			return c.JSON(http.StatusOK, t.list(userID, keep))
		})
	}

	g.POST(base+"/user/:userId", func(c echo.Context) error {
		userID, err := pathUser(c)
		if err != nil {
			return err
		}

		var v T
		if err := c.Bind(&v); err != nil {
			return err
		}
		if err := models.ValidateNew(&v); err != nil {
			return badRequest(err)
		}
		return c.JSON(http.StatusCreated, t.insert(userID, v))
	})

	g.PUT(base+"/:id", func(c echo.Context) error {
		id, err := ownedRecord(c, t)
		if err != nil {
			return err
		}

		var v T
		if err := c.Bind(&v); err != nil {
			return err
		}
		if err := models.ValidateNew(&v); err != nil {
			return badRequest(err)
		}

		updated, ok := t.replace(id, v)
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
		return c.JSON(http.StatusOK, updated)
	})

	g.DELETE(base+"/:id", func(c echo.Context) error {
		id, err := ownedRecord(c, t)
		if err != nil {
			return err
		}
		if !t.remove(id) {
			return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func ownedRecord[T any](c echo.Context, t *table[T]) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}

	owner, ok := t.ownerOf(id)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}
	return id, authorize(c, owner)
}

func appointmentDay(a models.Appointment) (time.Time, bool) {
	d, err := utils.ParseDate(a.Date)
	return d, err == nil
}

func today(now time.Time) time.Time {
	t, _ := utils.ParseDate(utils.FormatDate(now))
	return t
}

// isUpcoming keeps appointments from today on that are still going ahead.
func isUpcoming(a models.Appointment, now time.Time) bool {
	d, ok := appointmentDay(a)
	if !ok || d.Before(today(now)) {
		return false
	}
	return a.Status != enums.AppointmentStatusCancelled && a.Status != enums.AppointmentStatusCompleted
}

func isPast(a models.Appointment, now time.Time) bool {
	d, ok := appointmentDay(a)
	if !ok {
		return false
	}
	return d.Before(today(now)) || a.Status == enums.AppointmentStatusCompleted
}
