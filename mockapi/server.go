// Package mockapi is an in-memory implementation of the health API used for
// local development and by the client's tests.
package mockapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/interfaces/http/echo/middleware"
	"github.com/octabyte/bm-health-portal/models"
	otelecho "github.com/octabyte/bm-health-portal/otel/echo"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	JWTSecret []byte
	TokenTTL  time.Duration
	// ServiceName enables tracing of incoming requests when set.
	ServiceName string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
	// SkipSeed starts with no accounts.
	SkipSeed bool
	Now      func() time.Time
}

type Server struct {
	cfg  Config
	echo *echo.Echo
	data *Dataset
	demo models.Profile
}

func New(cfg Config) (*Server, error) {
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("mockapi: jwt secret is required")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{cfg: cfg, data: NewDataset(cfg.BcryptCost)}
	if !cfg.SkipSeed {
		demo, err := s.data.SeedDemo(cfg.Now())
		if err != nil {
			return nil, err
		}
		s.demo = demo
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.JSONSerializer = goJSONSerializer{}
	s.echo.Logger.SetLevel(log.WARN)
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	e := s.echo
	e.Use(echomw.Recover())
	e.Use(middleware.SetRequestIDInContext())
	if s.cfg.ServiceName != "" {
		e.Use(otelecho.Middleware(s.cfg.ServiceName))
	}
	e.Use(middleware.SetTokenInContext())
	e.Use(middleware.SetSessionFromJWTToken(s.cfg.JWTSecret))

	api := e.Group("/api")
	api.POST("/auth/signin", s.signin)
	api.POST("/auth/signup", s.signup)

	private := api.Group("", middleware.RequireSession())
	private.GET("/"+enums.ProfileResource+"/:userId", s.getProfile)
	private.PUT("/"+enums.ProfileResource+"/:userId", s.updateProfile)

	registerCollection(private, enums.MedicalConditionResource, s.data.Conditions, nil)
	registerCollection(private, enums.AllergyResource, s.data.Allergies, nil)
	registerCollection(private, enums.AppointmentResource, s.data.Appointments, map[string]filter[models.Appointment]{
		"upcoming": func(a models.Appointment) bool { return isUpcoming(a, s.cfg.Now()) },
		"past":     func(a models.Appointment) bool { return isPast(a, s.cfg.Now()) },
	})
	registerCollection(private, enums.MedicationResource, s.data.Medications, map[string]filter[models.Medication]{
		"current":   func(m models.Medication) bool { return m.Type == enums.MedicationTypeCurrent },
		"as-needed": func(m models.Medication) bool { return m.Type == enums.MedicationTypeAsNeeded },
	})
	registerCollection(private, enums.LabResultResource, s.data.LabResults, nil)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Data() *Dataset {
	return s.data
}

// Demo returns the seeded patient, zero when seeding was skipped.
func (s *Server) Demo() models.Profile {
	return s.demo
}

func (s *Server) Start(addr string) error {
	log.Infof("health sandbox listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// IssueToken signs a session token for user. Expiry follows the wall clock
// the verifying middleware uses, not Config.Now.
func (s *Server) IssueToken(user models.UserSummary) (string, error) {
	now := time.Now()
	claims := middleware.UserClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
}
