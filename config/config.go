// Package config loads the portal client configuration.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see Defaults).
//  2. A .env file in the working directory, or the files passed to Load.
//  3. Process environment variables prefixed with HEALTH_.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/octabyte/bm-health-portal/db/redis"
	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/otel"
	"github.com/octabyte/bm-health-portal/utils/logger"
)

const (
	DefaultAPIBaseURL  = "http://localhost:8081/api"
	DefaultSandboxAddr = ":8081"
	serviceName        = "bm-health-portal"
)

type Config struct {
	// APIBaseURL is resolved once at start-up; every request path is relative to it.
	APIBaseURL string `validate:"required,url"`
	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration `validate:"gte=0"`

	Logger  logger.Config
	Session SessionConfig
	Otel    otel.OtelConfig
	Events  EventsConfig
	Sandbox SandboxConfig
}

type SessionConfig struct {
	Backend  string        `validate:"oneof=memory file redis"`
	FilePath string        `validate:"required_if=Backend file"`
	Key      string        `validate:"required_if=Backend redis"`
	TTL      time.Duration `validate:"gte=0"`
	Redis    redis.Config
}

type EventsConfig struct {
	Enabled    bool
	URI        string `validate:"required_if=Enabled true"`
	Exchange   string
	RoutingKey string `validate:"required_if=Enabled true"`
}

// SandboxConfig configures the local mock API served by cmd/mockapi.
type SandboxConfig struct {
	Addr      string        `validate:"required"`
	JWTSecret string        `validate:"required,min=16"`
	TokenTTL  time.Duration `validate:"gt=0"`
}

// Defaults returns a configuration usable against a locally running API.
func Defaults() Config {
	return Config{
		APIBaseURL: DefaultAPIBaseURL,
		Logger: logger.Config{
			Level:       enums.LogLevelInfo,
			Env:         "development",
			ServiceName: serviceName,
			Encoding:    "console",
		},
		Session: SessionConfig{
			Backend:  enums.SessionBackendFile,
			FilePath: defaultSessionFile(),
			Key:      "health-portal:session",
			Redis:    redis.Config{Addr: "localhost:6379"},
		},
		Otel: otel.OtelConfig{
			ServiceName: serviceName,
			Environment: "development",
			SampleRate:  1.0,
		},
		Events: EventsConfig{
			Exchange:   "health.portal",
			RoutingKey: "session.events",
		},
		Sandbox: SandboxConfig{
			Addr:      DefaultSandboxAddr,
			JWTSecret: "sandbox-secret-change-me",
			TokenTTL:  time.Hour,
		},
	}
}

// Load applies defaults, the optional env files and the environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		// A missing default .env is fine; an explicitly named file is not.
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg := Defaults()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	if err := v.Var(c.Logger.Level, "omitempty,oneof="+enums.LogLevels); err != nil {
		return fmt.Errorf("log level %q: %w", c.Logger.Level, err)
	}
	if c.Otel.Enabled && c.Otel.Endpoint == "" {
		return errors.New("otel endpoint is required when otel is enabled")
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error

	c.APIBaseURL = getEnv("HEALTH_API_URL", c.APIBaseURL)
	if c.Timeout, err = getDuration("HEALTH_API_TIMEOUT", c.Timeout); err != nil {
		return err
	}

	c.Logger.Level = getEnv("HEALTH_LOG_LEVEL", c.Logger.Level)
	c.Logger.Env = getEnv("HEALTH_ENV", c.Logger.Env)
	c.Logger.Encoding = getEnv("HEALTH_LOG_ENCODING", c.Logger.Encoding)

	c.Session.Backend = getEnv("HEALTH_SESSION_BACKEND", c.Session.Backend)
	c.Session.FilePath = getEnv("HEALTH_SESSION_FILE", c.Session.FilePath)
	c.Session.Key = getEnv("HEALTH_SESSION_KEY", c.Session.Key)
	if c.Session.TTL, err = getDuration("HEALTH_SESSION_TTL", c.Session.TTL); err != nil {
		return err
	}
	c.Session.Redis.Addr = getEnv("HEALTH_REDIS_ADDR", c.Session.Redis.Addr)
	c.Session.Redis.Password = getEnv("HEALTH_REDIS_PASSWORD", c.Session.Redis.Password)
	if c.Session.Redis.DB, err = getInt("HEALTH_REDIS_DB", c.Session.Redis.DB); err != nil {
		return err
	}

	if c.Otel.Enabled, err = getBool("HEALTH_OTEL_ENABLED", c.Otel.Enabled); err != nil {
		return err
	}
	c.Otel.Endpoint = getEnv("HEALTH_OTEL_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Environment = c.Logger.Env

	if c.Events.Enabled, err = getBool("HEALTH_EVENTS_ENABLED", c.Events.Enabled); err != nil {
		return err
	}
	c.Events.URI = getEnv("HEALTH_AMQP_URI", c.Events.URI)
	c.Events.Exchange = getEnv("HEALTH_EVENTS_EXCHANGE", c.Events.Exchange)
	c.Events.RoutingKey = getEnv("HEALTH_EVENTS_ROUTING_KEY", c.Events.RoutingKey)

	c.Sandbox.Addr = getEnv("HEALTH_SANDBOX_ADDR", c.Sandbox.Addr)
	c.Sandbox.JWTSecret = getEnv("HEALTH_SANDBOX_JWT_SECRET", c.Sandbox.JWTSecret)
	if c.Sandbox.TokenTTL, err = getDuration("HEALTH_SANDBOX_TOKEN_TTL", c.Sandbox.TokenTTL); err != nil {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".health-session.json"
	}
	return filepath.Join(dir, serviceName, "session.json")
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
