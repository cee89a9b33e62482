// Command mockapi serves the sandbox health records API with a seeded demo
// patient, for local development against healthctl.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/octabyte/bm-health-portal/config"
	"github.com/octabyte/bm-health-portal/mockapi"
	"github.com/octabyte/bm-health-portal/otel"
	"github.com/octabyte/bm-health-portal/otel/metrics"
	"github.com/octabyte/bm-health-portal/utils/logger"
)

func main() {
	envFile := flag.String("env-file", "", "Load configuration from this env file instead of ./.env")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		logger.Init(&logger.Config{Level: "error"})
		logger.LogError("failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	cfg.Logger.ServiceName = cfg.Otel.ServiceName + "-sandbox"
	logger.Init(&cfg.Logger)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	otelShutdown, err := otel.InitOpenTelemetry(ctx, cfg.Otel)
	if err != nil {
		logger.LogWarn("failed to initialize OpenTelemetry, continuing without tracing", zap.Error(err))
		otelShutdown = func(context.Context) error { return nil }
	}
	if err := metrics.Init(cfg.Logger.ServiceName); err != nil {
		logger.LogWarn("metrics disabled", zap.Error(err))
	}

	var serviceName string
	if cfg.Otel.Enabled {
		serviceName = cfg.Logger.ServiceName
	}
	api, err := mockapi.New(mockapi.Config{
		JWTSecret:   []byte(cfg.Sandbox.JWTSecret),
		TokenTTL:    cfg.Sandbox.TokenTTL,
		ServiceName: serviceName,
	})
	if err != nil {
		logger.LogError("failed to build sandbox", zap.Error(err))
		os.Exit(1)
	}
	logger.LogInfof("sandbox seeded, sign in as %s / %s (patient #%d)", mockapi.DemoEmail, mockapi.DemoPassword, api.Demo().ID)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return api.Start(cfg.Sandbox.Addr)
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.LogInfo("shutting down sandbox...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.LogError("shutdown error", zap.Error(err))
		os.Exit(1)
	}
	logger.LogInfo("sandbox exited properly")
}
