// Package client wires a ready to use health portal client from
// configuration.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/octabyte/bm-health-portal/classifier"
	"github.com/octabyte/bm-health-portal/config"
	redisdb "github.com/octabyte/bm-health-portal/db/redis"
	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/queue"
	"github.com/octabyte/bm-health-portal/resources"
	"github.com/octabyte/bm-health-portal/session"
	"github.com/octabyte/bm-health-portal/utils/logger"
	"go.uber.org/zap"
)

type Client struct {
	*resources.Resources

	Store      session.Store
	Gateway    *gateway.Gateway
	Classifier *classifier.Classifier

	closers []func() error
}

type options struct {
	store    session.Store
	notifier session.Notifier
	redirect classifier.RedirectFunc
}

type Option func(*options)

// WithStore overrides the configured session backend.
func WithStore(s session.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithNotifier overrides the configured event publisher.
func WithNotifier(n session.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithRedirect is called once whenever the API ends the session.
func WithRedirect(fn classifier.RedirectFunc) Option {
	return func(o *options) {
		o.redirect = fn
	}
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{}

	store := o.store
	if store == nil {
		var err error
		if store, err = c.openStore(ctx, cfg.Session); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	notifier := o.notifier
	if notifier == nil {
		var err error
		if notifier, err = c.openNotifier(cfg.Events); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	clsOpts := []classifier.Option{classifier.WithNotifier(notifier)}
	if o.redirect != nil {
		clsOpts = append(clsOpts, classifier.WithRedirect(o.redirect))
	}
	cls := classifier.New(store, clsOpts...)

	gw := gateway.New(gateway.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.Timeout,
		ServiceName: cfg.Otel.ServiceName,
	}, gateway.TokenFunc(func(ctx context.Context) (string, error) {
		return session.Token(ctx, store)
	}), gateway.WithErrorHandler(cls.Handler()))

	c.Store = store
	c.Gateway = gw
	c.Classifier = cls
	c.Resources = resources.New(gw, store, notifier)

	logger.LogDebug("health client ready",
		zap.String("api", gw.BaseURL()),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("events", cfg.Events.Enabled),
	)
	return c, nil
}

func (c *Client) openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case enums.SessionBackendMemory:
		return session.NewMemoryStore(), nil
	case enums.SessionBackendFile, "":
		return session.NewFileStore(cfg.FilePath), nil
	case enums.SessionBackendRedis:
		rdb, err := redisdb.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rdb.Close)
		return session.NewRedisStore(rdb, cfg.Key, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func (c *Client) openNotifier(cfg config.EventsConfig) (session.Notifier, error) {
	if !cfg.Enabled {
		return session.NopNotifier{}, nil
	}

	conn, err := queue.NewConnection(queue.ConnectionConfig{URI: cfg.URI})
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, conn.Close)

	if cfg.Exchange != "" {
		if err := conn.DeclareExchange(queue.ExchangeConfig{Name: cfg.Exchange, Durable: true}); err != nil {
			return nil, fmt.Errorf("failed to declare exchange %q: %w", cfg.Exchange, err)
		}
	}
	return queue.NewSessionPublisher(conn.Ch, queue.PublishConfig{
		Exchange:   cfg.Exchange,
		RoutingKey: cfg.RoutingKey,
	}), nil
}

// Close releases the redis and RabbitMQ connections opened by New.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
