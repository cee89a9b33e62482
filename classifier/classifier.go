// Package classifier reacts to failed API calls. A 401 ends the session;
// every other failure is logged. The error itself is always handed back to
// the caller unchanged.
package classifier

import (
	"context"
	"time"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/models"
	otellogger "github.com/octabyte/bm-health-portal/otel/logger"
	"github.com/octabyte/bm-health-portal/otel/metrics"
	"github.com/octabyte/bm-health-portal/session"
	"go.uber.org/zap"
)

// RedirectFunc sends the user to the unauthenticated entry point.
type RedirectFunc func(ctx context.Context)

type Option func(*Classifier)

func WithNotifier(n session.Notifier) Option {
	return func(c *Classifier) {
		c.notifier = n
	}
}

func WithRedirect(fn RedirectFunc) Option {
	return func(c *Classifier) {
		c.redirect = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Classifier) {
		c.now = now
	}
}

type Classifier struct {
	store    session.Store
	notifier session.Notifier
	redirect RedirectFunc
	now      func() time.Time
}

func New(store session.Store, opts ...Option) *Classifier {
	c := &Classifier{
		store:    store,
		notifier: session.NopNotifier{},
		redirect: func(context.Context) {},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Handler adapts the classifier to the gateway's error hook.
func (c *Classifier) Handler() gateway.ErrorHandler {
	return c.Classify
}

// Classify performs the side effects for err and returns err.
func (c *Classifier) Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	kind := KindOf(err)
	fields := []zap.Field{zap.String("kind", string(kind)), zap.Error(err)}
	if status := gateway.StatusCode(err); status != 0 {
		fields = append(fields, zap.Int("status", status))
	}

	switch kind {
	case KindUnauthorized:
		c.forceLogout(ctx, err)
	case KindForbidden:
		otellogger.WarnCtx(ctx, "access forbidden", fields...)
	case KindNotFound:
		otellogger.WarnCtx(ctx, "resource not found", fields...)
	case KindServer:
		otellogger.ErrorCtx(ctx, "server error", nil, fields...)
	case KindClient:
		otellogger.WarnCtx(ctx, "request rejected", fields...)
	case KindDecode:
		otellogger.ErrorCtx(ctx, "unexpected response shape", nil, fields...)
	case KindCancelled:
		otellogger.DebugCtx(ctx, "request cancelled", fields...)
	default:
		otellogger.ErrorCtx(ctx, "network error", nil, fields...)
	}

	return err
}

// forceLogout clears the session. Only the caller that actually removed it
// redirects and publishes, so concurrent 401s log out once.
func (c *Classifier) forceLogout(ctx context.Context, cause error) {
	ctx = context.WithoutCancel(ctx)

	var userID int64
	if current, err := c.store.Load(ctx); err == nil && current.User != nil {
		userID = current.User.ID
	}

	cleared, err := c.store.Clear(ctx)
	if err != nil {
		otellogger.ErrorCtx(ctx, "failed to clear session after 401", err)
		return
	}
	if !cleared {
		otellogger.DebugCtx(ctx, "session already cleared", zap.Error(cause))
		return
	}

	otellogger.WarnCtx(ctx, "session rejected by server, logging out", zap.Int64("user_id", userID), zap.Error(cause))
	metrics.RecordForcedLogout(ctx)
	metrics.RecordSessionEvent(ctx, string(enums.SessionEventExpired))

	event := models.SessionEvent{
		Type:   enums.SessionEventExpired,
		UserID: userID,
		Reason: cause.Error(),
		At:     c.now().UTC(),
	}
	if err := c.notifier.Notify(ctx, event); err != nil {
		otellogger.WarnCtx(ctx, "failed to publish session event", zap.Error(err))
	}

	c.redirect(ctx)
}
