package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/models"
	otellogger "github.com/octabyte/bm-health-portal/otel/logger"
	"github.com/octabyte/bm-health-portal/otel/metrics"
	"github.com/octabyte/bm-health-portal/session"
)

// Auth moves the session between anonymous and authenticated.
type Auth struct {
	gw       Doer
	store    session.Store
	notifier session.Notifier
	now      func() time.Time
}

func NewAuth(gw Doer, store session.Store, notifier session.Notifier) *Auth {
	if notifier == nil {
		notifier = session.NopNotifier{}
	}
	return &Auth{gw: gw, store: store, notifier: notifier, now: time.Now}
}

// Login signs in and, when the response carries a token, persists it
// together with the returned user.
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (models.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/signin", creds)
}

// Signup registers a patient. Backends that answer with a token start a
// session the same way Login does.
func (a *Auth) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/signup", req)
}

func (a *Auth) authenticate(ctx context.Context, path string, body any) (models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.gw.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path, Body: body}, &resp); err != nil {
		return resp, err
	}
	if resp.Token == "" {
		return resp, nil
	}

	user := resp.Summary()
	if err := a.store.Save(ctx, models.Session{Token: resp.Token, User: &user}); err != nil {
		return resp, err
	}

	otellogger.InfofCtx(ctx, "user %d signed in", user.ID)
	a.publish(ctx, enums.SessionEventSignedIn, user.ID, "")
	return resp, nil
}

// Logout clears the session. It needs no network call.
func (a *Auth) Logout(ctx context.Context) error {
	current, _ := a.store.Load(ctx)

	cleared, err := a.store.Clear(ctx)
	if err != nil {
		return err
	}
	if cleared {
		var userID int64
		if current.User != nil {
			userID = current.User.ID
		}
		otellogger.InfofCtx(ctx, "user %d signed out", userID)
		a.publish(ctx, enums.SessionEventSignedOut, userID, "logout")
	}
	return nil
}

// CurrentUser returns the stored user, nil when anonymous.
func (a *Auth) CurrentUser(ctx context.Context) (*models.UserSummary, error) {
	s, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.User, nil
}

func (a *Auth) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := session.Token(ctx, a.store)
	return token != "", err
}

func (a *Auth) publish(ctx context.Context, t enums.SessionEventType, userID int64, reason string) {
	metrics.RecordSessionEvent(ctx, string(t))
	event := models.SessionEvent{Type: t, UserID: userID, Reason: reason, At: a.now().UTC()}
	if err := a.notifier.Notify(ctx, event); err != nil {
		otellogger.WarnfCtx(ctx, "failed to publish %s session event: %v", t, err)
	}
}
