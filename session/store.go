// Package session persists the client's belief about who is logged in.
//
// A session is a bearer token plus the user it was issued for. Every backend
// writes and removes both together.
package session

import (
	"context"
	"errors"

	"github.com/octabyte/bm-health-portal/models"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a logged in user
	// and the store holds none.
	ErrNotAuthenticated = errors.New("session: not authenticated")
	// ErrIncompleteSession is returned when a token comes without a user or
	// the other way round.
	ErrIncompleteSession = errors.New("session: token and user must be set together")
)

type Store interface {
	// Save replaces the stored session. Saving the anonymous session is the
	// same as Clear.
	Save(ctx context.Context, s models.Session) error
	// Load returns the last saved session, or the anonymous session.
	Load(ctx context.Context) (models.Session, error)
	// Clear removes the session and reports whether one was present. Among
	// concurrent callers at most one observes true.
	Clear(ctx context.Context) (bool, error)
}

// Notifier receives session lifecycle events.
type Notifier interface {
	Notify(ctx context.Context, event models.SessionEvent) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, models.SessionEvent) error { return nil }

// CurrentUserID returns the id of the stored user.
func CurrentUserID(ctx context.Context, store Store) (int64, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	if s.User == nil || s.User.ID == 0 {
		return 0, ErrNotAuthenticated
	}
	return s.User.ID, nil
}

// Token returns the stored bearer token, empty when anonymous.
func Token(ctx context.Context, store Store) (string, error) {
	s, err := store.Load(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

func cloneUser(u *models.UserSummary) *models.UserSummary {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
