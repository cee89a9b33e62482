package context

import (
	"github.com/octabyte/bm-health-portal/models"
	"golang.org/x/net/context"
)

// GetSessionFromContext returns the user decoded from the request's bearer
// token. ok is false for anonymous requests.
func GetSessionFromContext(ctx context.Context) (models.UserSummary, bool) {
	user, ok := ctx.Value(SessionKey).(models.UserSummary)
	return user, ok
}

func WithSession(ctx context.Context, user models.UserSummary) context.Context {
	return context.WithValue(ctx, SessionKey, user)
}
