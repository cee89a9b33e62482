package context

import (
	"context"
	"testing"

	"github.com/octabyte/bm-health-portal/models"
	"github.com/stretchr/testify/assert"
)

func TestSessionRoundTrip(t *testing.T) {
	_, ok := GetSessionFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSession(context.Background(), models.UserSummary{ID: 1, FirstName: "Sarah"})
	user, ok := GetSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(1), user.ID)
}

func TestTokenAndRequestID(t *testing.T) {
	assert.Empty(t, GetTokenFromContext(context.Background()))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))

	ctx := WithToken(context.Background(), "abc123")
	ctx = WithRequestID(ctx, "req-1")
	assert.Equal(t, "abc123", GetTokenFromContext(ctx))
	assert.Equal(t, "req-1", GetRequestIDFromContext(ctx))
}

func TestPlainStringKeysDoNotCollide(t *testing.T) {
	ctx := context.WithValue(context.Background(), "requestToken", "abc123")
	assert.Empty(t, GetTokenFromContext(ctx))
}
