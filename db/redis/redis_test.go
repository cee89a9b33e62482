package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewRedisClientUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, Config{Addr: addr})
	assert.Nil(t, client)
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestHashHelpers(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(ctx, Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.HSet("k", "stale", "1")
	require.NoError(t, HSetAll(ctx, client, "k", map[string]interface{}{"a": "1", "b": "2"}, time.Minute))

	fields, err := HGetAll(ctx, client, "k")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, fields)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	n, err := Del(ctx, client, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = Del(ctx, client, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	fields, err = HGetAll(ctx, client, "k")
	require.NoError(t, err)
	assert.Empty(t, fields)
}
