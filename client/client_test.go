package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/octabyte/bm-health-portal/config"
	redisdb "github.com/octabyte/bm-health-portal/db/redis"
	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/mockapi"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/session"
	"github.com/octabyte/bm-health-portal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func sandbox(t *testing.T) *httptest.Server {
	t.Helper()
	api, err := mockapi.New(mockapi.Config{JWTSecret: []byte("sandbox-secret-for-tests"), BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	server := httptest.NewServer(api.Handler())
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, apiURL string) config.Config {
	cfg := config.Defaults()
	cfg.APIBaseURL = apiURL + "/api"
	cfg.Session.Backend = enums.SessionBackendFile
	cfg.Session.FilePath = filepath.Join(t.TempDir(), "session.json")
	return cfg
}

func login(t *testing.T, c *Client) {
	t.Helper()
	_, err := c.Auth.Login(context.Background(), models.Credentials{Email: mockapi.DemoEmail, Password: mockapi.DemoPassword})
	require.NoError(t, err)
}

func TestFileBackendSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, sandbox(t).URL)

	first, err := New(ctx, cfg)
	require.NoError(t, err)
	login(t, first)
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg)
	require.NoError(t, err)
	defer second.Close()

	allergies, err := second.Allergies.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, allergies, 2)
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t, sandbox(t).URL)
	cfg.Session.Backend = enums.SessionBackendRedis
	cfg.Session.Redis = redisdb.Config{Addr: mr.Addr()}

	c, err := New(ctx, cfg)
	require.NoError(t, err)
	defer c.Close()

	login(t, c)
	assert.Equal(t, "Sarah", storedFirstName(t, mr.HGet(cfg.Session.Key, "user")))

	id, err := session.CurrentUserID(ctx, c.Store)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func storedFirstName(t *testing.T, raw string) string {
	t.Helper()
	var user models.UserSummary
	require.NoError(t, utils.BytesToStruct([]byte(raw), &user))
	return user.FirstName
}

func TestRedirectOnRejectedSession(t *testing.T) {
	ctx := context.Background()
	var redirects atomic.Int32

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(ctx, models.Session{Token: "forged", User: &models.UserSummary{ID: 1}}))

	c, err := New(ctx, testConfig(t, sandbox(t).URL),
		WithStore(store),
		WithRedirect(func(context.Context) { redirects.Add(1) }),
	)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Medications.GetCurrent(ctx)
	assert.Error(t, err)
	assert.Equal(t, int32(1), redirects.Load())

	ok, err := c.Auth.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFailures(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t, "http://localhost:1")
	cfg.Session.Backend = "sqlite"
	_, err := New(ctx, cfg)
	assert.ErrorContains(t, err, "unknown session backend")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg = testConfig(t, "http://localhost:1")
	cfg.Session.Backend = enums.SessionBackendRedis
	cfg.Session.Redis = redisdb.Config{Addr: addr}
	_, err = New(ctx, cfg)
	assert.ErrorContains(t, err, "failed to connect to redis")

	cfg = testConfig(t, "http://localhost:1")
	cfg.Events.Enabled = true
	cfg.Events.URI = "amqp://guest:guest@" + addr + "/"
	_, err = New(ctx, cfg)
	assert.ErrorContains(t, err, "failed to connect to rabbitmq")
}

func TestMemoryBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	cfg.Session.Backend = enums.SessionBackendMemory

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	_, isMemory := c.Store.(*session.MemoryStore)
	assert.True(t, isMemory)
	assert.Equal(t, server.URL+"/api", c.Gateway.BaseURL())
}
