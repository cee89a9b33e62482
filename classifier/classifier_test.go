package classifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/octabyte/bm-health-portal/enums"
	"github.com/octabyte/bm-health-portal/gateway"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.SessionEvent
}

func (n *recordingNotifier) Notify(_ context.Context, e models.SessionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *recordingNotifier) Events() []models.SessionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.SessionEvent(nil), n.events...)
}

type ClassifierTestSuite struct {
	suite.Suite
	originalLogger *zap.Logger
	logs           *observer.ObservedLogs
	store          *session.MemoryStore
	notifier       *recordingNotifier
	redirects      atomic.Int32
	classifier     *Classifier
	now            time.Time
}

func (s *ClassifierTestSuite) SetupSuite() {
	s.originalLogger = zap.L()
}

func (s *ClassifierTestSuite) TearDownSuite() {
	zap.ReplaceGlobals(s.originalLogger)
}

func (s *ClassifierTestSuite) SetupTest() {
	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs
	zap.ReplaceGlobals(zap.New(core))

	s.store = session.NewMemoryStore()
	s.Require().NoError(s.store.Save(context.Background(), models.Session{
		Token: "abc123",
		User:  &models.UserSummary{ID: 1, FirstName: "Sarah"},
	}))

	s.notifier = &recordingNotifier{}
	s.redirects.Store(0)
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.classifier = New(s.store,
		WithNotifier(s.notifier),
		WithRedirect(func(context.Context) { s.redirects.Add(1) }),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ClassifierTestSuite) httpErr(status int) error {
	return &gateway.HTTPError{Method: http.MethodGet, Path: "/allergies/user/1", Status: status, Message: http.StatusText(status)}
}

func (s *ClassifierTestSuite) TestUnauthorizedLogsOut() {
	in := s.httpErr(http.StatusUnauthorized)

	out := s.classifier.Classify(context.Background(), in)

	s.Same(in, out)
	got, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.Equal(models.Session{}, got)
	s.Equal(int32(1), s.redirects.Load())

	events := s.notifier.Events()
	s.Require().Len(events, 1)
	s.Equal(enums.SessionEventExpired, events[0].Type)
	s.Equal(int64(1), events[0].UserID)
	s.Equal(s.now, events[0].At)

	s.Equal(1, s.logs.FilterMessage("session rejected by server, logging out").Len())
}

func (s *ClassifierTestSuite) TestUnauthorizedWhenAlreadyAnonymous() {
	_, err := s.store.Clear(context.Background())
	s.Require().NoError(err)

	s.classifier.Classify(context.Background(), s.httpErr(http.StatusUnauthorized))

	s.Zero(s.redirects.Load())
	s.Empty(s.notifier.Events())
}

func (s *ClassifierTestSuite) TestUnauthorizedWithCancelledContextStillLogsOut() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.classifier.Classify(ctx, s.httpErr(http.StatusUnauthorized))

	got, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.False(got.Authenticated())
}

func (s *ClassifierTestSuite) TestOtherFailuresOnlyLog() {
	cases := []struct {
		err     error
		message string
		level   zapcore.Level
	}{
		{s.httpErr(http.StatusForbidden), "access forbidden", zapcore.WarnLevel},
		{s.httpErr(http.StatusNotFound), "resource not found", zapcore.WarnLevel},
		{s.httpErr(http.StatusInternalServerError), "server error", zapcore.ErrorLevel},
		{s.httpErr(http.StatusBadGateway), "server error", zapcore.ErrorLevel},
		{s.httpErr(http.StatusBadRequest), "request rejected", zapcore.WarnLevel},
		{&gateway.TransportError{Op: "GET", URL: "http://localhost:8081/api/x", Err: errors.New("connection refused")}, "network error", zapcore.ErrorLevel},
		{&gateway.DecodeError{Path: "/x", Err: errors.New("bad json")}, "unexpected response shape", zapcore.ErrorLevel},
		{fmt.Errorf("GET /x: %w", context.Canceled), "request cancelled", zapcore.DebugLevel},
		{errors.New("something odd"), "network error", zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		s.Run(tc.message, func() {
			before := s.logs.Len()

			out := s.classifier.Classify(context.Background(), tc.err)

			s.Equal(tc.err, out)
			s.Require().Equal(before+1, s.logs.Len())
			entry := s.logs.All()[before]
			s.Equal(tc.message, entry.Message)
			s.Equal(tc.level, entry.Level)
		})
	}

	got, err := s.store.Load(context.Background())
	s.Require().NoError(err)
	s.True(got.Authenticated())
	s.Zero(s.redirects.Load())
}

func (s *ClassifierTestSuite) TestNilError() {
	s.NoError(s.classifier.Classify(context.Background(), nil))
	s.Zero(s.logs.Len())
}

func (s *ClassifierTestSuite) TestParallelUnauthorizedLogOutOnce() {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer server.Close()

	gw := gateway.New(gateway.Config{BaseURL: server.URL + "/api"},
		gateway.TokenFunc(func(ctx context.Context) (string, error) { return session.Token(ctx, s.store) }),
		gateway.WithErrorHandler(s.classifier.Handler()),
	)

	paths := []string{"/medical-conditions/user/1", "/allergies/user/1", "/appointments/user/1/upcoming"}
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = gw.Do(context.Background(), gateway.Request{Path: path}, nil)
		}()
	}
	wg.Wait()

	s.Equal(int32(3), hits.Load())
	for _, err := range errs {
		s.Equal(http.StatusUnauthorized, gateway.StatusCode(err))
	}
	s.Equal(int32(1), s.redirects.Load())
	s.Len(s.notifier.Events(), 1)

	_, err := session.CurrentUserID(context.Background(), s.store)
	s.ErrorIs(err, session.ErrNotAuthenticated)
}

func TestClassifierTestSuite(t *testing.T) {
	suite.Run(t, new(ClassifierTestSuite))
}

func TestKindOf(t *testing.T) {
	cases := map[Kind]error{
		KindUnauthorized:     &gateway.HTTPError{Status: 401},
		KindForbidden:        fmt.Errorf("wrapped: %w", &gateway.HTTPError{Status: 403}),
		KindNotFound:         &gateway.HTTPError{Status: 404},
		KindServer:           &gateway.HTTPError{Status: 503},
		KindClient:           &gateway.HTTPError{Status: 409},
		KindDecode:           &gateway.DecodeError{Err: errors.New("x")},
		KindNetwork:          &gateway.TransportError{Err: &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}},
		KindCancelled:        fmt.Errorf("GET /x: %w", context.Canceled),
		KindNotAuthenticated: fmt.Errorf("load allergies: %w", session.ErrNotAuthenticated),
		KindUnknown:          errors.New("boom"),
	}

	for want, err := range cases {
		assert.Equal(t, want, KindOf(err), "error %v", err)
	}
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestDefaultsAreSafe(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), models.Session{Token: "t", User: &models.UserSummary{ID: 3}}))

	err := New(store).Classify(context.Background(), &gateway.HTTPError{Status: 401})

	assert.Error(t, err)
	got, loadErr := store.Load(context.Background())
	require.NoError(t, loadErr)
	assert.False(t, got.Authenticated())
}
