package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/octabyte/bm-health-portal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type captured struct {
	method  string
	path    string
	headers http.Header
	body    string
}

type GatewayTestSuite struct {
	suite.Suite
	server  *httptest.Server
	last    atomic.Pointer[captured]
	handler http.HandlerFunc
	token   string
}

func (s *GatewayTestSuite) SetupTest() {
	s.token = ""
	s.last.Store(nil)
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.last.Store(&captured{method: r.Method, path: r.URL.Path, headers: r.Header.Clone(), body: string(body)})
		s.handler(w, r)
	}))
}

func (s *GatewayTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *GatewayTestSuite) gateway(opts ...Option) *Gateway {
	return New(Config{BaseURL: s.server.URL + "/api"}, TokenFunc(func(context.Context) (string, error) {
		return s.token, nil
	}), opts...)
}

func (s *GatewayTestSuite) TestBearerHeaderFromSession() {
	s.token = "abc123"

	err := s.gateway().Do(context.Background(), Request{Path: "/appointments/user/1/upcoming"}, nil)
	s.Require().NoError(err)

	got := s.last.Load()
	s.Equal(http.MethodGet, got.method)
	s.Equal("/api/appointments/user/1/upcoming", got.path)
	s.Equal("Bearer abc123", got.headers.Get("Authorization"))
	s.Equal("application/json", got.headers.Get("Content-Type"))
	s.NotEmpty(got.headers.Get(RequestIDHeader))
}

func (s *GatewayTestSuite) TestNoAuthorizationWhenAnonymous() {
	err := s.gateway().Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/signin"}, nil)
	s.Require().NoError(err)

	_, present := s.last.Load().headers["Authorization"]
	s.False(present)
}

func (s *GatewayTestSuite) TestHeaderOverridesAppliedLast() {
	s.token = "abc123"

	err := s.gateway().Do(context.Background(), Request{
		Path:    "/allergies/user/1",
		Headers: map[string]string{"Authorization": "Bearer override", "X-Extra": "1"},
	}, nil)
	s.Require().NoError(err)

	got := s.last.Load()
	s.Equal("Bearer override", got.headers.Get("Authorization"))
	s.Equal("1", got.headers.Get("X-Extra"))
}

func (s *GatewayTestSuite) TestBodyAndDecode() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":5,"allergen":"Peanuts","severity":"SEVERE"}`))
	}

	var out models.Allergy
	err := s.gateway().Do(context.Background(), Request{
		Method: "post",
		Path:   "/allergies/user/1",
		Body:   models.Allergy{Allergen: "Peanuts", Severity: "SEVERE"},
	}, &out)
	s.Require().NoError(err)

	got := s.last.Load()
	s.Equal(http.MethodPost, got.method)
	s.JSONEq(`{"allergen":"Peanuts","severity":"SEVERE"}`, got.body)
	s.Equal(int64(5), out.ID)
}

func (s *GatewayTestSuite) TestEmptyBodyIsSuccess() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	var out models.Allergy
	err := s.gateway().Do(context.Background(), Request{Method: http.MethodDelete, Path: "/allergies/user/1/5"}, &out)
	s.NoError(err)
	s.Equal(models.Allergy{}, out)
}

func (s *GatewayTestSuite) TestHTTPErrorMessage() {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message field", http.StatusForbidden, `{"message":"Access denied"}`, "Access denied"},
		{"error field", http.StatusBadRequest, `{"error":"name is required"}`, "name is required"},
		{"no body", http.StatusNotFound, ``, "Not Found"},
		{"not json", http.StatusInternalServerError, `<html>oops</html>`, "Internal Server Error"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}

			err := s.gateway().Do(context.Background(), Request{Path: "/medications/user/1"}, nil)

			var httpErr *HTTPError
			s.Require().ErrorAs(err, &httpErr)
			s.Equal(tc.status, httpErr.Status)
			s.Equal(tc.message, httpErr.Message)
			s.Equal(tc.status, StatusCode(err))
		})
	}
}

func (s *GatewayTestSuite) TestDecodeErrors() {
	cases := map[string]string{
		"malformed":      `[{"id":1,`,
		"wrong shape":    `{"id":1}`,
		"missing fields": `[{"id":1,"name":"Lisinopril"},{"name":"no id"}]`,
		"bad enum":       `[{"id":1,"name":"Lisinopril","type":"SOMETIMES"}]`,
	}

	for name, body := range cases {
		s.Run(name, func() {
			s.handler = func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}

			var out []models.Medication
			err := s.gateway().Do(context.Background(), Request{Path: "/medications/user/1"}, &out)

			var decodeErr *DecodeError
			s.ErrorAs(err, &decodeErr)
		})
	}
}

func (s *GatewayTestSuite) TestErrorHandlerSeesFailures() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}

	var seen error
	sentinel := errors.New("handled")
	g := s.gateway(WithErrorHandler(func(ctx context.Context, err error) error {
		seen = err
		return sentinel
	}))

	err := g.Do(context.Background(), Request{Path: "/lab-results/user/1"}, nil)
	s.ErrorIs(err, sentinel)
	s.Equal(http.StatusUnauthorized, StatusCode(seen))
}

func (s *GatewayTestSuite) TestCancelledContext() {
	release := make(chan struct{})
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	var out []models.Allergy
	err := s.gateway().Do(ctx, Request{Path: "/allergies/user/1"}, &out)
	s.ErrorIs(err, context.Canceled)
	s.Nil(out)
}

func (s *GatewayTestSuite) TestTokenSourceFailure() {
	g := New(Config{BaseURL: s.server.URL}, TokenFunc(func(context.Context) (string, error) {
		return "", errors.New("session unreadable")
	}))

	err := g.Do(context.Background(), Request{Path: "/x"}, nil)
	s.ErrorContains(err, "session unreadable")
	s.Nil(s.last.Load())
}

func TestGatewayTestSuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := New(Config{BaseURL: url}, nil).Do(context.Background(), Request{Path: "/allergies/user/1"}, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.MethodGet, transportErr.Op)
	assert.Equal(t, url+"/allergies/user/1", transportErr.URL)
	assert.Equal(t, 0, StatusCode(err))
}

func TestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	g := New(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond}, nil)
	err := g.Do(context.Background(), Request{Path: "/slow"}, nil)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestDefaults(t *testing.T) {
	g := New(Config{}, nil)
	assert.Equal(t, DefaultBaseURL, g.BaseURL())

	g = New(Config{BaseURL: "http://api.example.test/api/"}, nil)
	assert.Equal(t, "http://api.example.test/api", g.BaseURL())
}
