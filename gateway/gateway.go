// Package gateway performs every call to the health API: one attempt per
// request, bearer authentication from the session, JSON in both directions.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/octabyte/bm-health-portal/models"
	"github.com/octabyte/bm-health-portal/otel"
	"github.com/octabyte/bm-health-portal/otel/metrics"
	"github.com/octabyte/bm-health-portal/utils/logger"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "http://localhost:8081/api"
	RequestIDHeader = "X-Request-ID"
	clientName      = "health-api"
)

type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero means no timeout.
	Timeout     time.Duration
	ServiceName string
}

// TokenSource yields the bearer token to send. An empty token means the
// request goes out without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// ErrorHandler sees every failed request. Its return value is what the
// caller of Do receives.
type ErrorHandler func(ctx context.Context, err error) error

type Request struct {
	Method  string
	Path    string
	Body    any
	Headers map[string]string
}

type Option func(*Gateway)

func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Gateway) {
		g.onError = h
	}
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		g.httpClient = c
	}
}

type Gateway struct {
	client     *resty.Client
	httpClient *http.Client
	tokens     TokenSource
	onError    ErrorHandler
	baseURL    string
	service    string
}

func New(cfg Config, tokens TokenSource, opts ...Option) *Gateway {
	g := &Gateway{
		tokens:  tokens,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		service: cfg.ServiceName,
	}
	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.service == "" {
		g.service = "health-portal"
	}
	if g.tokens == nil {
		g.tokens = TokenFunc(func(context.Context) (string, error) { return "", nil })
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.httpClient != nil {
		g.client = resty.NewWithClient(g.httpClient)
	} else {
		g.client = resty.New()
	}
	g.client.
		SetBaseURL(g.baseURL).
		SetRetryCount(0).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		OnBeforeRequest(otel.WithTraceHeaders)
	if cfg.Timeout > 0 {
		g.client.SetTimeout(cfg.Timeout)
	}

	return g
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do sends req and decodes a 2xx body into out. out may be nil when the
// caller does not need the body; an empty body leaves out untouched.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	err := g.do(ctx, req, out)
	if err != nil && g.onError != nil {
		return g.onError(ctx, err)
	}
	return err
}

func (g *Gateway) do(ctx context.Context, req Request, out any) error {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	token, err := g.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("read session token: %w", err)
	}

	requestID := uuid.NewString()
	ctx, finish := otel.StartHTTPSpan(ctx, g.service, clientName, method+" "+req.Path, method, g.baseURL, req.Path)

	r := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(RequestIDHeader, requestID)
	if token != "" {
		r.SetHeader("Authorization", "Bearer "+token)
	}
	r.SetHeaders(req.Headers)

	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			finish(0, err)
			return fmt.Errorf("encode %s %s body: %w", method, req.Path, err)
		}
		r.SetBody(payload)
	}

	metrics.IncrementInFlightRequests(ctx, method, req.Path)
	start := time.Now()
	resp, err := r.Execute(method, req.Path)
	elapsed := time.Since(start)
	metrics.DecrementInFlightRequests(ctx, method, req.Path)

	if err != nil {
		finish(0, err)
		metrics.RecordAPIRequest(ctx, method, req.Path, 0, elapsed, 0)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", method, req.Path, ctxErr)
		}
		return &TransportError{Op: method, URL: g.baseURL + req.Path, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	finish(status, nil)
	metrics.RecordAPIRequest(ctx, method, req.Path, status, elapsed, resp.Size())

	logger.LogDebug("health api request",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", status),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestID),
	)

	if !resp.IsSuccess() {
		return &HTTPError{Method: method, Path: req.Path, Status: status, Message: errorMessage(body, status)}
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{Path: req.Path, Err: err}
	}
	if err := validateDecoded(out); err != nil {
		return &DecodeError{Path: req.Path, Err: err}
	}
	return nil
}

// validateDecoded validates out, or each element when out points to a slice.
func validateDecoded(out any) error {
	if v, ok := out.(models.Validatable); ok {
		return v.Validate()
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return nil
	}
	items := rv.Elem()
	for i := 0; i < items.Len(); i++ {
		if v, ok := items.Index(i).Interface().(models.Validatable); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
