package otel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func setupTestTracer() (*tracetest.SpanRecorder, func()) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return recorder, func() {
		_ = tp.Shutdown(context.Background())
	}
}

func TestWithTraceHeaders(t *testing.T) {
	_, cleanup := setupTestTracer()
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Received-Traceparent", r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, span := otel.Tracer("test").Start(context.Background(), "view-load")
	defer span.End()

	client := resty.New().SetBaseURL(server.URL).OnBeforeRequest(WithTraceHeaders)

	resp, err := client.R().SetContext(ctx).Get("/appointments/user/1/upcoming")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.NotEmpty(t, resp.Header().Get("X-Received-Traceparent"))
}

func TestStartHTTPSpan(t *testing.T) {
	recorder, cleanup := setupTestTracer()
	defer cleanup()

	ctx, finish := StartHTTPSpan(context.Background(), "health-portal", "gateway", "GET /allergies/user/1", "GET", "http://localhost:8081/api", "/allergies/user/1")
	assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())

	finish(http.StatusOK, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP.gateway.GET /allergies/user/1", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
}

func TestStartHTTPSpanWithError(t *testing.T) {
	recorder, cleanup := setupTestTracer()
	defer cleanup()

	_, finish := StartHTTPSpan(context.Background(), "health-portal", "gateway", "op", "GET", "http://localhost", "/x")
	finish(0, errors.New("connection refused"))

	_, finish = StartHTTPSpan(context.Background(), "health-portal", "gateway", "op", "GET", "http://localhost", "/x")
	finish(http.StatusUnauthorized, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Len(t, spans[0].Events(), 1)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "HTTP 401", spans[1].Status().Description)
}

func TestTraceContextPropagation(t *testing.T) {
	_, cleanup := setupTestTracer()
	defer cleanup()

	tracer := otel.Tracer("test")
	parentCtx, parent := tracer.Start(context.Background(), "parent")
	defer parent.End()

	headers := InjectTraceHeaders(parentCtx, map[string]string{})
	childCtx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(headers))
	_, child := tracer.Start(childCtx, "child")
	defer child.End()

	assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
	assert.NotEqual(t, parent.SpanContext().SpanID(), child.SpanContext().SpanID())
}
