package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// API metrics
	apiRequestsTotal    metric.Int64Counter
	apiRequestDuration  metric.Float64Histogram
	apiRequestsInFlight metric.Int64UpDownCounter
	apiResponseSize     metric.Int64Histogram

	// Session metrics
	forcedLogoutsTotal metric.Int64Counter
	sessionEventsTotal metric.Int64Counter

	// Runtime metrics
	goGoroutines  metric.Int64ObservableGauge
	goMemoryUsage metric.Int64ObservableGauge
)

// Init initializes the metrics. Until it is called every Record function is
// a no-op.
func Init(serviceName string) error {
	meter = otel.Meter(serviceName)

	var err error

	apiRequestsTotal, err = meter.Int64Counter(
		"api_requests_total",
		metric.WithDescription("Total number of health API requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_requests_total counter: %w", err)
	}

	apiRequestDuration, err = meter.Float64Histogram(
		"api_request_duration_seconds",
		metric.WithDescription("Health API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_request_duration_seconds histogram: %w", err)
	}

	apiRequestsInFlight, err = meter.Int64UpDownCounter(
		"api_requests_in_flight",
		metric.WithDescription("Number of health API requests currently in flight"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_requests_in_flight gauge: %w", err)
	}

	apiResponseSize, err = meter.Int64Histogram(
		"api_response_size_bytes",
		metric.WithDescription("Health API response size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create api_response_size_bytes histogram: %w", err)
	}

	forcedLogoutsTotal, err = meter.Int64Counter(
		"session_forced_logouts_total",
		metric.WithDescription("Sessions cleared after the API rejected the token"),
		metric.WithUnit("{logout}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session_forced_logouts_total counter: %w", err)
	}

	sessionEventsTotal, err = meter.Int64Counter(
		"session_events_total",
		metric.WithDescription("Session lifecycle events by type"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create session_events_total counter: %w", err)
	}

	goGoroutines, err = meter.Int64ObservableGauge(
		"go_goroutines",
		metric.WithDescription("Number of goroutines currently running"),
		metric.WithUnit("{goroutine}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create go_goroutines gauge: %w", err)
	}

	goMemoryUsage, err = meter.Int64ObservableGauge(
		"go_memory_usage_bytes",
		metric.WithDescription("Memory usage in bytes"),
		metric.WithUnit("By"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			observer.Observe(int64(m.Alloc))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create go_memory_usage_bytes gauge: %w", err)
	}

	return nil
}

// RecordAPIRequest records one gateway round trip. statusCode is 0 when no
// response arrived.
func RecordAPIRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration, responseSize int64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	}

	if apiRequestsTotal != nil {
		apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if apiRequestDuration != nil {
		apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}

	if apiResponseSize != nil && responseSize > 0 {
		apiResponseSize.Record(ctx, responseSize, metric.WithAttributes(attrs...))
	}
}

func IncrementInFlightRequests(ctx context.Context, method, route string) {
	if apiRequestsInFlight != nil {
		apiRequestsInFlight.Add(ctx, 1, metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		))
	}
}

func DecrementInFlightRequests(ctx context.Context, method, route string) {
	if apiRequestsInFlight != nil {
		apiRequestsInFlight.Add(ctx, -1, metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
		))
	}
}

// RecordForcedLogout counts a session removed because of a 401.
func RecordForcedLogout(ctx context.Context) {
	if forcedLogoutsTotal != nil {
		forcedLogoutsTotal.Add(ctx, 1)
	}
}

func RecordSessionEvent(ctx context.Context, eventType string) {
	if sessionEventsTotal != nil {
		sessionEventsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("session.event", eventType)))
	}
}
