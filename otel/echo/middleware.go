package echo

import (
	"github.com/labstack/echo/v4"
	appctx "github.com/octabyte/bm-health-portal/utils/context"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns an Echo middleware that instruments HTTP requests with OpenTelemetry
func Middleware(serviceName string) echo.MiddlewareFunc {
	return MiddlewareWithConfig(serviceName, nil)
}

// MiddlewareWithConfig returns an Echo middleware with custom configuration
func MiddlewareWithConfig(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		// Attributes are added inside the server span, after the session
		// middlewares further down the chain have run.
		annotated := func(c echo.Context) error {
			err := next(c)

			span := trace.SpanFromContext(c.Request().Context())
			if span.IsRecording() {
				span.SetAttributes(
					attribute.String("http.route", c.Path()),
					attribute.String("http.method", c.Request().Method),
				)

				if user, ok := appctx.GetSessionFromContext(c.Request().Context()); ok {
					span.SetAttributes(attribute.Int64("user.id", user.ID))
				}
				if requestID := appctx.GetRequestIDFromContext(c.Request().Context()); requestID != "" {
					span.SetAttributes(attribute.String("request.id", requestID))
				}

				if err != nil {
					span.SetAttributes(attribute.String("error.message", err.Error()))
				}
			}

			return err
		}
		handler := baseMiddleware(annotated)

		return func(c echo.Context) error {
			// Skip middleware if configured
			if skipper != nil && skipper(c) {
				return next(c)
			}
			return handler(c)
		}
	}
}
