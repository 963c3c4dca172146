package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer   = otel.Tracer("bracketchallenge/internal/interfaces/httpapi")
	noopSpan = trace.SpanFromContext(context.Background())
)

// startSpan opens a child span for handler methods only. Helpers such as
// writeError and untraced routes like /healthz get a no-op span.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !strings.HasPrefix(name, "httpapi.Handler.") {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return tracer.Start(ctx, name)
}
