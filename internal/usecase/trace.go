package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer   = otel.Tracer("bracketchallenge/internal/usecase")
	noopSpan = trace.SpanFromContext(context.Background())
)

// startUsecaseSpan only opens a child span; a call without a recording parent
// (jobs outside a request, tests) stays untraced.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if name == "" || !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return tracer.Start(ctx, name)
}
