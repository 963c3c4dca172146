package logging

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// fields turns alternating key/value args into zap fields. A zap.Field is
// taken as is, a dangling key gets a nil value, and non-string keys become
// "arg".
func fields(args []any) []zap.Field {
	if len(args) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); {
		if f, ok := args[i].(zap.Field); ok {
			out = append(out, f)
			i++
			continue
		}

		key, _ := args[i].(string)
		if key == "" {
			key = "arg"
		}
		var value any
		if i+1 < len(args) {
			value = args[i+1]
		}
		i += 2

		if err, ok := value.(error); ok {
			out = append(out, zap.NamedError(key, err))
		} else {
			out = append(out, zap.Any(key, value))
		}
	}
	return out
}

func appendTrace(out []zap.Field, ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return out
	}
	return append(out,
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
