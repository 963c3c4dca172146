// Package observability starts the optional tracing and profiling
// integrations and tears them down in reverse order.
package observability

import (
	"context"
	"errors"

	"github.com/Joona374/BracketChallenge2.0/internal/config"
	"github.com/Joona374/BracketChallenge2.0/internal/platform/logging"
)

// Stack holds the shutdown hooks of whatever Setup started.
type Stack struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	stop func(context.Context) error
}

// Setup starts Uptrace tracing, Pyroscope profiling and the pprof listener
// as configured. On error, anything already started is shut down.
func Setup(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger.Named("observability")}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{"uptrace", startTracing},
		{"pyroscope", startProfiler},
		{"pprof", startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, s.logger)
		if err != nil {
			return nil, errors.Join(err, s.Shutdown(ctx))
		}
		if stop != nil {
			s.stops = append(s.stops, namedStop{name: step.name, stop: stop})
		}
	}
	return s, nil
}

// Shutdown stops every integration, last started first, and joins the errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		if err := s.stops[i].stop(ctx); err != nil {
			s.logger.Warn("observability shutdown failed", "component", s.stops[i].name, "error", err)
			errs = append(errs, err)
		}
	}
	s.stops = nil
	return errors.Join(errs...)
}
