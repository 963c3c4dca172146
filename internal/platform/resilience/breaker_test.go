package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

var errUpstream = errors.New("nhl api unavailable")

func fail() error    { return errUpstream }
func succeed() error { return nil }

func newTestBreaker(t *testing.T, threshold, probes int) (*Breaker, *clockwork.FakeClock, *[]string) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 21, 9, 0, 0, 0, time.UTC))
	var (
		mu          sync.Mutex
		transitions []string
	)
	b := NewBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: threshold,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   probes,
		OnStateChange: func(from, to CircuitState) {
			mu.Lock()
			transitions = append(transitions, string(from)+">"+string(to))
			mu.Unlock()
		},
	}, clock)
	return b, clock, &transitions
}

func TestBreaker_Transitions(t *testing.T) {
	b, clock, transitions := newTestBreaker(t, 2, 1)

	if err := b.Execute(fail, nil); !errors.Is(err, errUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	_ = b.Execute(fail, nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}
	if err := b.Execute(succeed, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	clock.Advance(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Execute(succeed, nil); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probe, got %s", state)
	}

	want := []string{"closed>open", "open>half_open", "half_open>closed"}
	if len(*transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", *transitions)
	}
	for i := range want {
		if (*transitions)[i] != want[i] {
			t.Fatalf("transition %d: want %s, got %s", i, want[i], (*transitions)[i])
		}
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clock, _ := newTestBreaker(t, 1, 2)

	_ = b.Execute(fail, nil)
	clock.Advance(5 * time.Second)
	if err := b.Execute(fail, nil); !errors.Is(err, errUpstream) {
		t.Fatalf("expected probe to reach upstream, got %v", err)
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected failed probe to reopen, got %s", state)
	}
}

func TestBreaker_HalfOpenLimitsProbes(t *testing.T) {
	b, clock, _ := newTestBreaker(t, 1, 1)

	_ = b.Execute(fail, nil)
	clock.Advance(5 * time.Second)

	release := make(chan struct{})
	done := make(chan error, 1)
	started := make(chan struct{})
	go func() {
		done <- b.Execute(func() error {
			close(started)
			<-release
			return nil
		}, nil)
	}()
	<-started

	if err := b.Execute(succeed, nil); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("probe: %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after probe, got %s", state)
	}
}

func TestBreaker_NonCountableErrorsPassThrough(t *testing.T) {
	b, _, _ := newTestBreaker(t, 1, 1)
	errNotFound := errors.New("player not found")
	onlyUpstream := func(err error) bool { return errors.Is(err, errUpstream) }

	if err := b.Execute(func() error { return errNotFound }, onlyUpstream); !errors.Is(err, errNotFound) {
		t.Fatalf("expected pass-through error, got %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("non countable error must not trip the breaker, got %s", state)
	}

	_ = b.Execute(fail, onlyUpstream)
	calls := 0
	err := b.Execute(func() error { calls++; return nil }, onlyUpstream)
	if !errors.Is(err, ErrCircuitOpen) || calls != 0 {
		t.Fatalf("open breaker must short-circuit: err=%v calls=%d", err, calls)
	}
}

func TestNewBreaker(t *testing.T) {
	if b := NewBreaker(CircuitBreakerConfig{}, nil); b != nil {
		t.Fatalf("disabled config must yield nil breaker")
	}

	var disabled *Breaker
	if err := disabled.Execute(succeed, nil); err != nil {
		t.Fatalf("nil breaker must run fn: %v", err)
	}
	if disabled.State() != CircuitStateClosed {
		t.Fatalf("nil breaker reports closed")
	}

	b := NewBreaker(CircuitBreakerConfig{Enabled: true}, nil)
	if b.cfg.FailureThreshold != 5 || b.cfg.HalfOpenMaxReq != 2 || b.cfg.OpenTimeout != 15*time.Second {
		t.Fatalf("expected defaults, got %+v", b.cfg)
	}
}
