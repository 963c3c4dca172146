// Package resilience guards calls to flaky upstreams.
package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// Breaker trips open after FailureThreshold consecutive countable failures,
// rejects calls for OpenTimeout, then admits up to HalfOpenMaxReq probes.
// Outcomes are tagged with the generation they started in so results that
// straddle a transition are ignored. A nil *Breaker admits everything.
type Breaker struct {
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	mu        sync.Mutex
	state     CircuitState
	gen       uint64
	failures  int
	probes    int
	successes int
	expiry    time.Time
}

// NewBreaker returns nil when cfg is disabled.
func NewBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Breaker{cfg: cfg.withDefaults(), clock: clock, state: CircuitStateClosed}
}

// Execute runs fn if the breaker admits it. Errors for which countable
// returns false are passed through and count as successes.
func (b *Breaker) Execute(fn func() error, countable func(error) bool) error {
	if b == nil {
		return fn()
	}

	gen, err := b.admit()
	if err != nil {
		return err
	}

	err = fn()
	failed := err != nil && (countable == nil || countable(err))
	b.settle(gen, failed)
	return err
}

func (b *Breaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	state, notify := b.refresh(b.clock.Now())
	b.mu.Unlock()
	notify()
	return state
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	state, notify := b.refresh(b.clock.Now())
	gen := b.gen
	var err error
	switch state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probes >= b.cfg.HalfOpenMaxReq {
			err = ErrCircuitOpen
		} else {
			b.probes++
		}
	}
	b.mu.Unlock()
	notify()
	return gen, err
}

func (b *Breaker) settle(gen uint64, failed bool) {
	b.mu.Lock()
	now := b.clock.Now()
	state, notify := b.refresh(now)
	if gen != b.gen {
		b.mu.Unlock()
		notify()
		return
	}

	var from, to CircuitState
	switch {
	case state == CircuitStateClosed && failed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			from, to = state, b.move(CircuitStateOpen, now)
		}
	case state == CircuitStateClosed:
		b.failures = 0
	case state == CircuitStateHalfOpen && failed:
		from, to = state, b.move(CircuitStateOpen, now)
	case state == CircuitStateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq {
			from, to = state, b.move(CircuitStateClosed, now)
		}
	}
	b.mu.Unlock()

	notify()
	if to != "" {
		b.emit(from, to)
	}
}

// refresh promotes an expired open breaker to half-open. The returned func
// reports that transition and must be called after unlocking.
func (b *Breaker) refresh(now time.Time) (CircuitState, func()) {
	if b.state != CircuitStateOpen || now.Before(b.expiry) {
		return b.state, func() {}
	}
	b.move(CircuitStateHalfOpen, now)
	return b.state, func() { b.emit(CircuitStateOpen, CircuitStateHalfOpen) }
}

func (b *Breaker) move(to CircuitState, now time.Time) CircuitState {
	b.state = to
	b.gen++
	b.failures, b.probes, b.successes = 0, 0, 0
	b.expiry = time.Time{}
	if to == CircuitStateOpen {
		b.expiry = now.Add(b.cfg.OpenTimeout)
	}
	return to
}

func (b *Breaker) emit(from, to CircuitState) {
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}
