package clients

import (
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down has passed.
	StateOpen

	// StateHalfOpen admits a few probe requests.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerSettings tune a CircuitBreaker.
type BreakerSettings struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// CoolDown is how long the circuit stays open before probing.
	CoolDown time.Duration

	// HalfOpenLimit bounds probes in flight, and is also the number of
	// consecutive probe successes that close the circuit again.
	HalfOpenLimit int
}

// CircuitBreaker guards one downstream service.
//
//	closed    -> open       after MaxFailures consecutive failures
//	open      -> half-open  once CoolDown has elapsed since the last failure
//	half-open -> closed     after HalfOpenLimit consecutive successes
//	half-open -> open       on any failure
type CircuitBreaker struct {
	mu        sync.Mutex
	settings  BreakerSettings
	state     State
	failures  int
	successes int
	inFlight  int
	openedAt  time.Time

	listener func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(settings BreakerSettings) *CircuitBreaker {
	if settings.MaxFailures < 1 {
		settings.MaxFailures = 1
	}

	if settings.HalfOpenLimit < 1 {
		settings.HalfOpenLimit = 1
	}

	return &CircuitBreaker{settings: settings, now: time.Now}
}

// OnStateChange registers fn to run after every transition. fn runs on the
// caller's goroutine with the breaker unlocked.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.listener = fn
}

// Allow reports whether a request may proceed. Every allowed request must be
// followed by RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var allowed bool

	from := cb.state

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) >= cb.settings.CoolDown {
			cb.setState(StateHalfOpen)
			cb.inFlight = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.inFlight < cb.settings.HalfOpenLimit {
			cb.inFlight++
			allowed = true
		}
	}

	cb.unlockAndNotify(from)

	return allowed
}

// RecordSuccess reports a request that reached the downstream and got an answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	from := cb.state

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.inFlight--
		cb.successes++

		if cb.successes >= cb.settings.HalfOpenLimit {
			cb.setState(StateClosed)
		}
	case StateOpen:
	}

	cb.unlockAndNotify(from)
}

// RecordFailure reports a request that failed at the transport or with a 5xx.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	from := cb.state

	switch cb.state {
	case StateClosed:
		cb.failures++

		if cb.failures >= cb.settings.MaxFailures {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.inFlight--
		cb.setState(StateOpen)
	case StateOpen:
		cb.openedAt = cb.now()
	}

	cb.unlockAndNotify(from)
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// setState requires cb.mu.
func (cb *CircuitBreaker) setState(to State) {
	cb.state = to
	cb.failures = 0
	cb.successes = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
		cb.inFlight = 0
	}
}

func (cb *CircuitBreaker) unlockAndNotify(from State) {
	to := cb.state
	listener := cb.listener
	cb.mu.Unlock()

	if from != to && listener != nil {
		listener(from, to)
	}
}
