package database

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("database circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

func (s breakerState) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

type CircuitBreakerConfig struct {
	MaxFailures     int
	ResetTimeout    time.Duration
	HalfOpenMaxSucc int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:     5,
		ResetTimeout:    30 * time.Second,
		HalfOpenMaxSucc: 2,
	}
}

// circuitBreaker stops health checks from piling onto a database that is
// already failing. After MaxFailures consecutive errors it rejects calls
// until ResetTimeout has passed, then lets checks through half-open.
type circuitBreaker struct {
	mu                sync.Mutex
	config            CircuitBreakerConfig
	state             breakerState
	failures          int
	halfOpenSuccesses int
	lastFailureTime   time.Time
	now               func() time.Time
}

func newCircuitBreaker(config CircuitBreakerConfig) *circuitBreaker {
	return &circuitBreaker{
		config: config,
		state:  stateClosed,
		now:    time.Now,
	}
}

// allow reports whether a call may proceed, moving open to half-open
// once the reset timeout has elapsed
func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == stateOpen && cb.now().Sub(cb.lastFailureTime) > cb.config.ResetTimeout {
		cb.state = stateHalfOpen
		cb.halfOpenSuccesses = 0
	}
	return cb.state != stateOpen
}

func (cb *circuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		switch cb.state {
		case stateHalfOpen:
			cb.halfOpenSuccesses++
			if cb.halfOpenSuccesses >= cb.config.HalfOpenMaxSucc {
				cb.state = stateClosed
				cb.failures = 0
			}
		case stateClosed:
			cb.failures = 0
		}
		return
	}

	cb.lastFailureTime = cb.now()
	switch cb.state {
	case stateHalfOpen:
		cb.state = stateOpen
	case stateClosed:
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.state = stateOpen
		}
	}
}

func (cb *circuitBreaker) currentState() breakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
