package remote

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of a circuit breaker.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // requests flow
	BreakerOpen                         // fast-fail
	BreakerHalfOpen                     // one trial call at a time
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned without contacting the collaborator while the
// breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig tunes a Breaker. Zero values take the defaults.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures before opening (default 5)
	SuccessThreshold int           // half-open successes before closing (default 2)
	OpenTimeout      time.Duration // time spent open before a trial call (default 30s)
}

// Breaker guards calls to one collaborator.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failures         int
	successes        int
	trialInFlight    bool
	openedAt         time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	now              func() time.Time
}

// NewBreaker creates a closed breaker.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &Breaker{
		state:            BreakerClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
		now:              time.Now,
	}
}

// State returns the current state, moving open to half-open once the open
// timeout has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() BreakerState {
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		b.state = BreakerHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute runs fn unless the breaker is open. While half-open only one call
// is let through at a time; concurrent callers get ErrCircuitOpen. Only errors
// for which countsAsFailure returns true move the breaker toward open; other
// errors are returned untouched and count as a healthy round trip.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	state := b.stateLocked()
	trial := state == BreakerHalfOpen
	if state == BreakerOpen || (trial && b.trialInFlight) {
		b.mu.Unlock()
		return ErrCircuitOpen
	}
	if trial {
		b.trialInFlight = true
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if trial {
		b.trialInFlight = false
	}
	if err != nil && countsAsFailure(err) {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return err
}

func (b *Breaker) onFailure() {
	b.failures++
	switch b.state {
	case BreakerClosed:
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	case BreakerHalfOpen:
		b.trip()
	}
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.failures = 0
	b.successes = 0
}

func (b *Breaker) onSuccess() {
	switch b.state {
	case BreakerClosed:
		b.failures = 0
	case BreakerHalfOpen:
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = BreakerClosed
			b.failures = 0
			b.successes = 0
		}
	}
}

// countsAsFailure reports whether err means the collaborator is unhealthy:
// transport failures and 5xx answers.
func countsAsFailure(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	var me *MalformedError
	return !errors.As(err, &me)
}
