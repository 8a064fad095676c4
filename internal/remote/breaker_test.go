package remote

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_TripsAndRecovers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, OpenTimeout: time.Minute})
	b.now = func() time.Time { return now }

	boom := errors.New("dial tcp: refused")
	assert.ErrorIs(t, b.Execute(func() error { return boom }), boom)
	assert.Equal(t, BreakerClosed, b.State())
	assert.ErrorIs(t, b.Execute(func() error { return boom }), boom)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())
	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_HalfOpenTrialFailureReopens(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, OpenTimeout: time.Second})
	b.now = func() time.Time { return now }

	b.Execute(func() error { return errors.New("down") })
	now = now.Add(time.Second)
	b.Execute(func() error { return errors.New("still down") })
	assert.Equal(t, BreakerOpen, b.State())
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	b := NewBreaker(BreakerConfig{FailureThreshold: 1})

	b.Execute(func() error { return &StatusError{Service: "catalog", StatusCode: 404} })
	b.Execute(func() error { return &MalformedError{Service: "catalog", Err: errors.New("eof")} })
	assert.Equal(t, BreakerClosed, b.State())

	b.Execute(func() error { return &StatusError{Service: "catalog", StatusCode: 503} })
	assert.Equal(t, BreakerOpen, b.State())
}

func TestBreakerState_String(t *testing.T) {
	assert.Equal(t, "closed", BreakerClosed.String())
	assert.Equal(t, "open", BreakerOpen.String())
	assert.Equal(t, "half-open", BreakerHalfOpen.String())
	assert.Equal(t, "unknown", BreakerState(9).String())
}

func TestBreaker_HalfOpenAllowsOneTrialAtATime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(BreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, OpenTimeout: time.Second})
	b.now = func() time.Time { return now }

	b.Execute(func() error { return errors.New("down") })
	now = now.Add(time.Second)
	assert.Equal(t, BreakerHalfOpen, b.State())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	called := false
	err := b.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, BreakerHalfOpen, b.State(), "one success of two")

	assert.NoError(t, b.Execute(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}
