// Package history loads the submission history shown for a supplier.
//
// No backing service exists yet, so the default loader always reports an
// empty history. Loaders never fail: any problem yields an empty slice.
package history

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// Loader returns the past submissions of a supplier.
type Loader interface {
	Load(ctx context.Context, supplierID string) []models.SubmissionHistoryEntry
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, supplierID string) []models.SubmissionHistoryEntry

func (f LoaderFunc) Load(ctx context.Context, supplierID string) []models.SubmissionHistoryEntry {
	return f(ctx, supplierID)
}

// Stub is the placeholder source.
type Stub struct{}

// Load always returns an empty, non-nil slice.
func (Stub) Load(context.Context, string) []models.SubmissionHistoryEntry {
	return []models.SubmissionHistoryEntry{}
}

// Bounded caps how long the wrapped loader may take.
type Bounded struct {
	inner   Loader
	timeout time.Duration
}

// NewBounded wraps inner. A non-positive timeout disables the bound.
func NewBounded(inner Loader, timeout time.Duration) *Bounded {
	return &Bounded{inner: inner, timeout: timeout}
}

// Load runs the inner loader and gives up with an empty slice once the
// timeout elapses. A panic in the inner loader also yields an empty slice.
func (b *Bounded) Load(ctx context.Context, supplierID string) []models.SubmissionHistoryEntry {
	if b.timeout <= 0 {
		return nonNil(b.safeLoad(ctx, supplierID))
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan []models.SubmissionHistoryEntry, 1)
	go func() {
		done <- b.safeLoad(ctx, supplierID)
	}()

	select {
	case entries := <-done:
		return nonNil(entries)
	case <-ctx.Done():
		log.Warn().Str("supplier", supplierID).Dur("timeout", b.timeout).Msg("history: load timed out")
		return []models.SubmissionHistoryEntry{}
	}
}

func (b *Bounded) safeLoad(ctx context.Context, supplierID string) (entries []models.SubmissionHistoryEntry) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("supplier", supplierID).Msg("history: loader panicked")
			entries = nil
		}
	}()
	return b.inner.Load(ctx, supplierID)
}

func nonNil(entries []models.SubmissionHistoryEntry) []models.SubmissionHistoryEntry {
	if entries == nil {
		return []models.SubmissionHistoryEntry{}
	}
	return entries
}
