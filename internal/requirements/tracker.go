package requirements

import (
	"sync"

	"github.com/supplier-portal/backend/internal/models"
)

// Ticket identifies one resolution request issued through a Tracker.
type Ticket struct {
	Generation uint64
	Category   string
}

// Tracker keeps the requirement list currently on display and applies
// last-request-wins: a result is only kept if no newer request was issued
// after it.
type Tracker struct {
	mu      sync.Mutex
	gen     uint64
	current Resolution
}

// NewTracker returns a tracker showing the empty list.
func NewTracker() *Tracker {
	return &Tracker{current: Resolution{
		Outcome:      models.RequirementsEmpty,
		Requirements: []models.DocumentRequirement{},
	}}
}

// Begin registers a new request for category, superseding all earlier ones.
func (t *Tracker) Begin(category string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	return Ticket{Generation: t.gen, Category: category}
}

// Commit applies res if ticket is still the latest request. It reports
// whether the result was applied.
func (t *Tracker) Commit(ticket Ticket, res Resolution) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ticket.Generation != t.gen {
		return false
	}
	t.current = res
	return true
}

// Current returns the resolution on display.
func (t *Tracker) Current() Resolution {
	t.mu.Lock()
	defer t.mu.Unlock()
	res := t.current
	res.Requirements = append([]models.DocumentRequirement(nil), t.current.Requirements...)
	return res
}
