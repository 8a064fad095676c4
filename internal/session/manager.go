package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/history"
	"github.com/supplier-portal/backend/internal/journal"
	"github.com/supplier-portal/backend/internal/metrics"
	"github.com/supplier-portal/backend/internal/models"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/storage"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
)

// DefaultMaxSessions limits concurrent portal sessions.
const DefaultMaxSessions = 500

// DefaultKeepAliveWindow protects recently used sessions from cleanup.
const DefaultKeepAliveWindow = 5 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Journal records submission attempts.
type Journal interface {
	Record(ctx context.Context, e journal.Entry) (string, error)
}

// Services are the process-wide collaborators shared by every session.
type Services struct {
	Suppliers    *supplier.Resolver
	Requirements *requirements.Resolver
	Orchestrator *submission.Orchestrator
	History      history.Loader
	Store        storage.Store
	// Journal is optional.
	Journal Journal
	// Metrics is optional.
	Metrics *metrics.Recorder
}

// Options tune a Manager.
type Options struct {
	MaxSessions     int
	KeepAliveWindow time.Duration
}

// Manager holds the portal sessions of all users.
type Manager struct {
	sessions map[string]*Portal
	mu       sync.RWMutex
	svc      Services
	opts     Options
	now      func() time.Time
}

// NewManager creates a manager. Zero options take the defaults.
func NewManager(svc Services, opts Options) *Manager {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.KeepAliveWindow <= 0 {
		opts.KeepAliveWindow = DefaultKeepAliveWindow
	}
	if svc.History == nil {
		svc.History = history.Stub{}
	}
	return &Manager{
		sessions: make(map[string]*Portal),
		svc:      svc,
		opts:     opts,
		now:      time.Now,
	}
}

// CreateSession opens a new portal session, evicting the least recently used
// one when the manager is full.
func (m *Manager) CreateSession() models.PortalSession {
	m.evictIfFull()

	id := uuid.New().String()
	p := newPortal(id, m.now())

	m.mu.Lock()
	m.sessions[id] = p
	count := len(m.sessions)
	m.mu.Unlock()

	m.svc.Metrics.SetActiveSessions(count)
	log.Info().Str("session", shortID(id)).Msg("session: created")
	return p.snapshot()
}

func (m *Manager) evictIfFull() {
	m.mu.Lock()
	if len(m.sessions) < m.opts.MaxSessions {
		m.mu.Unlock()
		return
	}

	type aged struct {
		id   string
		last time.Time
	}
	all := make([]aged, 0, len(m.sessions))
	for id, p := range m.sessions {
		all = append(all, aged{id: id, last: p.lastAccess()})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].last.Before(all[j].last) })

	toFree := len(m.sessions) - m.opts.MaxSessions + 1
	var evicted []*Portal
	for _, a := range all[:toFree] {
		evicted = append(evicted, m.sessions[a.id])
		delete(m.sessions, a.id)
	}
	m.mu.Unlock()

	for _, p := range evicted {
		m.release(p)
		log.Info().Str("session", shortID(p.id)).Msg("session: evicted to free capacity")
	}
}

// GetSession returns the current snapshot of a session.
func (m *Manager) GetSession(id string) (models.PortalSession, bool) {
	p, ok := m.portal(id)
	if !ok {
		return models.PortalSession{}, false
	}
	return p.snapshot(), true
}

// TouchSession marks a session as in use.
func (m *Manager) TouchSession(id string) bool {
	p, ok := m.portal(id)
	if !ok {
		return false
	}
	p.touch(m.now())
	return true
}

// DeleteSession drops a session and its staged content.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	p, ok := m.sessions[id]
	delete(m.sessions, id)
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return false
	}
	m.release(p)
	m.svc.Metrics.SetActiveSessions(count)
	log.Info().Str("session", shortID(id)).Msg("session: deleted")
	return true
}

// CleanupOldSessions removes sessions idle for longer than maxAge, keeping
// those used within the keep-alive window and those with a submission in
// flight. It returns how many were removed.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	now := m.now()
	cutoff := now.Add(-maxAge)
	keepAliveCutoff := now.Add(-m.opts.KeepAliveWindow)

	m.mu.Lock()
	var expired []*Portal
	for id, p := range m.sessions {
		last := p.lastAccess()
		if last.After(keepAliveCutoff) || p.isSubmitting() {
			continue
		}
		if last.Before(cutoff) {
			expired = append(expired, p)
			delete(m.sessions, id)
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	for _, p := range expired {
		m.release(p)
		log.Info().Str("session", shortID(p.id)).
			Dur("idle", now.Sub(p.lastAccess()).Round(time.Second)).
			Msg("session: cleaned up aged session")
	}
	m.svc.Metrics.SetActiveSessions(count)
	return len(expired)
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close releases every session.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*Portal, 0, len(m.sessions))
	for id, p := range m.sessions {
		all = append(all, p)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, p := range all {
		m.release(p)
	}
	m.svc.Metrics.SetActiveSessions(0)
}

// portal looks up a session and marks it as accessed.
func (m *Manager) portal(id string) (*Portal, bool) {
	m.mu.RLock()
	p, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		p.touch(m.now())
	}
	return p, ok
}

// release deletes the staged content of a session that is gone.
func (m *Manager) release(p *Portal) {
	p.invalidate()
	m.deleteContent(p.id, p.registry.Reset())
}

func (m *Manager) deleteContent(sessionID string, files []models.StagedFile) {
	if m.svc.Store == nil {
		return
	}
	for _, f := range files {
		if f.Handle == "" {
			continue
		}
		if err := m.svc.Store.Delete(f.Handle); err != nil {
			log.Warn().Err(err).Str("session", shortID(sessionID)).Str("file", f.Name).Msg("session: failed to delete staged content")
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
