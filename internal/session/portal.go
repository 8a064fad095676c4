package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/journal"
	"github.com/supplier-portal/backend/internal/models"
	"github.com/supplier-portal/backend/internal/requirements"
	"github.com/supplier-portal/backend/internal/submission"
	"github.com/supplier-portal/backend/internal/supplier"
	"github.com/supplier-portal/backend/internal/upload"
)

// Portal is the state of one user's portal session.
type Portal struct {
	mu           sync.Mutex
	id           string
	profile      *models.SupplierProfile
	profileGen   uint64
	category     string
	tracker      *requirements.Tracker
	registry     *upload.Registry
	history      []models.SubmissionHistoryEntry
	submitting   bool
	lastResult   *models.SubmissionResult
	createdAt    time.Time
	lastAccessed time.Time
}

func newPortal(id string, now time.Time) *Portal {
	return &Portal{
		id:           id,
		tracker:      requirements.NewTracker(),
		registry:     upload.NewRegistry(),
		history:      []models.SubmissionHistoryEntry{},
		createdAt:    now,
		lastAccessed: now,
	}
}

func (p *Portal) snapshot() models.PortalSession {
	res := p.tracker.Current()
	slots := p.registry.Slots()

	p.mu.Lock()
	defer p.mu.Unlock()

	s := models.PortalSession{
		ID:                 p.id,
		Category:           p.category,
		Requirements:       res.Requirements,
		RequirementOutcome: res.Outcome,
		Slots:              slots,
		History:            append([]models.SubmissionHistoryEntry{}, p.history...),
		Submitting:         p.submitting,
		CreatedAt:          p.createdAt,
		LastAccessed:       p.lastAccessed,
	}
	if s.Requirements == nil {
		s.Requirements = []models.DocumentRequirement{}
	}
	if p.profile != nil {
		prof := *p.profile
		s.Profile = &prof
	}
	if p.lastResult != nil {
		r := *p.lastResult
		s.LastResult = &r
	}
	return s
}

func (p *Portal) touch(now time.Time) {
	p.mu.Lock()
	p.lastAccessed = now
	p.mu.Unlock()
}

func (p *Portal) lastAccess() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastAccessed
}

func (p *Portal) isSubmitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting
}

// invalidate makes pending history loads for this session no-ops.
func (p *Portal) invalidate() {
	p.mu.Lock()
	p.profileGen++
	p.mu.Unlock()
}

// setProfile replaces the profile wholesale, seeds the category and clears the
// history of the previous supplier. It returns the new profile generation and
// the requirements ticket for the seeded category.
func (p *Portal) setProfile(profile models.SupplierProfile) (uint64, requirements.Ticket) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = &profile
	p.profileGen++
	p.category = strings.TrimSpace(profile.Category)
	p.history = []models.SubmissionHistoryEntry{}
	return p.profileGen, p.tracker.Begin(p.category)
}

// setCategory stores category and issues its requirements ticket in one step,
// so the latest ticket always matches the stored category.
func (p *Portal) setCategory(category string) requirements.Ticket {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.category = strings.TrimSpace(category)
	return p.tracker.Begin(p.category)
}

func (p *Portal) clearProfile() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile = nil
	p.profileGen++
	p.history = []models.SubmissionHistoryEntry{}
}

// applyHistory stores entries if the profile they were loaded for is still current.
func (p *Portal) applyHistory(gen uint64, entries []models.SubmissionHistoryEntry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.profileGen {
		return false
	}
	p.history = entries
	return true
}

// SearchSupplier looks a supplier up by name. On success the profile replaces
// the previous one, the category is seeded from it and the history is loaded
// in the background. A not-found answer clears profile and history; other
// failures leave the session untouched.
func (m *Manager) SearchSupplier(ctx context.Context, sessionID, name string) (supplier.Result, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return supplier.Result{}, ErrSessionNotFound
	}

	res, err := m.svc.Suppliers.Resolve(ctx, name)
	if err != nil {
		var ve *supplier.ValidationError
		switch {
		case errors.As(err, &ve):
			m.svc.Metrics.SupplierLookup("invalid")
		case errors.Is(err, supplier.ErrNotFound):
			p.clearProfile()
			m.svc.Metrics.SupplierLookup("not_found")
		default:
			m.svc.Metrics.SupplierLookup("failed")
			log.Warn().Err(err).Str("session", shortID(sessionID)).Msg("session: supplier lookup failed")
		}
		return supplier.Result{}, err
	}

	m.svc.Metrics.SupplierLookup("found")
	gen, ticket := p.setProfile(res.Profile)
	log.Info().Str("session", shortID(sessionID)).Str("supplier", res.Profile.ID).
		Str("metrics", string(res.MetricsOutcome)).Msg("session: supplier resolved")

	m.resolveCategory(ctx, p, ticket)
	go m.loadHistory(p, res.Profile.ID, gen)

	return res, nil
}

func (m *Manager) loadHistory(p *Portal, supplierID string, gen uint64) {
	entries := m.svc.History.Load(context.Background(), supplierID)
	if !p.applyHistory(gen, entries) {
		log.Debug().Str("session", shortID(p.id)).Str("supplier", supplierID).Msg("session: discarded stale history")
	}
}

// SetCategory replaces the requirement list for category. The returned flag is
// false when a newer category edit superseded this one before it resolved; in
// that case the result was discarded.
func (m *Manager) SetCategory(ctx context.Context, sessionID, category string) (requirements.Resolution, bool, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return requirements.Resolution{}, false, ErrSessionNotFound
	}

	res, applied := m.resolveCategory(ctx, p, p.setCategory(category))
	return res, applied, nil
}

func (m *Manager) resolveCategory(ctx context.Context, p *Portal, ticket requirements.Ticket) (requirements.Resolution, bool) {
	res := m.svc.Requirements.Resolve(ctx, ticket.Category)
	m.svc.Metrics.RequirementResolution(string(res.Outcome))

	applied := p.tracker.Commit(ticket, res)
	if !applied {
		log.Debug().Str("session", shortID(p.id)).Str("category", ticket.Category).Msg("session: discarded stale requirements")
	}
	return res, applied
}

// Requirements returns the requirement list on display.
func (m *Manager) Requirements(sessionID string) (requirements.Resolution, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return requirements.Resolution{}, ErrSessionNotFound
	}
	return p.tracker.Current(), nil
}

// Slots returns the upload slots in order.
func (m *Manager) Slots(sessionID string) ([]models.UploadSlot, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return p.registry.Slots(), nil
}

// AssignFile stages a picked file into a slot. Files with an accepted
// extension are stored and the slot becomes VALID; others leave the slot
// INVALID without storing anything. The content previously held by the slot
// is released.
func (m *Manager) AssignFile(sessionID, slotID, name string, size int64, content io.Reader) (models.UploadSlot, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return models.UploadSlot{}, ErrSessionNotFound
	}
	if _, err := p.registry.Get(slotID); err != nil {
		return models.UploadSlot{}, err
	}

	staged := &models.StagedFile{Name: name, Size: size}
	if upload.IsAcceptable(name) {
		info, err := m.svc.Store.Save(name, content)
		if err != nil {
			return models.UploadSlot{}, err
		}
		staged.Size = info.Size
		staged.Handle = info.ID
	}

	slot, replaced, err := p.registry.Assign(slotID, staged)
	if err != nil {
		if staged.Handle != "" {
			m.deleteContent(sessionID, []models.StagedFile{*staged})
		}
		return models.UploadSlot{}, err
	}
	if replaced != nil {
		m.deleteContent(sessionID, []models.StagedFile{*replaced})
	}

	m.svc.Metrics.SlotAssignment(string(slot.Status))
	log.Debug().Str("session", shortID(sessionID)).Str("slot", slotID).Str("file", name).
		Str("status", string(slot.Status)).Msg("session: file assigned")
	return slot, nil
}

// RemoveFile empties a slot.
func (m *Manager) RemoveFile(sessionID, slotID string) (models.UploadSlot, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return models.UploadSlot{}, ErrSessionNotFound
	}
	slot, replaced, err := p.registry.Remove(slotID)
	if err != nil {
		return models.UploadSlot{}, err
	}
	if replaced != nil {
		m.deleteContent(sessionID, []models.StagedFile{*replaced})
	}
	return slot, nil
}

// History returns the submission history of the current supplier.
func (m *Manager) History(sessionID string) ([]models.SubmissionHistoryEntry, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.SubmissionHistoryEntry{}, p.history...), nil
}

// Submit sends the VALID slots of the session. Only one submission per
// session runs at a time; a concurrent call gets submission.ErrInProgress.
// Local rejections come back as a *submission.Rejection with the session
// untouched. On acceptance every slot is reset and the history of the same
// supplier is reloaded; otherwise the staged files are kept.
func (m *Manager) Submit(ctx context.Context, sessionID string, confirmEmpty bool) (submission.Result, error) {
	p, ok := m.portal(sessionID)
	if !ok {
		return submission.Result{}, ErrSessionNotFound
	}

	p.mu.Lock()
	if p.submitting {
		p.mu.Unlock()
		return submission.Result{}, submission.ErrInProgress
	}
	p.submitting = true
	var profile *models.SupplierProfile
	if p.profile != nil {
		prof := *p.profile
		profile = &prof
	}
	category := p.category
	gen := p.profileGen
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.submitting = false
		p.mu.Unlock()
	}()

	staged := p.registry.ValidFiles()
	files := make([]models.IntakeFile, 0, len(staged))
	var missing error
	for _, f := range staged {
		info, err := m.svc.Store.Get(f.Handle)
		if err != nil {
			if missing == nil {
				missing = fmt.Errorf("staged file %s: %w", f.Name, err)
			}
			continue
		}
		handle := info.ID
		files = append(files, models.IntakeFile{
			Name: f.Name,
			Size: info.Size,
			Open: func() (io.ReadCloser, error) { return m.svc.Store.Open(handle) },
		})
	}

	req := submission.Request{
		Profile:      profile,
		Category:     category,
		Files:        files,
		ConfirmEmpty: confirmEmpty,
	}
	if missing != nil {
		// Supplier and category rejections still come first.
		if err := submission.Validate(submission.Request{Profile: profile, Category: category, ConfirmEmpty: true}); err != nil {
			return submission.Result{}, err
		}
		log.Warn().Err(missing).Str("session", shortID(sessionID)).Msg("session: staged content missing, submission refused")
		return submission.Result{}, missing
	}

	res, err := m.svc.Orchestrator.Submit(ctx, req)
	if err != nil {
		return submission.Result{}, err
	}

	m.svc.Metrics.Submission(string(res.Outcome))
	m.record(ctx, sessionID, profile.ID, res, staged)

	p.mu.Lock()
	last := res.SubmissionResult
	p.lastResult = &last
	p.mu.Unlock()

	if !res.Accepted {
		return res, nil
	}

	m.deleteContent(sessionID, p.registry.Reset())
	entries := m.svc.History.Load(ctx, profile.ID)
	p.applyHistory(gen, entries)

	log.Info().Str("session", shortID(sessionID)).Str("supplier", profile.ID).
		Int("files", len(res.AcceptedFileNames)).Msg("session: submission accepted, slots reset")
	return res, nil
}

func (m *Manager) record(ctx context.Context, sessionID, supplierID string, res submission.Result, staged []models.StagedFile) {
	if m.svc.Journal == nil {
		return
	}

	entry := journal.Entry{
		SupplierID: supplierID,
		Category:   res.Category,
		Message:    res.Message,
		At:         m.now(),
	}
	switch res.Outcome {
	case submission.OutcomeAccepted:
		entry.Status = journal.StatusSent
		entry.Documents = res.AcceptedFileNames
	case submission.OutcomePartialRejection:
		entry.Status = journal.StatusDeclined
	default:
		entry.Status = journal.StatusFailed
	}
	if entry.Status != journal.StatusSent || len(entry.Documents) == 0 {
		entry.Documents = make([]string, 0, len(staged))
		for _, f := range staged {
			entry.Documents = append(entry.Documents, f.Name)
		}
	}

	if _, err := m.svc.Journal.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Str("session", shortID(sessionID)).Msg("session: failed to journal submission")
	}
}
