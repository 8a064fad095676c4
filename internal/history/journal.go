package history

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// Source is a store of recorded submissions, such as the local journal.
type Source interface {
	ForSupplier(ctx context.Context, supplierID string) ([]models.SubmissionHistoryEntry, error)
}

// JournalLoader reads history from the submissions recorded by this portal.
type JournalLoader struct {
	source Source
}

// NewJournalLoader creates a loader over source.
func NewJournalLoader(source Source) *JournalLoader {
	return &JournalLoader{source: source}
}

// Load returns the recorded entries, or an empty slice when the source fails.
func (l *JournalLoader) Load(ctx context.Context, supplierID string) []models.SubmissionHistoryEntry {
	if supplierID == "" {
		return []models.SubmissionHistoryEntry{}
	}
	entries, err := l.source.ForSupplier(ctx, supplierID)
	if err != nil {
		log.Warn().Err(err).Str("supplier", supplierID).Msg("history: journal read failed")
		return []models.SubmissionHistoryEntry{}
	}
	return nonNil(entries)
}
