package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal", "submissions.duckdb"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_RecordAndRead(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := j.Record(ctx, Entry{
		SupplierID: "42",
		Category:   "TI",
		Documents:  []string{"contrato.pdf"},
		Status:     StatusSent,
		Message:    "Documentos recebidos",
		At:         base,
	})
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{
		SupplierID: "42",
		Category:   "TI",
		Documents:  []string{"a.pdf", "b.png"},
		Status:     StatusDeclined,
		Message:    "Arquivo ilegível",
		At:         base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{SupplierID: "7", Category: "QUIMICOS", Status: StatusFailed, At: base})
	require.NoError(t, err)

	entries, err := j.ForSupplier(ctx, "42")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, StatusDeclined, entries[0].Status)
	assert.Equal(t, []string{"a.pdf", "b.png"}, entries[0].Documents)
	assert.Equal(t, "Arquivo ilegível", entries[0].Notes)
	assert.Equal(t, StatusSent, entries[1].Status)
	assert.NotEmpty(t, entries[1].ID)

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestJournal_EmptyDocumentsAndUnknownSupplier(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	_, err := j.Record(ctx, Entry{SupplierID: "1", Category: "TI", Status: StatusSent})
	require.NoError(t, err)

	entries, err := j.ForSupplier(ctx, "1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Documents)
	assert.False(t, entries[0].Date.IsZero())

	none, err := j.ForSupplier(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submissions.duckdb")
	ctx := context.Background()

	j, err := Open(path)
	require.NoError(t, err)
	_, err = j.Record(ctx, Entry{SupplierID: "1", Category: "TI", Status: StatusSent})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.ForSupplier(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
