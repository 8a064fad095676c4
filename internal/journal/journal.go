// Package journal keeps a local DuckDB record of every batch sent to the
// submission intake.
package journal

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"
	"github.com/rs/zerolog/log"
	"github.com/supplier-portal/backend/internal/models"
)

// Entry statuses written by the portal.
const (
	StatusSent     = "ENVIADO"
	StatusDeclined = "RECUSADO"
	StatusFailed   = "FALHA_DE_CONEXAO"
)

// Entry is one submission attempt.
type Entry struct {
	SupplierID string
	Category   string
	Documents  []string
	Status     string
	Message    string
	At         time.Time
}

// Journal is an append-only submission log backed by a DuckDB file.
type Journal struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
	limit  int
}

// DefaultLimit caps how many entries ForSupplier returns.
const DefaultLimit = 50

// Open opens or creates the journal at dbPath.
func Open(dbPath string) (*Journal, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				log.Warn().Err(err).Str("pragma", pragma).Msg("journal: pragma failed")
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id          VARCHAR PRIMARY KEY,
			supplier_id VARCHAR NOT NULL,
			category    VARCHAR NOT NULL,
			documents   VARCHAR NOT NULL,
			status      VARCHAR NOT NULL,
			message     VARCHAR,
			created_at  TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_supplier ON submissions(supplier_id)"); err != nil {
		log.Warn().Err(err).Msg("journal: idx_supplier creation failed")
	}

	log.Info().Str("path", dbPath).Msg("journal: opened")
	return &Journal{db: db, dbPath: dbPath, limit: DefaultLimit}, nil
}

// Record appends an entry and returns its generated id.
func (j *Journal) Record(ctx context.Context, e Entry) (string, error) {
	docs := e.Documents
	if docs == nil {
		docs = []string{}
	}
	encoded, err := json.Marshal(docs)
	if err != nil {
		return "", fmt.Errorf("encode documents: %w", err)
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	id := uuid.New().String()

	j.mu.Lock()
	defer j.mu.Unlock()
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO submissions (id, supplier_id, category, documents, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, e.SupplierID, e.Category, string(encoded), e.Status, e.Message, at.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert submission: %w", err)
	}
	return id, nil
}

// ForSupplier returns the most recent entries of a supplier, newest first.
func (j *Journal) ForSupplier(ctx context.Context, supplierID string) ([]models.SubmissionHistoryEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, created_at, documents, status, message
		 FROM submissions
		 WHERE supplier_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		supplierID, j.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	entries := []models.SubmissionHistoryEntry{}
	for rows.Next() {
		var (
			entry   models.SubmissionHistoryEntry
			docs    string
			message sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &docs, &entry.Status, &message); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if err := json.Unmarshal([]byte(docs), &entry.Documents); err != nil {
			return nil, fmt.Errorf("decode documents of %s: %w", entry.ID, err)
		}
		entry.Notes = message.String
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count submissions: %w", err)
	}
	return n, nil
}

// Close closes the database. The file is kept.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}
