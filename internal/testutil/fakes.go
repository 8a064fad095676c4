// fakes.go - In-memory collaborators that count calls
package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/supplier-portal/backend/internal/models"
)

// FakeDirectory serves supplier records and metrics from maps keyed by the
// upper-cased name and by id.
type FakeDirectory struct {
	mu         sync.Mutex
	Records    map[string][]models.DirectoryRecord
	Metrics    map[string]models.QualityMetrics
	LookupErr  error
	MetricsErr error

	lookups      []string
	metricsCalls []string
}

func NewFakeDirectory() *FakeDirectory {
	return &FakeDirectory{
		Records: make(map[string][]models.DirectoryRecord),
		Metrics: make(map[string]models.QualityMetrics),
	}
}

// AddSupplier registers a record under its own name.
func (f *FakeDirectory) AddSupplier(rec models.DirectoryRecord, metrics models.QualityMetrics) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToUpper(rec.Name)
	f.Records[key] = append(f.Records[key], rec)
	f.Metrics[rec.ID] = metrics
}

func (f *FakeDirectory) LookupByName(_ context.Context, name string) ([]models.DirectoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, name)
	if f.LookupErr != nil {
		return nil, f.LookupErr
	}
	return append([]models.DirectoryRecord(nil), f.Records[strings.ToUpper(name)]...), nil
}

func (f *FakeDirectory) MetricsFor(_ context.Context, id string) (models.QualityMetrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metricsCalls = append(f.metricsCalls, id)
	if f.MetricsErr != nil {
		return models.QualityMetrics{}, f.MetricsErr
	}
	return f.Metrics[id], nil
}

// Lookups returns the names looked up so far.
func (f *FakeDirectory) Lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}

// MetricsCalls returns the ids whose metrics were requested.
func (f *FakeDirectory) MetricsCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.metricsCalls...)
}

// FakeCatalog answers requirement lookups from a map keyed by category.
// A category present in Gates blocks until its channel is closed.
type FakeCatalog struct {
	mu         sync.Mutex
	Categories map[string][]string
	Err        error
	Gates      map[string]chan struct{}
	calls      []string
}

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Categories: make(map[string][]string),
		Gates:      make(map[string]chan struct{}),
	}
}

func (f *FakeCatalog) RequirementsFor(ctx context.Context, category string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, category)
	gate := f.Gates[category]
	titles := append([]string{}, f.Categories[category]...)
	err := f.Err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return titles, nil
}

// Calls returns the categories requested so far.
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// IntakeCall is one batch received by FakeIntake, with file contents read.
type IntakeCall struct {
	SupplierID string
	Category   string
	FileNames  []string
	Contents   []string
}

// FakeIntake records batches and answers with Response or Err.
type FakeIntake struct {
	mu       sync.Mutex
	Response models.IntakeResponse
	Err      error
	// Gate, when set, blocks Submit until closed.
	Gate  chan struct{}
	calls []IntakeCall
}

func NewFakeIntake() *FakeIntake {
	return &FakeIntake{}
}

func (f *FakeIntake) Submit(_ context.Context, req models.IntakeRequest) (models.IntakeResponse, error) {
	call := IntakeCall{SupplierID: req.SupplierID, Category: req.Category, FileNames: []string{}, Contents: []string{}}
	for _, file := range req.Files {
		call.FileNames = append(call.FileNames, file.Name)
		if file.Open == nil {
			call.Contents = append(call.Contents, "")
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return models.IntakeResponse{}, err
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		call.Contents = append(call.Contents, string(data))
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	gate := f.Gate
	resp, err := f.Response, f.Err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return resp, err
}

// Calls returns the batches received so far.
func (f *FakeIntake) Calls() []IntakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]IntakeCall(nil), f.calls...)
}

// FakeHistory returns Entries for every supplier and counts loads.
type FakeHistory struct {
	mu      sync.Mutex
	Entries map[string][]models.SubmissionHistoryEntry
	loads   []string
	// Loaded receives the supplier id after each load, when non-nil.
	Loaded chan string
}

func NewFakeHistory() *FakeHistory {
	return &FakeHistory{Entries: make(map[string][]models.SubmissionHistoryEntry)}
}

func (f *FakeHistory) Load(_ context.Context, supplierID string) []models.SubmissionHistoryEntry {
	f.mu.Lock()
	f.loads = append(f.loads, supplierID)
	entries := append([]models.SubmissionHistoryEntry{}, f.Entries[supplierID]...)
	loaded := f.Loaded
	f.mu.Unlock()

	if loaded != nil {
		loaded <- supplierID
	}
	return entries
}

// Loads returns the supplier ids loaded so far.
func (f *FakeHistory) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}
