// Package storage keeps the content of staged upload files on disk until the
// batch is submitted or discarded.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/supplier-portal/backend/internal/models"
)

var (
	// ErrNotFound is returned for unknown handles.
	ErrNotFound = errors.New("file not found")
	// ErrTooLarge is returned when content exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// Store holds staged file content addressed by an opaque handle.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	Open(id string) (io.ReadCloser, error)
	Delete(id string) error
}

// LocalStore implements Store on the local filesystem.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	maxSize   int64
	files     map[string]*models.FileInfo
}

// NewLocalStore creates the upload directory if needed. maxSize <= 0 means no
// limit.
func NewLocalStore(uploadDir string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		maxSize:   maxSize,
		files:     make(map[string]*models.FileInfo),
	}, nil
}

// Save writes r under a fresh handle.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	size, err := io.Copy(f, src)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if s.maxSize > 0 && size > s.maxSize {
		os.Remove(path)
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, s.maxSize)
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info

	return info, nil
}

// Get returns a copy of the metadata for id.
func (s *LocalStore) Get(id string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := *info
	return &out, nil
}

// Open returns a reader over the stored content.
func (s *LocalStore) Open(id string) (io.ReadCloser, error) {
	path, err := s.GetFilePath(id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	return f, nil
}

// Delete removes the content and metadata of id.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, id)
	return nil
}

// GetFilePath returns the on-disk path of id.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return filepath.Join(s.uploadDir, id), nil
}
