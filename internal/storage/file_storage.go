package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/knowledge-engine/movierec/internal/errors"
)

// Match is one recommended title with its similarity score
type Match struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Record is a stored answer to a recommendation query
type Record struct {
	ID        string    `json:"id"`
	QueryID   string    `json:"query_id"`
	Matches   []Match   `json:"matches"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordStorage defines the interface for saving recommendation records
type RecordStorage interface {
	Save(record *Record) error
	Get(id string) (*Record, error)
	Close() error
}

// FileStorage implements RecordStorage using the local file system
type FileStorage struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStorage creates a new file-based storage
func NewFileStorage(baseDir string) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
	}, nil
}

// Save writes the record to a JSON file, assigning an id and timestamp if unset
func (fs *FileStorage) Save(record *Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(fs.path(record.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// Get retrieves a record from disk
func (fs *FileStorage) Get(id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFoundError(id)
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(fs.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperrors.NewNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// Close is a no-op for file storage
func (fs *FileStorage) Close() error {
	return nil
}

// path maps a record id to its file; ids are uuids so they are safe filenames
func (fs *FileStorage) path(id string) string {
	return filepath.Join(fs.baseDir, id+".json")
}
