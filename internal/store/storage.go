package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is the durable persistence collaborator for the widget store.
//
// The store treats the snapshot as an opaque blob: Load returns the last
// saved bytes (nil when no snapshot exists yet) and Save durably replaces
// them. Implementations must be safe for concurrent use.
type Storage interface {
	// Load returns the last saved snapshot, or nil if none exists.
	Load() ([]byte, error)

	// Save durably replaces the snapshot.
	Save(data []byte) error
}

// FileStorage persists the snapshot as a single JSON file on disk.
//
// Writes go to a temporary file in the same directory followed by a rename,
// so a crash mid-write never leaves a truncated snapshot behind.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage creates a [FileStorage] writing to the given path.
// Parent directories are created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Load reads the snapshot file. A missing file is not an error; it simply
// means no snapshot has been saved yet.
func (f *FileStorage) Load() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save atomically replaces the snapshot file.
func (f *FileStorage) Save(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// MemoryStorage is an in-memory [Storage] used by tests and embedders that
// do not want on-disk persistence.
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryStorage creates an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Load returns the last saved snapshot, or nil if none exists.
func (m *MemoryStorage) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	cp := make([]byte, len(m.data))
	copy(cp, m.data)
	return cp, nil
}

// Save replaces the snapshot.
func (m *MemoryStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}
