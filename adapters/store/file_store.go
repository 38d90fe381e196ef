package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// FileStore keeps the entries in a single JSON document on disk.
// Every write replaces the file through a rename so a crash never leaves half an update.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a new file store at path. The file is created on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ ports.Store = (*FileStore)(nil)

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := data[key]
	if !ok {
		return "", core.ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	for k, v := range entries {
		data[k] = v
	}
	return s.save(data)
}

func (s *FileStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}

	changed := false
	for _, k := range keys {
		if _, ok := data[k]; ok {
			delete(data, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(data)
}

// Path returns the location of the backing file
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("reading session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temporary session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing session file: %w", errors.Join(err, core.ErrStoreOperationFailed))
	}
	return nil
}
