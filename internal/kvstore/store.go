package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
)

// Store is a durable string-keyed JSON value store backed by a single file.
// Corrupt or missing data is treated as empty rather than surfaced as an
// error: a rebuilt store is slower, not incorrect. An empty path yields a
// fully functional in-memory store that never persists.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

// Open creates a store bound to the given file, loading any existing data.
func Open(path string, logger *slog.Logger) *Store {
	logger = logging.NewComponentLogger(logger, "kvstore")
	s := &Store{
		path:   path,
		logger: logger,
		values: make(map[string]json.RawMessage),
	}
	if path == "" {
		return s
	}
	if err := s.load(); err != nil {
		logger.Warn("failed to load store, starting empty",
			logging.String("path", path),
			logging.Error(err))
	}
	return s
}

// Get unmarshals the value stored under key into out. The boolean reports
// whether the key was present and decodable.
func (s *Store) Get(key string, out any) bool {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("discarding undecodable entry",
			logging.String("key", key),
			logging.Error(err))
		return false
	}
	return true
}

// Set stores value under key and persists the full table.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode value for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = raw
	return s.save()
}

// Remove deletes a key and persists the change. Removing a missing key is a
// no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// Keys returns all stored keys in unspecified order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Clear removes every entry and persists the empty table.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]json.RawMessage)
	return s.save()
}

func (s *Store) load() error {
	lock := flock.New(s.path + ".lock")
	if err := lock.RLock(); err == nil {
		defer func() { _ = lock.Unlock() }()
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse store file: %w", err)
	}
	s.values = values
	return nil
}

// save writes the table atomically: temp file in the same directory, then
// rename. Callers hold s.mu.
func (s *Store) save() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kvstore-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
