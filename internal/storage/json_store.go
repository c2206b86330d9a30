package storage

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

type fileContents struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// JSONStore keeps every key in a single JSON file that is rewritten on each write.
type JSONStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]string)
	return s.save(s.entries)
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'gamifylife init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = contents.Entries
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	v, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *JSONStore) Set(key, value string) error {
	return s.SetMany(map[string]string{key: value})
}

// SetMany writes all entries with a single file replacement.
func (s *JSONStore) SetMany(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		return fmt.Errorf("storage not loaded")
	}

	next := maps.Clone(s.entries)
	maps.Copy(next, entries)
	if err := s.save(next); err != nil {
		return err
	}
	s.entries = next
	return nil
}

// save writes to a temporary file and renames it over the store so a crash
// never leaves a half-written file behind.
func (s *JSONStore) save(entries map[string]string) error {
	data, err := json.MarshalIndent(fileContents{Version: 1, Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}
