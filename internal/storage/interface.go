package storage

import (
	"errors"
	"sort"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is a string key/value store. Values are replaced wholesale on Set.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Batcher is implemented by stores that can write several keys atomically.
type Batcher interface {
	SetMany(entries map[string]string) error
}

// Provider is a Store with a lifecycle, as opened by the CLI.
type Provider interface {
	Store

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Utils
	GetConfigPath() string
}

// SetAll writes entries atomically when the store supports it and key by key
// (in sorted order) otherwise.
func SetAll(s Store, entries map[string]string) error {
	if b, ok := s.(Batcher); ok {
		return b.SetMany(entries)
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := s.Set(k, entries[k]); err != nil {
			return err
		}
	}
	return nil
}
