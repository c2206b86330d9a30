// Package storagetest holds behavior checks shared by every storage.Store implementation.
package storagetest

import (
	"errors"
	"testing"

	"github.com/julianstephens/gamifylife/internal/storage"
)

// RunContract exercises the Store contract against s, which must be empty.
func RunContract(t *testing.T, s storage.Store) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		if _, err := s.Get("missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := s.Set("alpha", `{"gems":100}`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := s.Get("alpha")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != `{"gems":100}` {
			t.Errorf("Get(alpha) = %q", got)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := s.Set("alpha", "second"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := s.Get("alpha")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != "second" {
			t.Errorf("expected overwritten value, got %q", got)
		}
	})

	t.Run("set all", func(t *testing.T) {
		entries := map[string]string{
			"beta":  "2024-01-01",
			"gamma": "dark",
			"alpha": "third",
		}
		if err := storage.SetAll(s, entries); err != nil {
			t.Fatalf("SetAll failed: %v", err)
		}
		for k, want := range entries {
			got, err := s.Get(k)
			if err != nil {
				t.Fatalf("Get(%s) failed: %v", k, err)
			}
			if got != want {
				t.Errorf("Get(%s) = %q, want %q", k, got, want)
			}
		}
	})

	t.Run("empty value", func(t *testing.T) {
		if err := s.Set("empty", ""); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := s.Get("empty")
		if err != nil {
			t.Fatalf("expected empty value to be stored, got error: %v", err)
		}
		if got != "" {
			t.Errorf("Get(empty) = %q", got)
		}
	})
}
