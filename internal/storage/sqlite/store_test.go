package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/gamifylife/internal/storage/storagetest"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

func TestStoreContract(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	storagetest.RunContract(t, store)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.SetMany(map[string]string{"gamifyLifeData": `{"gems":7}`, "theme": "dark"}); err != nil {
		t.Fatalf("SetMany failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewStore(dbPath)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("gamifyLifeData")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != `{"gems":7}` {
		t.Errorf("Get() = %q", got)
	}

	keys, err := reopened.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if strings.Join(keys, ",") != "gamifyLifeData,theme" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestLoadWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("expected error loading uninitialized store")
	}
	if !strings.Contains(err.Error(), "gamifylife init") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOperationsBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if _, err := store.Get("k"); err == nil {
		t.Error("expected Get to fail before Load")
	}
	if err := store.Set("k", "v"); err == nil {
		t.Error("expected Set to fail before Load")
	}
	if _, err := store.Keys(); err == nil {
		t.Error("expected Keys to fail before Load")
	}
}

func TestInitIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("first Init failed: %v", err)
	}
	if err := first.Set("k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first.Close()

	second := NewStore(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer second.Close()
	if got, err := second.Get("k"); err != nil || got != "v" {
		t.Errorf("Get() = %q, %v after re-init", got, err)
	}
}
