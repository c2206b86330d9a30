package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/storage"
	"github.com/julianstephens/gamifylife/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "gamifylife.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Set(constants.StateKey, `{"version":1,"gems":100}`); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
	return dbPath
}

func setupTestJSON(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gamifylife.json")

	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := store.Set(constants.StateKey, `{"version":1,"gems":100}`); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return path
}

// steppingClock advances one second per call so backup names never collide.
func steppingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Second)
		return t
	}
}

func readSQLiteState(t *testing.T, path string) string {
	t.Helper()
	store := sqlite.NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	defer store.Close()
	v, err := store.Get(constants.StateKey)
	if err != nil {
		t.Fatalf("failed to read state from %s: %v", path, err)
	}
	return v
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/tmp/gamifylife.db", KindSQLite},
		{"/tmp/gamifylife.sqlite", KindSQLite},
		{"/tmp/gamifylife.json", KindJSON},
		{"/tmp/GAMIFYLIFE.JSON", KindJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := KindFor(tt.path); got != tt.want {
				t.Errorf("KindFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		t.Fatalf("backup file was not created: %s", backupPath)
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, ".db") {
		t.Errorf("unexpected backup name %q", name)
	}

	if got := readSQLiteState(t, backupPath); got != `{"version":1,"gems":100}` {
		t.Errorf("backup state = %q", got)
	}
}

func TestCreateBackupJSON(t *testing.T) {
	path := setupTestJSON(t)

	mgr := NewManager(path)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if !strings.HasSuffix(backupPath, ".json") {
		t.Errorf("expected .json backup, got %s", backupPath)
	}
	if err := mgr.verifyBackup(backupPath); err != nil {
		t.Errorf("verifyBackup failed for JSON backup: %v", err)
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local))

	numBackups := constants.MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted correctly: backup %d is newer than backup %d", i, i-1)
		}
	}

	// The oldest five were pruned.
	oldestKept := time.Date(2025, 1, 1, 8, 0, 5, 0, time.Local)
	if last := backups[len(backups)-1].Timestamp; !last.Equal(oldestKept) {
		t.Errorf("oldest remaining backup = %v, want %v", last, oldestKept)
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	// Unrelated files in the backup directory are ignored.
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Path == "" {
			t.Error("backup path is empty")
		}
		if b.Size == 0 {
			t.Error("backup size is 0")
		}
		if b.Timestamp.IsZero() {
			t.Error("backup timestamp is zero")
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	frozen := time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return frozen }

	paths := make(map[string]bool)
	for i := 0; i < 5; i++ {
		backupPath, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		filename := filepath.Base(backupPath)
		if paths[filename] {
			t.Errorf("duplicate backup filename: %s", filename)
		}
		paths[filename] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 5 {
		t.Errorf("expected 5 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if !b.Timestamp.Equal(frozen) {
			t.Errorf("backup %s timestamp = %v, want %v", b.Path, b.Timestamp, frozen)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(constants.StateKey, `{"version":1,"gems":5}`); err != nil {
		t.Fatal(err)
	}
	store.Close()

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readSQLiteState(t, dbPath); got != `{"version":1,"gems":100}` {
		t.Errorf("state after restore = %q", got)
	}
}

func TestRestoreBackupCreatesPreRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local))
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected 2 backups after restore, got %d", len(backups))
	}
}

func TestVerifyBackup(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if err := mgr.verifyBackup(backupPath); err != nil {
		t.Errorf("verifyBackup failed for valid backup: %v", err)
	}

	invalidPath := filepath.Join(mgr.GetBackupDir(), "invalid.db")
	if err := os.WriteFile(invalidPath, []byte("not a database"), 0600); err != nil {
		t.Fatalf("failed to create invalid file: %v", err)
	}
	if err := mgr.verifyBackup(invalidPath); err == nil {
		t.Error("verifyBackup should fail for invalid backup")
	}
}

func TestVerifyBackupJSON(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid", `{"version":1,"entries":{"a":"b"}}`, false},
		{"empty entries", `{"version":1,"entries":{}}`, false},
		{"missing entries", `{"version":1}`, true},
		{"not json", `garbage`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			err := verifyJSON(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("verifyJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
