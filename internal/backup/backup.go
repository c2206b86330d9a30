package backup

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/gamifylife/internal/constants"
	"github.com/julianstephens/gamifylife/internal/logger"
)

const timestampLayout = "20060102-150405"

// Kind is the on-disk format of the store being backed up.
type Kind int

const (
	KindSQLite Kind = iota
	KindJSON
)

// KindFor guesses the store format from the file extension.
func KindFor(path string) Kind {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return KindJSON
	}
	return KindSQLite
}

// Manager handles backup operations for a file-backed store.
type Manager struct {
	storePath string
	backupDir string
	kind      Kind
	suffix    string
	now       func() time.Time
}

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// NewManager creates a backup manager for the store file at storePath.
func NewManager(storePath string) *Manager {
	kind := KindFor(storePath)
	suffix := ".db"
	if kind == KindJSON {
		suffix = ".json"
	}
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		kind:      kind,
		suffix:    suffix,
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup writes a timestamped copy of the store and prunes old backups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if _, err := os.Stat(m.storePath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("store file does not exist: %s", m.storePath)
		}
		return "", fmt.Errorf("failed to stat store file: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	switch m.kind {
	case KindJSON:
		err = copyFile(m.storePath, backupPath)
	default:
		err = m.backupSQLite(backupPath)
	}
	if err != nil {
		_ = os.Remove(backupPath)
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// The backup itself succeeded.
			logger.Warn("failed to rotate backups", "error", err)
		}
	}

	logger.Info("backup created", "path", backupPath)
	return backupPath, nil
}

// nextBackupPath picks a free name, appending a counter when two backups land in the same second.
func (m *Manager) nextBackupPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	base := constants.BackupFilePrefix + stamp
	candidate := filepath.Join(m.backupDir, base+m.suffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to check backup path: %w", err)
		}
		if counter > 999 {
			return "", fmt.Errorf("too many backups for %s", stamp)
		}
		candidate = filepath.Join(m.backupDir, fmt.Sprintf("%s-%d%s", base, counter, m.suffix))
	}
}

// backupSQLite uses VACUUM INTO for a consistent snapshot and falls back to a file copy.
func (m *Manager) backupSQLite(backupPath string) error {
	db, err := sql.Open("sqlite", m.storePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", backupPath); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		_ = os.Remove(backupPath)
		return copyFile(m.storePath, backupPath)
	}
	return nil
}

// ListBackups returns all backups sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := m.parseBackupName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      info.Size(),
		})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

func (m *Manager) parseBackupName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix)
	if len(stamp) > len(timestampLayout) {
		// strip the "-N" collision counter
		stamp = stamp[:len(timestampLayout)]
	}
	ts, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) <= constants.MaxBackups {
		return nil
	}
	for _, b := range backups[constants.MaxBackups:] {
		if err := os.Remove(b.Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", b.Path, err)
		}
		logger.Debug("removed old backup", "path", b.Path)
	}
	return nil
}

// RestoreBackup replaces the store file with the given backup.
// The current store is backed up first so a restore can itself be undone.
func (m *Manager) RestoreBackup(backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return fmt.Errorf("failed to stat backup file: %w", err)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return fmt.Errorf("backup verification failed: %w", err)
	}

	if _, err := os.Stat(m.storePath); err == nil {
		if _, err := m.createBackup(true); err != nil {
			return fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	tmp := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to stage restore: %w", err)
	}
	if err := os.Rename(tmp, m.storePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace store file: %w", err)
	}

	logger.Info("backup restored", "from", backupPath, "to", m.storePath)
	return nil
}

func (m *Manager) verifyBackup(backupPath string) error {
	if m.kind == KindJSON {
		return verifyJSON(backupPath)
	}
	return verifySQLite(backupPath)
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("not a valid database: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
	if err != nil {
		return fmt.Errorf("backup has no kv table: %w", err)
	}
	return nil
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	var contents struct {
		Entries map[string]string `json:"entries"`
	}
	if err := json.Unmarshal(data, &contents); err != nil {
		return fmt.Errorf("not a valid store file: %w", err)
	}
	if contents.Entries == nil {
		return fmt.Errorf("store file has no entries")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
