package backupmgr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/SteamServerUI/DRGSaveBackup/config"
)

// getBackupSets collects every timestamped backup folder under BackupDir.
func (m *BackupManager) getBackupSets() ([]BackupSet, error) {
	entries, err := os.ReadDir(m.config.BackupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup dir: %w", err)
	}

	var result []BackupSet
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// skip anything we did not create
		created, err := time.ParseInLocation(backupDirLayout, entry.Name(), time.Local)
		if err != nil {
			continue
		}

		set := BackupSet{
			Name: entry.Name(),
			Time: created,
		}
		root := filepath.Join(m.config.BackupDir, entry.Name())
		set.SteamFile = firstFile(filepath.Join(root, config.Steam.String()))
		set.WinStoreFile = firstFile(filepath.Join(root, config.WinStore.String()))

		if set.SteamFile != "" || set.WinStoreFile != "" {
			result = append(result, set)
		}
	}

	return result, nil
}

func firstFile(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}

// ListBackups returns the backup sets on disk, newest first.
// A limit of 0 returns all of them.
func (m *BackupManager) ListBackups(limit int) ([]BackupSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sets, err := m.getBackupSets()
	if err != nil {
		return nil, err
	}

	// newest first
	sort.Slice(sets, func(i, j int) bool {
		return sets[i].Time.After(sets[j].Time)
	})

	if limit > 0 && limit < len(sets) {
		sets = sets[:limit]
	}

	return sets, nil
}
