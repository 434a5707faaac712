package backupmgr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SteamServerUI/DRGSaveBackup/config"
	"github.com/SteamServerUI/DRGSaveBackup/global"
	"github.com/SteamServerUI/DRGSaveBackup/locator"
	"github.com/fsnotify/fsnotify"
)

/*
The BackupManager copies identified save files into timestamped backup folders.
Each run gets its own folder under BackupDir holding one subfolder per platform.
Watching (Start) is optional and only begins when Start() is called; Shutdown()
stops it and waits for pending work.
*/

// NewBackupRoot creates <BackupDir>/<timestamp>/ with one subfolder per platform.
// Creating an existing root is a no-op.
func (m *BackupManager) NewBackupRoot() (string, error) {
	root := filepath.Join(m.config.BackupDir, m.config.Now().Format(backupDirLayout))

	for _, p := range config.Platforms {
		dir := filepath.Join(root, p.String())
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", fmt.Errorf("error creating backup directory %s: %w", dir, err)
		}
	}
	m.logger.Debug("Created backup folder", "path", root)
	return root, nil
}

// CopySave copies the save file described by e into root/<platform>/ under its
// original name and stamps the copy with e.SaveDate when one was captured.
func (m *BackupManager) CopySave(root string, p config.Platform, e config.Entry) (string, error) {
	if e.Path == "" || e.SaveName == "" {
		return "", fmt.Errorf("no %s save identified, nothing to back up", p)
	}

	src := filepath.Join(e.Path, e.SaveName)
	dst := filepath.Join(root, p.String(), e.SaveName)
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("error copying %s save %s: %w", p, src, err)
	}

	if e.SaveDate != "" {
		modTime, err := locator.ParseSaveDate(e.SaveDate)
		if err != nil {
			return dst, err
		}
		if err := os.Chtimes(dst, modTime, modTime); err != nil {
			return dst, fmt.Errorf("error setting modify time of %s: %w", dst, err)
		}
	}

	m.logger.Info("Backup successfully copied to safe location", "platform", p.String(), "path", dst)
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

// Start watches the given save directories and calls onChange once per burst
// of save file writes, WaitTime after the first write of the burst.
func (m *BackupManager) Start(dirs map[string]config.Platform, onChange func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watcher != nil {
		return fmt.Errorf("%s backup manager is already watching", m.config.Identifier)
	}

	paths := make([]string, 0, len(dirs))
	for dir := range dirs {
		paths = append(paths, dir)
	}
	watcher, err := newFsWatcher(paths...)
	if err != nil {
		return fmt.Errorf("failed to create save watcher: %w", err)
	}
	m.watcher = watcher

	m.wg.Add(1)
	go m.watchSaves(watcher, dirs, onChange)

	m.logger.Info("Watching save folders", "folders", paths, "wait", m.config.WaitTime)
	return nil
}

// watchSaves monitors the save directories for new or rewritten saves.
func (m *BackupManager) watchSaves(w *fsWatcher, dirs map[string]config.Platform, onChange func()) {
	defer m.wg.Done()
	defer m.logger.Info("Save file watcher stopped")

	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-w.events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isSaveEvent(dirs, event.Name) {
				continue
			}
			m.logger.Debug("Save file changed", "path", event.Name, "op", event.Op.String())
			m.handleSaveChange(onChange)
		case err, ok := <-w.errors:
			if !ok {
				return
			}
			m.logger.Error("Save watcher error", "error", err)
		}
	}
}

func isSaveEvent(dirs map[string]config.Platform, path string) bool {
	p, ok := dirs[filepath.Dir(path)]
	return ok && locator.IsSaveName(p, filepath.Base(path))
}

// handleSaveChange schedules onChange unless a call is already pending.
// Waiting lets the game finish writing before the save is copied.
func (m *BackupManager) handleSaveChange(onChange func()) {
	m.mu.Lock()
	if m.pending {
		m.mu.Unlock()
		return
	}
	m.pending = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(m.config.WaitTime):
		}

		m.mu.Lock()
		m.pending = false
		m.mu.Unlock()

		onChange()
	}()
}

// Shutdown stops watching and waits for scheduled work to finish.
func (m *BackupManager) Shutdown() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	if m.watcher != nil {
		m.watcher.close()
		m.watcher = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Debug("Backup manager shut down completely")
}

// NewBackupManager creates a BackupManager, filling unset config fields with defaults.
func NewBackupManager(cfg BackupConfig, logger *slog.Logger) *BackupManager {
	ctx, cancel := context.WithCancel(context.Background())

	if cfg.WaitTime == 0 {
		cfg.WaitTime = defaultWaitTime
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = global.DefaultBackupDir
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BackupManager{
		config: cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}
