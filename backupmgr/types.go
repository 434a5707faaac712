package backupmgr

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	defaultWaitTime = 30 * time.Second
	// backupDirLayout names each backup root, one per run, second resolution.
	backupDirLayout = "2006-01-02T15.04.05"
)

// BackupConfig holds configuration for backup operations.
type BackupConfig struct {
	BackupDir  string
	WaitTime   time.Duration
	Identifier string
	Now        func() time.Time
}

// BackupSet is one timestamped backup folder and the saves it holds.
type BackupSet struct {
	Name         string
	Time         time.Time
	SteamFile    string
	WinStoreFile string
}

// BackupManager copies saves into backup folders and optionally watches for new ones.
type BackupManager struct {
	config  BackupConfig
	logger  *slog.Logger
	mu      sync.Mutex
	pending bool
	watcher *fsWatcher
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}
