package backupmgr

import (
	"time"

	"github.com/SteamServerUI/DRGSaveBackup/global"
	"github.com/google/uuid"
)

// NewIdentifier returns a short tag that marks every log line of one run.
func NewIdentifier() string {
	id := uuid.New()
	return "[BM" + id.String()[:6] + "]"
}

// GetBackupConfig returns a BackupConfig for backupDir with a fresh run identifier.
func GetBackupConfig(backupDir string, waitTime time.Duration) BackupConfig {
	if backupDir == "" {
		backupDir = global.DefaultBackupDir
	}
	if waitTime <= 0 {
		waitTime = defaultWaitTime
	}
	return BackupConfig{
		BackupDir:  backupDir,
		WaitTime:   waitTime,
		Identifier: NewIdentifier(),
		Now:        time.Now,
	}
}
