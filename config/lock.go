package config

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run already holds the lock.
var ErrLocked = errors.New("another run is already using this config")

// Lock guards a config file and the backups written alongside it against concurrent runs.
type Lock struct {
	fileLock *flock.Flock
}

// AcquireLock takes the lock file next to configPath without blocking.
func AcquireLock(configPath string) (*Lock, error) {
	fl := flock.New(configPath + ".lock")

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, fl.Path())
	}
	return &Lock{fileLock: fl}, nil
}

// Release drops the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if err := l.fileLock.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.fileLock.Path(), err)
	}
	return nil
}
