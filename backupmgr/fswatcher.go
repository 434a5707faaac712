package backupmgr

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

type fsWatcher struct {
	watcher *fsnotify.Watcher
	events  <-chan fsnotify.Event
	errors  <-chan error
}

func newFsWatcher(paths ...string) (*fsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	return &fsWatcher{
		watcher: w,
		events:  w.Events,
		errors:  w.Errors,
	}, nil
}

func (w *fsWatcher) close() {
	w.watcher.Close()
}
