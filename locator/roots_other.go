//go:build !windows

package locator

import (
	"os"
	"path/filepath"
)

// SystemRoots returns / followed by the mount points found directly under /mnt and /media.
func SystemRoots() []string {
	roots := []string{"/"}
	for _, base := range []string{"/mnt", "/media"} {
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				roots = append(roots, filepath.Join(base, e.Name()))
			}
		}
	}
	return roots
}
