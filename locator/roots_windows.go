//go:build windows

package locator

import (
	"golang.org/x/sys/windows"
)

// SystemRoots returns the drive roots A:\ through Z:\ that are currently mounted.
// If the drive mask cannot be read every letter is returned.
func SystemRoots() []string {
	mask, err := windows.GetLogicalDrives()

	roots := make([]string, 0, 26)
	for i := 0; i < 26; i++ {
		if err == nil && mask&(1<<uint(i)) == 0 {
			continue
		}
		roots = append(roots, string(rune('A'+i))+`:\`)
	}
	return roots
}
