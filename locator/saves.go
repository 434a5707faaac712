package locator

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/SteamServerUI/DRGSaveBackup/config"
	"github.com/SteamServerUI/DRGSaveBackup/global"
)

// saveDateLayout is the ISO-8601 shape of SaveDate values. Fractional seconds
// are appended only when present and accepted on parse either way.
const saveDateLayout = "2006-01-02T15:04:05"

// Selector picks one path out of a non-empty candidate list.
type Selector func(fsys FileSystem, candidates []string) string

// FirstCandidate picks the first candidate in listing order.
func FirstCandidate(_ FileSystem, candidates []string) string {
	return candidates[0]
}

// NewestCandidate picks the most recently modified candidate, falling back
// to the first one when none can be stat'ed.
func NewestCandidate(fsys FileSystem, candidates []string) string {
	best := candidates[0]
	var bestTime time.Time
	for _, c := range candidates {
		info, err := fsys.Stat(c)
		if err != nil {
			continue
		}
		if info.ModTime().After(bestTime) {
			best, bestTime = c, info.ModTime()
		}
	}
	return best
}

// ParseSelector maps a selection policy name to its Selector.
func ParseSelector(name string) (Selector, error) {
	switch strings.ToLower(name) {
	case "", "first":
		return FirstCandidate, nil
	case "newest":
		return NewestCandidate, nil
	default:
		return nil, fmt.Errorf("unknown selection policy %q (want first or newest)", name)
	}
}

// FindSaveName returns the newest save file of platform p in dir, or "" if dir holds none.
func (l *Locator) FindSaveName(p config.Platform, dir string) (string, error) {
	entries, err := l.fsys.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s saves in %s: %w", p, dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if !IsSaveName(p, e.Name()) {
			continue
		}
		info, err := l.fsys.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, e.Name())
	}

	name, _ := NewestFile(l.fsys, dir, candidates)
	return name, nil
}

// IsSaveName reports whether name looks like a save file of platform p.
func IsSaveName(p config.Platform, name string) bool {
	switch p {
	case config.Steam:
		return strings.HasSuffix(name, global.SteamSaveExtension)
	case config.WinStore:
		// Windows Store saves carry no extension.
		return saveNamePattern.MatchString(name)
	}
	return false
}

// NewestFile returns the name among names in dir with the latest modification
// time. Ties keep the earlier name. No usable name yields "".
func NewestFile(fsys FileSystem, dir string, names []string) (string, time.Time) {
	var (
		newest     string
		newestTime time.Time
		found      bool
	)
	for _, name := range names {
		info, err := fsys.Stat(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if !found || info.ModTime().After(newestTime) {
			newest, newestTime, found = name, info.ModTime(), true
		}
	}
	return newest, newestTime
}

// CaptureModTime returns the modification time of dir/name as a SaveDate string.
func CaptureModTime(fsys FileSystem, dir, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("cannot find modify time: no save file identified in %s", dir)
	}

	path := filepath.Join(dir, name)
	info, err := fsys.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot find modify time of %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("cannot find modify time: %s is not a regular file", path)
	}
	return FormatSaveDate(info.ModTime()), nil
}

// FormatSaveDate renders t in local time with microsecond precision.
func FormatSaveDate(t time.Time) string {
	t = t.Local().Truncate(time.Microsecond)
	if t.Nanosecond() != 0 {
		return t.Format(saveDateLayout + ".000000")
	}
	return t.Format(saveDateLayout)
}

// ParseSaveDate is the inverse of FormatSaveDate.
func ParseSaveDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(saveDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid save date %q: %w", s, err)
	}
	return t, nil
}
