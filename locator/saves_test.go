package locator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SteamServerUI/DRGSaveBackup/config"
)

func TestNewestFile_IgnoresListingOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sav"), base.Add(3*time.Minute))
	writeFile(t, filepath.Join(dir, "b.sav"), base.Add(1*time.Minute))
	writeFile(t, filepath.Join(dir, "c.sav"), base.Add(2*time.Minute))

	orders := [][]string{
		{"a.sav", "b.sav", "c.sav"},
		{"b.sav", "c.sav", "a.sav"},
		{"c.sav", "a.sav", "b.sav"},
	}
	for _, names := range orders {
		got, mod := NewestFile(OSFileSystem{}, dir, names)
		if got != "a.sav" {
			t.Errorf("NewestFile(%v) = %q, want a.sav", names, got)
		}
		if !mod.Equal(base.Add(3 * time.Minute)) {
			t.Errorf("NewestFile(%v) mtime = %v, want %v", names, mod, base.Add(3*time.Minute))
		}
	}
}

func TestNewestFile_TieKeepsFirstSeen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.sav"), base)
	writeFile(t, filepath.Join(dir, "y.sav"), base)

	if got, _ := NewestFile(OSFileSystem{}, dir, []string{"y.sav", "x.sav"}); got != "y.sav" {
		t.Errorf("NewestFile() = %q, want y.sav", got)
	}
}

func TestNewestFile_NoCandidates(t *testing.T) {
	dir := t.TempDir()
	if got, _ := NewestFile(OSFileSystem{}, dir, nil); got != "" {
		t.Errorf("NewestFile(nil) = %q, want empty", got)
	}
	if got, _ := NewestFile(OSFileSystem{}, dir, []string{"gone.sav"}); got != "" {
		t.Errorf("NewestFile(missing) = %q, want empty", got)
	}
}

func TestFindSaveName_Steam(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "save1.sav"), base)
	writeFile(t, filepath.Join(dir, "save2.sav"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "newer.txt"), base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "backup.sav.bak"), base.Add(2*time.Hour))
	mkdirAll(t, filepath.Join(dir, "folder.sav"))

	got, err := newTestLocator(nil).FindSaveName(config.Steam, dir)
	if err != nil {
		t.Fatalf("FindSaveName() error = %v", err)
	}
	if got != "save2.sav" {
		t.Errorf("FindSaveName() = %q, want save2.sav", got)
	}
}

func TestFindSaveName_WinStorePattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, testSaveFile), base)
	writeFile(t, filepath.Join(dir, "container.3"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "not-a-guid"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "ab12cd34ef56ab12cd34ef56ab12cd34"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, testSaveFile+".sav"), base.Add(time.Hour))

	got, err := newTestLocator(nil).FindSaveName(config.WinStore, dir)
	if err != nil {
		t.Fatalf("FindSaveName() error = %v", err)
	}
	if got != testSaveFile {
		t.Errorf("FindSaveName() = %q, want %q", got, testSaveFile)
	}
}

func TestFindSaveName_EmptyDir(t *testing.T) {
	got, err := newTestLocator(nil).FindSaveName(config.Steam, t.TempDir())
	if err != nil {
		t.Fatalf("FindSaveName() error = %v", err)
	}
	if got != "" {
		t.Errorf("FindSaveName() = %q, want empty", got)
	}
}

func TestFindSaveName_MissingDir(t *testing.T) {
	_, err := newTestLocator(nil).FindSaveName(config.Steam, filepath.Join(t.TempDir(), "gone"))
	if err == nil {
		t.Fatal("FindSaveName() expected error for missing directory")
	}
}

func TestCaptureModTime(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2024, 3, 1, 20, 15, 42, 123456000, time.Local)
	writeFile(t, filepath.Join(dir, "save.sav"), mtime)

	got, err := CaptureModTime(OSFileSystem{}, dir, "save.sav")
	if err != nil {
		t.Fatalf("CaptureModTime() error = %v", err)
	}
	if got != "2024-03-01T20:15:42.123456" {
		t.Errorf("CaptureModTime() = %q, want %q", got, "2024-03-01T20:15:42.123456")
	}
}

func TestCaptureModTime_Missing(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"", "gone.sav"} {
		got, err := CaptureModTime(OSFileSystem{}, dir, name)
		if err == nil {
			t.Errorf("CaptureModTime(%q) expected error", name)
		}
		if got != "" {
			t.Errorf("CaptureModTime(%q) = %q, want empty", name, got)
		}
	}
}

func TestFormatSaveDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"whole seconds", time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local), "2024-01-02T03:04:05"},
		{"microseconds", time.Date(2024, 1, 2, 3, 4, 5, 120000, time.Local), "2024-01-02T03:04:05.000120"},
		{"sub-microsecond dropped", time.Date(2024, 1, 2, 3, 4, 5, 999, time.Local), "2024-01-02T03:04:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSaveDate(tt.in)
			if got != tt.want {
				t.Errorf("FormatSaveDate() = %q, want %q", got, tt.want)
			}

			parsed, err := ParseSaveDate(got)
			if err != nil {
				t.Fatalf("ParseSaveDate(%q) error = %v", got, err)
			}
			if !parsed.Equal(tt.in.Truncate(time.Microsecond)) {
				t.Errorf("ParseSaveDate(%q) = %v, want %v", got, parsed, tt.in.Truncate(time.Microsecond))
			}
		})
	}
}

func TestParseSaveDate_Invalid(t *testing.T) {
	if _, err := ParseSaveDate("yesterday"); err == nil {
		t.Error("ParseSaveDate() expected error")
	}
}

func TestParseSelector(t *testing.T) {
	for _, name := range []string{"", "first", "Newest"} {
		if _, err := ParseSelector(name); err != nil {
			t.Errorf("ParseSelector(%q) error = %v", name, err)
		}
	}
	if _, err := ParseSelector("random"); err == nil {
		t.Error("ParseSelector(random) expected error")
	}
}

func TestNewestCandidate_FallsBackToFirst(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	if got := NewestCandidate(OSFileSystem{}, []string{a, b}); got != a {
		t.Errorf("NewestCandidate() = %q, want %q", got, a)
	}

	mkdirAll(t, b)
	if got := NewestCandidate(OSFileSystem{}, []string{a, b}); got != b {
		t.Errorf("NewestCandidate() = %q, want %q", got, b)
	}
}
