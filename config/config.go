package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// SectionName is the only section of the persisted record.
const SectionName = "General"

// Platform identifies one of the two distributions a save can come from.
type Platform int

const (
	Steam Platform = iota
	WinStore
)

// Platforms lists every platform in processing order.
var Platforms = []Platform{Steam, WinStore}

// String returns the name used both as key prefix and as backup subdirectory.
func (p Platform) String() string {
	switch p {
	case Steam:
		return "Steam"
	case WinStore:
		return "WinStore"
	default:
		return fmt.Sprintf("Platform(%d)", int(p))
	}
}

// Entry is the per-platform part of the record.
// Path is cached between runs, SaveName and SaveDate are refreshed every run.
type Entry struct {
	Path     string
	SaveName string
	SaveDate string
}

// Record is the persisted state of the tool, stored as config.ini.
type Record struct {
	Steam    Entry
	WinStore Entry
}

// Values are raw paths and file names, so '#' and ';' inside them are kept
// rather than read as the start of a comment.
var loadOptions = ini.LoadOptions{
	Loose:               true,
	InsensitiveKeys:     true,
	IgnoreInlineComment: true,
}

// Entry returns a pointer to the entry of platform p so callers can update it in place.
func (r *Record) Entry(p Platform) *Entry {
	if p == WinStore {
		return &r.WinStore
	}
	return &r.Steam
}

// Load reads the record at path. A missing file yields an empty record.
func Load(path string) (*Record, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	rec := &Record{}
	sec := f.Section(SectionName)
	for _, p := range Platforms {
		e := rec.Entry(p)
		e.Path = readKey(sec, p.String()+"Path")
		e.SaveName = readKey(sec, p.String()+"SaveName")
		e.SaveDate = readKey(sec, p.String()+"SaveDate")
	}
	return rec, nil
}

func readKey(sec *ini.Section, name string) string {
	if !sec.HasKey(name) {
		return ""
	}
	return sec.Key(name).String()
}

// Save overwrites path with the full record.
func (r *Record) Save(path string) error {
	f := ini.Empty(loadOptions)
	sec, err := f.NewSection(SectionName)
	if err != nil {
		return fmt.Errorf("failed to create section %s: %w", SectionName, err)
	}

	for _, p := range Platforms {
		e := r.Entry(p)
		keys := []struct{ name, value string }{
			{p.String() + "Path", e.Path},
			{p.String() + "SaveName", e.SaveName},
			{p.String() + "SaveDate", e.SaveDate},
		}
		for _, k := range keys {
			if _, err := sec.NewKey(k.name, k.value); err != nil {
				return fmt.Errorf("failed to set %s: %w", k.name, err)
			}
		}
	}

	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
