package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/SteamServerUI/DRGSaveBackup/config"
	"github.com/SteamServerUI/DRGSaveBackup/global"
)

var (
	// ErrNotFound means no root holds a save directory for the platform.
	ErrNotFound = errors.New("save directory not found")
	// ErrNoSavePackage means a Windows Store nesting level had no matching folder.
	ErrNoSavePackage = errors.New("no matching save package found")

	errSteamNotInstalled = errors.New("steam install path not found in registry")
)

var (
	// <library>\steamapps\common\Deep Rock Galactic\FSD\Saved\SaveGames
	steamSaveSubpath = []string{"steamapps", "common", global.GameFolder, "FSD", "Saved", "SaveGames"}
	// Library locations probed on every root, in order.
	steamLibraries = [][]string{
		{"Program Files (x86)", "Steam"},
		{"SteamLibrary"},
	}

	containerDirPattern = regexp.MustCompile(`^[0-9A-F]{16}_[0-9A-F]{32}$`)
	saveNamePattern     = regexp.MustCompile(`^[0-9A-F]{32}$`)
)

// RootLister enumerates the filesystem roots discovery probes.
type RootLister func() []string

// Locator discovers save directories and the save files inside them.
type Locator struct {
	fsys            FileSystem
	roots           RootLister
	username        func() (string, error)
	steamInstallDir func() (string, error)
	selector        Selector
	logger          *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithFileSystem replaces the filesystem discovery reads from.
func WithFileSystem(fsys FileSystem) Option {
	return func(l *Locator) { l.fsys = fsys }
}

// WithRoots replaces the root enumeration.
func WithRoots(roots RootLister) Option {
	return func(l *Locator) { l.roots = roots }
}

// WithUsername fixes the account name used for the Windows Store packages folder.
func WithUsername(name string) Option {
	return func(l *Locator) {
		l.username = func() (string, error) { return name, nil }
	}
}

// WithSteamInstallDir replaces the registry lookup of the Steam install directory.
func WithSteamInstallDir(fn func() (string, error)) Option {
	return func(l *Locator) { l.steamInstallDir = fn }
}

// WithSelector sets how one candidate is chosen when a stage finds several.
func WithSelector(s Selector) Option {
	return func(l *Locator) { l.selector = s }
}

// WithLogger sets the logger for discovery diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Locator) { l.logger = logger }
}

// New creates a Locator probing the system roots of the real filesystem.
func New(opts ...Option) *Locator {
	l := &Locator{
		fsys:            OSFileSystem{},
		roots:           SystemRoots,
		username:        currentUsername,
		steamInstallDir: steamInstallDir,
		selector:        FirstCandidate,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileSystem returns the filesystem the locator reads from.
func (l *Locator) FileSystem() FileSystem {
	return l.fsys
}

// ResolvePath returns the save directory of platform p. A path already stored in e
// is trusted as is; otherwise it is discovered and stored in e.
func (l *Locator) ResolvePath(e *config.Entry, p config.Platform) (string, error) {
	if e.Path != "" {
		return e.Path, nil
	}

	var (
		path string
		err  error
	)
	switch p {
	case config.Steam:
		path, err = l.FindSteamPath()
	case config.WinStore:
		path, err = l.FindWinStorePath()
	default:
		return "", fmt.Errorf("unknown platform %s", p)
	}
	if err != nil {
		return "", err
	}

	l.logger.Info("Discovered save directory", "platform", p.String(), "path", path)
	e.Path = path
	return path, nil
}

// FindSteamPath probes every root for a Steam library holding the game's SaveGames folder.
func (l *Locator) FindSteamPath() (string, error) {
	roots := l.roots()

	var candidates []string
	for _, root := range roots {
		for _, library := range steamLibraries {
			parts := append([]string{root}, library...)
			path := filepath.Join(append(parts, steamSaveSubpath...)...)
			if l.isDir(path) {
				candidates = append(candidates, path)
			}
		}
	}

	if dir, err := l.steamInstallDir(); err == nil {
		path := filepath.Join(append([]string{dir}, steamSaveSubpath...)...)
		if l.isDir(path) && !slices.Contains(candidates, path) {
			candidates = append(candidates, path)
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no Steam SaveGames folder on %d roots", ErrNotFound, len(roots))
	}
	return l.pick(candidates), nil
}

// FindWinStorePath walks <root>\Users\<user>\AppData\Local\Packages down to the
// folder holding the Windows Store saves. A root whose packages folder fails a
// nesting level is skipped; the last such error is returned if no root succeeds.
func (l *Locator) FindWinStorePath() (string, error) {
	user, err := l.username()
	if err != nil {
		return "", fmt.Errorf("failed to determine user name: %w", err)
	}

	var lastErr error
	for _, root := range l.roots() {
		packages := filepath.Join(root, "Users", user, "AppData", "Local", "Packages")
		if !l.isDir(packages) {
			continue
		}

		path, err := l.findWinStoreSaveDir(packages)
		if err != nil {
			l.logger.Warn("Packages folder has no usable save folder", "root", root, "error", err)
			lastErr = err
			continue
		}
		return path, nil
	}

	if lastErr != nil {
		return "", lastErr
	}
	return "", fmt.Errorf("%w: no Packages folder for user %s", ErrNotFound, user)
}

func (l *Locator) findWinStoreSaveDir(packages string) (string, error) {
	pkgs, err := l.matchDirs(packages, func(name string) bool {
		return strings.HasPrefix(name, global.WinStorePackagePrefix)
	})
	if err != nil {
		return "", err
	}
	if len(pkgs) == 0 {
		return "", noSavePackage("game package "+global.WinStorePackagePrefix+"*", packages)
	}

	wgs := filepath.Join(l.pick(pkgs), "SystemAppData", "wgs")
	containers, err := l.matchDirs(wgs, containerDirPattern.MatchString)
	if err != nil {
		return "", err
	}
	if len(containers) == 0 {
		return "", noSavePackage("save container folder", wgs)
	}

	container := l.pick(containers)
	saves, err := l.matchDirs(container, saveNamePattern.MatchString)
	if err != nil {
		return "", err
	}
	if len(saves) == 0 {
		return "", noSavePackage("save folder", container)
	}
	return l.pick(saves), nil
}

func noSavePackage(what, dir string) error {
	return fmt.Errorf("%w: no %s in %s", ErrNoSavePackage, what, dir)
}

// matchDirs lists the subdirectories of dir whose name satisfies match.
// A missing dir yields no candidates.
func (l *Locator) matchDirs(dir string, match func(string) bool) ([]string, error) {
	entries, err := l.fsys.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var dirs []string
	for _, e := range entries {
		if !match(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if l.isDir(path) {
			dirs = append(dirs, path)
		}
	}
	return dirs, nil
}

func (l *Locator) pick(candidates []string) string {
	if len(candidates) > 1 {
		l.logger.Debug("Several candidates found, selecting one", "candidates", candidates)
	}
	return l.selector(l.fsys, candidates)
}

func (l *Locator) isDir(path string) bool {
	info, err := l.fsys.Stat(path)
	return err == nil && info.IsDir()
}
