package backupmgr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/SteamServerUI/DRGSaveBackup/config"
	"github.com/SteamServerUI/DRGSaveBackup/locator"
)

// Runner performs one pass of discovery, identification, persistence and backup.
type Runner struct {
	configPath string
	locator    *locator.Locator
	manager    *BackupManager
	logger     *slog.Logger
}

// RunOptions controls what a single run does after the record is refreshed.
type RunOptions struct {
	Backup bool
}

// Result is the outcome of one run for one platform.
type Result struct {
	Platform   config.Platform
	Path       string
	SaveName   string
	SaveDate   string
	BackupFile string
	Err        error
}

// Report is the outcome of one run.
type Report struct {
	Identifier string
	Record     config.Record
	BackupDir  string
	Results    []Result
}

// Err joins the per-platform errors of the run, nil if every platform succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Platform, res.Err))
		}
	}
	return errors.Join(errs...)
}

// NewRunner creates a Runner persisting its record at configPath.
func NewRunner(configPath string, loc *locator.Locator, manager *BackupManager, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		configPath: configPath,
		locator:    loc,
		manager:    manager,
		logger:     logger,
	}
}

// Run loads the record, refreshes it, writes it back and optionally backs up the saves.
// Per-platform problems are reported on the returned Report; the error covers
// failures that stop the whole run.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock, err := config.AcquireLock(r.configPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			r.logger.Warn("Failed to release config lock", "error", err)
		}
	}()

	rec, err := config.Load(r.configPath)
	if err != nil {
		return nil, err
	}

	report := &Report{Identifier: r.manager.config.Identifier}
	report.Results = r.Refresh(rec)

	if err := rec.Save(r.configPath); err != nil {
		return nil, err
	}
	r.logger.Debug("Saved config", "path", r.configPath)

	if opts.Backup {
		if err := r.backup(rec, report); err != nil {
			return nil, err
		}
	}

	report.Record = *rec
	return report, nil
}

// Refresh resolves each platform's save directory, discovering it only when
// the record has none, then re-identifies the newest save and its modify time.
func (r *Runner) Refresh(rec *config.Record) []Result {
	results := make([]Result, 0, len(config.Platforms))
	for _, p := range config.Platforms {
		results = append(results, r.refreshPlatform(rec.Entry(p), p))
	}
	return results
}

func (r *Runner) refreshPlatform(e *config.Entry, p config.Platform) Result {
	res := Result{Platform: p}

	path, err := r.locator.ResolvePath(e, p)
	if err != nil {
		r.logger.Error("Could not locate save directory", "platform", p.String(), "error", err)
		e.SaveName, e.SaveDate = "", ""
		res.Err = err
		return res
	}
	res.Path = path

	name, err := r.locator.FindSaveName(p, path)
	if err != nil {
		r.logger.Error("Could not list save files", "platform", p.String(), "error", err)
		e.SaveName, e.SaveDate = "", ""
		res.Err = err
		return res
	}
	if name == "" {
		r.logger.Warn("No save files found", "platform", p.String(), "path", path)
	}
	e.SaveName = name
	res.SaveName = name

	date, err := locator.CaptureModTime(r.locator.FileSystem(), path, name)
	if err != nil {
		r.logger.Error("Error: Cannot find modify time", "platform", p.String(), "error", err)
		res.Err = err
	}
	e.SaveDate = date
	res.SaveDate = date

	r.logger.Info("Identified save", "platform", p.String(), "name", name, "modified", date)
	return res
}

func (r *Runner) backup(rec *config.Record, report *Report) error {
	root, err := r.manager.NewBackupRoot()
	if err != nil {
		return err
	}
	report.BackupDir = root

	for i := range report.Results {
		res := &report.Results[i]
		if res.Path == "" || res.SaveName == "" {
			continue
		}

		dst, err := r.manager.CopySave(root, res.Platform, *rec.Entry(res.Platform))
		if err != nil {
			r.logger.Error("Backup failed", "platform", res.Platform.String(), "error", err)
			res.Err = errors.Join(res.Err, err)
			continue
		}
		res.BackupFile = dst
	}
	return nil
}

// Watch runs once with backup, then backs up again whenever a save changes,
// until ctx is cancelled.
func (r *Runner) Watch(ctx context.Context) error {
	report, err := r.Run(ctx, RunOptions{Backup: true})
	if err != nil {
		return err
	}

	dirs := watchDirs(report.Results)
	if len(dirs) == 0 {
		return fmt.Errorf("no save directory to watch: %w", report.Err())
	}

	err = r.manager.Start(dirs, func() {
		report, err := r.Run(ctx, RunOptions{Backup: true})
		if err != nil {
			r.logger.Error("Backup run failed", "error", err)
			return
		}
		if err := report.Err(); err != nil {
			r.logger.Warn("Backup run finished with errors", "error", err)
		}
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	r.logger.Info("Stopping watch", "reason", ctx.Err())
	r.manager.Shutdown()
	return nil
}

// watchDirs maps each resolved save directory to its platform. Keys are cleaned
// so they compare equal to the parent of the paths fsnotify reports.
func watchDirs(results []Result) map[string]config.Platform {
	dirs := make(map[string]config.Platform)
	for _, res := range results {
		if res.Path != "" {
			dirs[filepath.Clean(res.Path)] = res.Platform
		}
	}
	return dirs
}
