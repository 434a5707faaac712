package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SteamServerUI/DRGSaveBackup/backupmgr"
	"github.com/SteamServerUI/DRGSaveBackup/global"
	"github.com/SteamServerUI/DRGSaveBackup/locator"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

var (
	configPath   string
	backupDir    string
	logLevel     string
	selectPolicy string
)

var rootCmd = &cobra.Command{
	Use:   strings.ToLower(global.ToolName),
	Short: "Back up Deep Rock Galactic saves from Steam and the Windows Store",
	Long: `Locates the Steam and Windows Store save folders, records the newest save of
each in config.ini and copies both into backups/<timestamp>/.

Discovered save folders are remembered in config.ini; delete a *Path entry to
make the next run search for it again.`,
	SilenceUsage: true,
	Version:      global.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, true)
	},
}

// --- discover ---

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Locate saves and update config.ini without copying anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, false)
	},
}

// --- watch ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Back up once, then again every time the game writes a save",
	RunE: func(cmd *cobra.Command, args []string) error {
		wait, _ := cmd.Flags().GetDuration("wait")

		runner, err := newRunner(cmd, wait)
		if err != nil {
			return err
		}
		return runner.Watch(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().Duration("wait", 30*time.Second, "delay after a save write before backing up")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		manager := backupmgr.NewBackupManager(backupmgr.GetBackupConfig(backupDir, 0), logger)
		sets, err := manager.ListBackups(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sets) == 0 {
			fmt.Fprintf(out, "no backups in %s\n", backupDir)
			return nil
		}
		for _, set := range sets {
			fmt.Fprintf(out, "%s\n", set.Name)
			printFile(out, "Steam", set.SteamFile)
			printFile(out, "WinStore", set.WinStoreFile)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Int("limit", 0, "show only the N most recent backups (0 for all)")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", global.DefaultConfigINI, "config file remembering save locations")
	rootCmd.PersistentFlags().StringVar(&backupDir, "backup-dir", global.DefaultBackupDir, "folder receiving timestamped backups")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", global.DefaultLogLevel, "Debug, Info, Warn or Error")
	rootCmd.PersistentFlags().StringVar(&selectPolicy, "select", "first", "candidate to use when several installs are found: first or newest")

	rootCmd.AddCommand(discoverCmd, watchCmd, listCmd)
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}

func newRunner(cmd *cobra.Command, wait time.Duration) (*backupmgr.Runner, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}
	selector, err := locator.ParseSelector(selectPolicy)
	if err != nil {
		return nil, err
	}

	cfg := backupmgr.GetBackupConfig(backupDir, wait)
	logger = logger.With("run", cfg.Identifier)

	loc := locator.New(
		locator.WithSelector(selector),
		locator.WithLogger(logger),
	)
	manager := backupmgr.NewBackupManager(cfg, logger)
	return backupmgr.NewRunner(configPath, loc, manager, logger), nil
}

func runOnce(cmd *cobra.Command, backup bool) error {
	runner, err := newRunner(cmd, 0)
	if err != nil {
		return err
	}

	report, err := runner.Run(cmd.Context(), backupmgr.RunOptions{Backup: backup})
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return report.Err()
}

func printReport(out io.Writer, report *backupmgr.Report) {
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(out, "%s✗ %-8s %v%s\n", colorRed, res.Platform, res.Err, colorReset)
			continue
		}
		fmt.Fprintf(out, "%s✓ %-8s%s %s (modified %s)\n", colorGreen, res.Platform, colorReset, res.SaveName, res.SaveDate)
		if res.BackupFile != "" {
			fmt.Fprintf(out, "  %s→ %s%s\n", colorYellow, res.BackupFile, colorReset)
		}
	}
}

func printFile(out io.Writer, label, path string) {
	if path == "" {
		path = "-"
	}
	fmt.Fprintf(out, "  %-8s %s\n", label+":", path)
}
