package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/osxmole/internal/clean"
	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/ignore"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
	"github.com/lakshaymaurya-felt/osxmole/internal/ui"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Free up disk space",
	Long: `Remove caches, logs, temporary files, trash bins, browser caches and
oversized files to reclaim disk space.

Categories: system-caches, user-caches, temporary-files, user-logs,
crash-reporter-logs, trash-bins, browser-caches, large-files.`,
	Example: `  osx cleanup --dry-run
  osx cleanup --ignore ~/Library/Caches,~/Downloads
  osx cleanup --ignore-match com.apple.Safari
  osx cleanup --only user-caches,trash-bins
  osx cleanup --only large-files --min-size 1GB --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().StringSlice("ignore", nil, "Comma-separated paths to exclude (with everything below them)")
	cleanupCmd.Flags().StringSlice("ignore-match", nil, "Comma-separated substrings; any candidate path containing one is excluded")
	cleanupCmd.Flags().StringSlice("only", nil, "Comma-separated categories to run (default all)")
	cleanupCmd.Flags().String("min-size", "", "Minimum size of a large file (e.g. 100MiB, 2GB)")
	cleanupCmd.Flags().Int("workers", 0, "Parallel workers (default from config)")
}

// cleanupSettings merges flags over the loaded configuration.
type cleanupSettings struct {
	ignore      []string
	ignoreMatch []string
	only        []string
	minSize     string
	workers     int
}

func resolveCleanupSettings(cmd *cobra.Command, c *config.Config) (cleanupSettings, error) {
	s := cleanupSettings{
		ignore:      c.Cleanup.Ignore,
		ignoreMatch: c.Cleanup.IgnoreMatch,
		only:        c.Cleanup.Only,
		minSize:     c.Cleanup.MinLargeFileSize,
		workers:     c.Cleanup.Workers,
	}

	flags := cmd.Flags()
	var err error
	if flags.Changed("ignore") {
		if s.ignore, err = flags.GetStringSlice("ignore"); err != nil {
			return s, err
		}
	}
	if flags.Changed("ignore-match") {
		if s.ignoreMatch, err = flags.GetStringSlice("ignore-match"); err != nil {
			return s, err
		}
	}
	if flags.Changed("only") {
		if s.only, err = flags.GetStringSlice("only"); err != nil {
			return s, err
		}
	}
	if flags.Changed("min-size") {
		if s.minSize, err = flags.GetString("min-size"); err != nil {
			return s, err
		}
	}
	if flags.Changed("workers") {
		if s.workers, err = flags.GetInt("workers"); err != nil {
			return s, err
		}
	}
	return s, nil
}

func runCleanup(cmd *cobra.Command, args []string) error {
	settings, err := resolveCleanupSettings(cmd, cfg)
	if err != nil {
		return err
	}

	kinds, err := clean.ParseKinds(settings.only)
	if err != nil {
		return err
	}
	threshold, err := config.ParseSize(settings.minSize)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	layout := config.DefaultLayout()

	engine := clean.NewEngine(clean.Options{
		DryRun:      dryRun,
		Ignore:      ignore.New(ignore.ExpandHome(settings.ignore, layout.Home)),
		IgnoreMatch: ignore.NewWithMode(settings.ignoreMatch, ignore.ModeSubstring),
		Workers:     settings.workers,
		Layout:      layout,
		Log:         logger,
	})
	sources := clean.NewSources(kinds, clean.SourceOptions{
		Layout:             layout,
		LargeFileThreshold: threshold,
		Workers:            settings.workers,
		Volumes:            core.MountedVolumes,
		Log:                logger,
	})

	before, volErr := core.VolumeUsage(ctx, layout.Home)

	var report *result.Report
	label := "Scanning for files to clean..."
	if !dryRun {
		label = "Cleaning..."
	}
	err = runWithProgress(label, func() error {
		var runErr error
		report, runErr = engine.Run(ctx, sources)
		return runErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.RenderCleanup(report, ui.ReportOptions{
		ShowSkipped:  reportVerbose(cfg.Report.ShowSkipped),
		ShowWarnings: reportVerbose(cfg.Report.ShowWarnings),
		ShowNotFound: true,
		Aggregate:    clean.IsAggregated,
	}))

	if volErr == nil && !dryRun {
		printVolumeChange(ctx, out, layout.Home, before)
	}
	return nil
}

func printVolumeChange(ctx context.Context, out io.Writer, path string, before core.VolumeStat) {
	after, err := core.VolumeUsage(ctx, path)
	if err != nil {
		logger.Debug("volume usage unavailable", "path", path, "error", err)
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.RenderVolume("Before", before, 30))
	fmt.Fprintln(out, ui.RenderVolume("After", after, 30))
	fmt.Fprintln(out, ui.RenderFreed(before, after))
}

// runWithProgress shows a spinner unless debug logging would interleave
// with it. Log lines written meanwhile are held and flushed once the
// spinner is gone.
func runWithProgress(label string, work func() error) error {
	if debug {
		return work()
	}
	if logOut != nil {
		logOut.Hold()
		defer func() { _ = logOut.Release() }()
	}
	return ui.WithSpinner(label, work)
}
