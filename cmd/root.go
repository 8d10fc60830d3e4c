package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/logging"
)

var (
	// Global flags
	debug      bool
	dryRun     bool
	configPath string

	// Populated by the root command before any subcommand runs.
	cfg    *config.Config
	logger *slog.Logger
	logOut *logging.HoldWriter

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "osx",
	Short: "Reclaim disk space and remove software on macOS",
	Long: `osxmole - reclaim disk space and remove software on macOS.

Cleans caches, logs, temporary files, trash bins, browser caches and
oversized files, and uninstalls applications together with their
support files, launch agents and package receipts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())

	// Register all subcommands
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be removed without deleting anything")
	fs.BoolVar(&debug, "debug", false, "Show detailed operation logs, skipped paths and warnings")
	fs.StringVar(&configPath, "config", "", "Path to a YAML config file (default $OSX_CONFIG or the user config dir)")
}

// setup loads the configuration and builds the logger shared by every
// subcommand.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.Logging.Level
	if debug {
		level = "debug"
	}
	logOut = logging.NewHoldWriter(os.Stderr)
	logger = logging.NewWithWriter(logOut, level, cfg.Logging.Format)
	slog.SetDefault(logger)

	logger.Debug("configuration loaded", cfg.LogEffective(path)...)
	return nil
}

// reportVerbose reports whether optional report sections should be shown.
func reportVerbose(toggle bool) bool {
	return debug || toggle
}
