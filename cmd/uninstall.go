package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/result"
	"github.com/lakshaymaurya-felt/osxmole/internal/ui"
	"github.com/lakshaymaurya-felt/osxmole/internal/uninstall"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove apps completely",
	Long: `Remove an application bundle and/or command-line tool named <name>,
together with its support files, preferences, caches, containers, launch
agents and package receipts.

Launch agents and receipts are matched by a case-insensitive substring of
<name>; review the list (or use --dry-run) before confirming.`,
	Example: `  osx uninstall Slack --dry-run
  osx uninstall ripgrep --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name := args[0]
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	layout := config.DefaultLayout()
	x := uninstall.NewExecutor(uninstall.Options{
		DryRun:  dryRun,
		Workers: cfg.Cleanup.Workers,
		Layout:  layout,
		Log:     logger,
	})

	cands, err := x.Plan(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !dryRun && !yes && ui.IsTerminal(os.Stdin) {
		existing := existingPaths(cands)
		if len(existing) == 0 {
			fmt.Fprintf(out, "Nothing found for %q.\n", name)
			return nil
		}
		fmt.Fprintf(out, "The following %d paths will be removed:\n", len(existing))
		for _, p := range existing {
			fmt.Fprintf(out, "  %s %s\n", ui.IconChevron, p)
		}
		ok, err := ui.Confirm(out, fmt.Sprintf("Uninstall %s?", name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	var report *result.Report
	err = runWithProgress("Removing "+name+"...", func() error {
		report = x.Execute(cands)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprint(out, ui.RenderUninstall(name, report, ui.ReportOptions{
		ShowSkipped:  reportVerbose(cfg.Report.ShowSkipped),
		ShowWarnings: reportVerbose(cfg.Report.ShowWarnings),
		ShowNotFound: debug,
	}))
	return nil
}

func existingPaths(cands []uninstall.Candidate) []string {
	var out []string
	for _, c := range cands {
		if core.Exists(c.Path) {
			out = append(out, c.Path)
		}
	}
	return out
}
