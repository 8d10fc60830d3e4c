package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/osxmole/internal/clean"
)

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish]",
	Short:     "Set up shell tab completion",
	Long:      "Generate a tab completion script for bash, zsh or fish and print it to stdout.",
	Example:   "  osx completion zsh > \"${fpath[1]}/_osx\"",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	},
}

func init() {
	// Category names complete for --only.
	_ = cleanupCmd.RegisterFlagCompletionFunc("only", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryKeys(), cobra.ShellCompDirectiveNoFileComp
	})
}

func categoryKeys() []string {
	keys := make([]string, len(clean.AllKinds))
	for i, k := range clean.AllKinds {
		keys[i] = k.Key()
	}
	return keys
}
