package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/osxmole/internal/config"
	"github.com/lakshaymaurya-felt/osxmole/internal/core"
	"github.com/lakshaymaurya-felt/osxmole/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show volume usage",
	Long:  "Show used and free space of the home volume and every mounted external volume.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		layout := config.DefaultLayout()

		fmt.Fprintln(out, ui.TitleStyle.Render(core.MacOSVersionString()))

		paths := append([]string{layout.Home}, core.MountedVolumes(ctx)...)
		for _, p := range paths {
			v, err := core.VolumeUsage(ctx, p)
			if err != nil {
				logger.Warn("volume usage unavailable", "path", p, "error", err)
				continue
			}
			fmt.Fprintln(out, ui.RenderVolume(v.Path, v, 30))
		}

		if core.SIPEnabled(ctx) {
			fmt.Fprintln(out, ui.MutedStyle.Render("System Integrity Protection: enabled"))
		}
		if core.IsElevated() {
			fmt.Fprintln(out, ui.WarningStyle.Render(ui.IconWarning+" running with administrator privileges"))
		}
		return nil
	},
}
