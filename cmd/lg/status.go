package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status KEY",
	Short: "Show launch gate progress for a launch ticket",
	Long: `Show the Product and Engineering launch gates of a launch ticket.

KEY may be an issue key (LAUNCH-42) or a browse URL. Product items are the
sub-tasks of KEY whose titles match the Product template; Engineering items
come from the tickets linked to KEY by "implements" or "blocks" links.

Exit status is 1 when the launch ticket could not be loaded. With --check,
exit status is 2 when the launch is not ready.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		check, _ := cmd.Flags().GetBool("check")

		session := mustSession(cmd, args[0])
		snap := session.Load(rootCtx)

		var surface launch.Surface
		if jsonOutput {
			surface = ui.JSONReport{W: os.Stdout}
		} else {
			report := ui.NewReport(os.Stdout, noColor)
			report.BaseURL = browseBase()
			surface = report
		}
		if err := session.Render(surface); err != nil {
			FatalError("render status: %v", err)
		}

		if snap.Error != "" {
			exit(1)
		}
		if check && !snap.Readiness.Overall {
			exit(2)
		}
	},
}

func init() {
	statusCmd.Flags().Bool("check", false, "Exit with status 2 unless the launch is ready")
	rootCmd.AddCommand(statusCmd)
}
