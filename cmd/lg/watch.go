package main

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steveyegge/launchgate/internal/config"
	"github.com/steveyegge/launchgate/internal/tui/board"
)

var watchCmd = &cobra.Command{
	Use:   "watch KEY",
	Short: "Interactive launch gate board with sign-off",
	Long: `Open an interactive board for a launch ticket.

The board reloads on the configured interval (watch.refresh_interval) and on
'r'. Press 'e' or 'p' to sign off Engineering or Product; a sign-off is only
accepted when every gate in that group is done or not applicable.

Sign-offs are kept for the lifetime of the board and are not written back
to Jira.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			FatalErrorWithHint("watch does not support --json", "use 'lg status --json' instead")
		}
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			FatalErrorWithHint("watch requires a terminal", "use 'lg status' for non-interactive output")
		}

		interval := config.GetRefreshInterval()
		if cmd.Flags().Changed("interval") {
			interval, _ = cmd.Flags().GetDuration("interval")
		}

		session := mustSession(cmd, args[0])
		model := board.New(session, board.Options{
			RefreshInterval: max(interval, 0),
			BaseURL:         browseBase(),
		})

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(rootCtx))
		if _, err := p.Run(); err != nil {
			FatalError("running board: %v", err)
		}
	},
}

func init() {
	watchCmd.Flags().Duration("interval", 60*time.Second, "Reload interval (0 disables periodic reloads)")
	rootCmd.AddCommand(watchCmd)
}
