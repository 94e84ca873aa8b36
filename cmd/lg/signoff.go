package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/steveyegge/launchgate/internal/launch"
	"github.com/steveyegge/launchgate/internal/signoff"
	"github.com/steveyegge/launchgate/internal/ui"
)

// signoffResult is the --json output of lg signoff.
type signoffResult struct {
	Target    signoff.Target  `json:"target"`
	SignedOff bool            `json:"signed_off"`
	Reason    string          `json:"reason,omitempty"`
	Snapshot  launch.Snapshot `json:"snapshot"`
}

var signoffCmd = &cobra.Command{
	Use:   "signoff KEY",
	Short: "Sign off the Engineering or Product launch gates",
	Long: `Load a launch ticket and record a sign-off for one group of gates.

The sign-off is accepted only when every item in the group is done or not
applicable, and the Engineering group additionally needs at least one item.
Sign-offs are scoped to this invocation and are not written back to Jira;
the command reports whether the gates allow it.

Examples:
  lg signoff LAUNCH-42 --target product
  lg signoff LAUNCH-42 -t eng --yes --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		targetFlag, _ := cmd.Flags().GetString("target")
		yes, _ := cmd.Flags().GetBool("yes")

		target, err := signoff.ParseTarget(targetFlag)
		if err != nil {
			FatalErrorWithHint(err.Error(), "use --target engineering or --target product")
		}

		session := mustSession(cmd, args[0])
		snap := session.Load(rootCtx)
		if snap.Error != "" {
			FatalError("%s", snap.Error)
		}

		session.RequestSignoff(target)
		snap = session.Snapshot()
		if !snap.Readiness.Ready(target) {
			session.Cancel()
			reason := ui.NotReadyReason(snap, target)
			if jsonOutput {
				outputJSON(signoffResult{Target: target, Reason: reason, Snapshot: session.Snapshot()})
				exit(1)
			}
			FatalError("cannot sign off %s: %s", target, reason)
		}

		if !yes && !jsonOutput {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				session.Cancel()
				FatalErrorWithHint("confirmation required", "pass --yes to sign off without a prompt")
			}
			if !confirmSignoff(target, session.ParentKey) {
				session.Cancel()
				fmt.Fprintln(os.Stderr, "Sign-off cancelled.")
				return
			}
		}

		ok := session.ConfirmSignoff(rootCtx)
		snap = session.Snapshot()
		if jsonOutput {
			outputJSON(signoffResult{Target: target, SignedOff: ok, Snapshot: snap})
			if !ok {
				exit(1)
			}
			return
		}
		if !ok {
			FatalError("cannot sign off %s: %s", target, ui.NotReadyReason(snap, target))
		}
		fmt.Printf("%s %s sign-off recorded for %s\n", ui.RenderPass(ui.IconPass), target.Title(), snap.ParentKey)
		fmt.Printf("  %s\n", ui.RenderMuted("session "+snap.SessionID+" (not written to Jira)"))
	},
}

// confirmSignoff asks the user to confirm; false on decline or abort.
func confirmSignoff(target signoff.Target, parentKey string) bool {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Sign off %s for %s?", target.Title(), parentKey)).
				Description("All " + target.String() + " launch gates are resolved.").
				Affirmative("Sign off").
				Negative("Cancel").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false
		}
		FatalError("form error: %v", err)
	}
	return confirmed
}

func init() {
	signoffCmd.Flags().StringP("target", "t", "", "Group to sign off: engineering or product (required)")
	signoffCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	_ = signoffCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(signoffCmd)
}
