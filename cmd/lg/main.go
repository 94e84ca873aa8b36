package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/launchgate/internal/config"
	"github.com/steveyegge/launchgate/internal/debug"
	"github.com/steveyegge/launchgate/internal/telemetry"
	"github.com/steveyegge/launchgate/internal/ui"
)

var (
	jsonOutput    bool
	verboseFlag   bool // Enable verbose/debug output
	quietFlag     bool // Suppress non-essential output
	noColor       bool
	fixtureFile   string // Offline issue source (YAML or TOML)
	templatesFile string // Alternate checklist templates (YAML or TOML)

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

func init() {
	// Initialize viper configuration
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&fixtureFile, "fixture", "", "Read issues from a YAML/TOML fixture instead of Jira")
	rootCmd.PersistentFlags().StringVar(&templatesFile, "templates", "", "Load checklist templates from a YAML/TOML file")

	// Add --version flag to root command (same behavior as version subcommand)
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
}

var rootCmd = &cobra.Command{
	Use:   "lg",
	Short: "lg - launch gate checklists and sign-offs for Jira",
	Long: `Track whether a release's launch gates are complete.

lg reads the sub-tasks of a launch ticket and the checklists of its linked
engineering tickets, classifies each item as done, not applicable or pending,
and gates the Engineering and Product sign-offs on the result.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Handle --version flag on root command
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("lg version %s (%s)\n", Version, Build)
			return
		}
		// No subcommand - show help
		_ = cmd.Help() // Help() always returns nil for cobra commands
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupSignalContext()
		applyVerbosityFlags()
		applyViperOverrides(cmd)
		ui.ConfigureColor(noColor)

		if err := telemetry.Init(rootCtx, "lg", Version); err != nil {
			WarnError("telemetry disabled: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.Shutdown(context.Background())
		if rootCancel != nil {
			rootCancel()
		}
	},
}

func setupSignalContext() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func applyVerbosityFlags() {
	debug.SetVerbose(verboseFlag)
	debug.SetQuiet(quietFlag)
}

// applyViperOverrides lets config and LG_* env set flags the user did not pass.
func applyViperOverrides(cmd *cobra.Command) {
	if cmd.Flags().Changed("json") {
		config.Set("json", jsonOutput)
	} else {
		jsonOutput = config.GetBool("json")
	}
	if cmd.Flags().Changed("no-color") {
		config.Set("no-color", noColor)
	} else {
		noColor = config.GetBool("no-color")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit(1)
	}
}
