package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/steveyegge/launchgate/internal/config"
	"github.com/steveyegge/launchgate/internal/ui"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the checklist templates in effect",
	Long: `List the checklist templates used to group launch gates.

Templates come from --templates FILE when given, otherwise from the
templates.product and templates.engineering config keys. Titles are matched
against item summaries case-insensitively, ignoring surrounding whitespace.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		templates, err := loadTemplates()
		if err != nil {
			FatalError("%v", err)
		}

		if jsonOutput {
			outputJSON(templates)
			return
		}

		source := "config"
		if templatesFile != "" {
			source = templatesFile
		} else if used := config.ConfigFileUsed(); used != "" {
			source = used
		}
		fmt.Printf("Templates (from %s)\n", source)
		for _, t := range templates {
			fmt.Printf("\n%s\n", ui.RenderAccent(t.Name))
			if len(t.Titles) == 0 {
				note := "(no titles: matches nothing)"
				if strings.EqualFold(t.Name, config.EngineeringTemplateName) {
					note = "(no titles: every linked checklist item counts)"
				}
				fmt.Printf("  %s\n", ui.RenderMuted(note))
				continue
			}
			for _, title := range t.Titles {
				fmt.Printf("  %s %s\n", ui.IconSkip, title)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}
