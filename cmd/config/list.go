// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all configuration values",
		Long: `List all configuration values with their sources.

Shows all configuration keys currently set, along with their values
and where they come from (ENV, local config, user config, or default).

Output format: key = value (source)`,
		Example: `  # List all configuration
  office-addin config list

  # Example output:
  # catalog.folder-name = .addin-catalog (default)
  # catalog.share-name = TeamAddins (from ./office-addin.yaml)
  # certificates.days = 30 (from ~/.config/office-addin/config.yaml)
  # github-token = ghp_xxxxx (from ~/.config/office-addin/config.yaml)
  # log-level = debug (default)
  # use-tui = false (from ENV: OFFICE_ADDIN_USE_TUI)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Call business logic
			values, err := config.ListConfigValues()
			if err != nil {
				return err
			}

			if len(values) == 0 {
				fmt.Println("No configuration set")
				return nil
			}

			// Display each key with its source
			for _, cv := range values {
				fmt.Printf("%s = %v (%s)\n", cv.Key, cv.Value, cv.Source)
			}

			// Show configuration precedence info
			fmt.Println("\n" + config.CurrentTheme.SubtleStyle().Render("Configuration precedence: ENV > local config > user config > defaults"))

			if !config.IsRepoMode() {
				fmt.Println(config.CurrentTheme.InfoMessage("No ./office-addin.yaml here; 'config set' without --global will create one"))
			}

			return nil
		},
	}

	return cmd
}
