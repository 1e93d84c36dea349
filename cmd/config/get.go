// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get configuration value",
		Long: `Get a configuration value and show its source.

The source indicates where the value comes from in precedence order:
  - ENV: Environment variable (OFFICE_ADDIN_*)
  - Local: Local config file (./office-addin.yaml)
  - User: User config file (~/.config/office-addin/config.yaml)
  - Default: Built-in default value`,
		Args: cobra.ExactArgs(1),
		Example: `  # Get a configuration value
  office-addin config get use-tui

  # Get nested value
  office-addin config get catalog.share-name

  # Output shows value and source:
  # use-tui = true (from ENV: OFFICE_ADDIN_USE_TUI)
  # log-level = debug (from ./office-addin.yaml)
  # github-token = ghp_xxxxx (from ~/.config/office-addin/config.yaml)
  # catalog.share-name = OfficeAddins (default)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			// Call business logic
			configValue, err := config.GetConfigValue(key)
			if err != nil {
				return err
			}

			// Display value with source
			fmt.Printf("%s = %v (%s)\n", configValue.Key, configValue.Value, configValue.Source)

			return nil
		},
	}

	return cmd
}
