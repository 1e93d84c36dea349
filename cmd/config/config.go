// SPDX-License-Identifier: Apache-2.0
package config

import (
	"github.com/spf13/cobra"
)

var (
	// globalFlag determines whether to operate on user config vs local config
	globalFlag bool
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage office-addin configuration",
		Long: `Manage office-addin configuration settings.

Configuration precedence (highest to lowest):
  1. Environment variables (OFFICE_ADDIN_*)
  2. Local config (./office-addin.yaml)
  3. User config (~/.config/office-addin/config.yaml)
  4. Defaults

By default, config commands operate on local config (./office-addin.yaml).
Use --global to operate on user config instead.`,
		Example: `  # Set local config (project-specific)
  office-addin config set use-tui false
  office-addin config set catalog.share-name TeamAddins

  # Set global config (user preferences)
  office-addin config set --global github-token ghp_xxxxx
  office-addin config set --global certificates.days 30

  # Get configuration value
  office-addin config get use-tui

  # Remove configuration value
  office-addin config unset catalog.share-name
  office-addin config unset --global github-token

  # List all configuration
  office-addin config list`,
	}

	// Add subcommands
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newUnsetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// addGlobalFlag adds the --global flag to a command
func addGlobalFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&globalFlag, "global", false, "Operate on user config instead of local config")
}
