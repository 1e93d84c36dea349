// SPDX-License-Identifier: Apache-2.0
package config

import (
	"fmt"

	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/spf13/cobra"
)

func newUnsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unset [key]",
		Short: "Remove configuration value",
		Long: `Remove a configuration key from a config file.

Keys use dot notation for nested values (e.g., catalog.share-name).

**Note:**
  - Removing a parent key removes all nested values (e.g., unsetting 'catalog' removes 'catalog.share-name' and all other children)
  - Environment variables and defaults will still apply after removal`,
		Args: cobra.ExactArgs(1),
		Example: `  # Remove from local config
  office-addin config unset use-tui
  office-addin config unset certificates.days

  # Remove from user config
  office-addin config unset --global github-token

  # Remove nested value
  office-addin config unset catalog.share-name

  # Remove parent (removes all children)
  office-addin config unset catalog`,
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			// Determine scope
			scope := config.ScopeRepo
			if globalFlag {
				scope = config.ScopeUser
			}

			// Call business logic
			if err := config.UnsetConfigValue(key, scope); err != nil {
				return err
			}

			// Show success message
			scopeName := "local"
			configFile := config.LocalConfigFile + config.DefaultConfigExt
			if globalFlag {
				scopeName = "global"
				configFile = "~/.config/office-addin/" + config.ConfigFileName + config.DefaultConfigExt
			}
			fmt.Printf("Removed %s from %s config (%s)\n", key, scopeName, configFile)

			return nil
		},
	}

	addGlobalFlag(cmd)
	return cmd
}
