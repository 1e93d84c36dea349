// SPDX-License-Identifier: Apache-2.0
package validate

import (
	"fmt"

	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/manifest"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Validate an add-in manifest",
		Long: `Validate an add-in manifest.

Checks the manifest XML for required elements, a well-formed add-in Id,
and common mistakes such as non-HTTPS source locations. Errors fail the
command; warnings do not.

Examples:
  office-addin validate manifest.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := manifest.Validate(args[0])
			if err != nil {
				return err
			}

			theme := config.CurrentTheme
			for _, warning := range report.Warnings {
				fmt.Println(theme.WarningMessage(warning))
			}
			for _, e := range report.Errors {
				fmt.Println(theme.ErrorMessage(e))
			}

			if !report.Valid() {
				return fmt.Errorf("%s: %d error(s)", args[0], len(report.Errors))
			}

			fmt.Println(theme.SuccessMessage(args[0] + " is valid"))
			return nil
		},
	}

	return cmd
}
