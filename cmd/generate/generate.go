// SPDX-License-Identifier: Apache-2.0
package generate

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/huh"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/manifest"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	opts := manifest.GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a starter add-in manifest",
		Long: `Generate a starter add-in manifest.

Writes a manifest XML file with a fresh add-in Id. Without flags, an
interactive form collects the add-in name, host, and type.

Examples:
  office-addin generate
  office-addin generate --name "Expense Tracker" --host workbook --type taskpane
  office-addin generate --name Inbox --host mailbox --type mail -o manifests/inbox.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := config.GetUseTUI() && term.IsTerminal(int(os.Stdout.Fd()))

			if opts.Name == "" {
				if !interactive {
					return fmt.Errorf("--name is required in non-interactive mode")
				}
				if err := runGenerateForm(&opts); err != nil {
					return err
				}
			}

			if err := manifest.Generate(opts); err != nil {
				return err
			}

			output := opts.Output
			if output == "" {
				output = "manifest.xml"
			}
			theme := config.CurrentTheme
			fmt.Println(theme.SuccessMessage("Generated " + output))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Add-in display name")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "Provider name (defaults to the add-in name)")
	cmd.Flags().StringVar(&opts.Host, "host", "workbook", "Office host: workbook, document, presentation, mailbox")
	cmd.Flags().StringVar(&opts.Type, "type", "taskpane", "Add-in type: taskpane, content, mail")
	cmd.Flags().StringVar(&opts.SourceLocation, "source-location", "", "Base URL the add-in is served from")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "manifest.xml", "Output manifest path")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing manifest")

	return cmd
}

// runGenerateForm collects missing options through an interactive form
func runGenerateForm(opts *manifest.GenerateOptions) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add-in name").
				Value(&opts.Name).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("name must not be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Office host").
				Options(hostOptions()...).
				Value(&opts.Host),
			huh.NewSelect[string]().
				Title("Add-in type").
				Options(typeOptions()...).
				Value(&opts.Type),
		),
	)

	return form.Run()
}

func hostOptions() []huh.Option[string] {
	return sortedOptions(manifest.Hosts)
}

func typeOptions() []huh.Option[string] {
	return sortedOptions(manifest.Types)
}

func sortedOptions(m map[string]string) []huh.Option[string] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]huh.Option[string], len(keys))
	for i, k := range keys {
		opts[i] = huh.NewOption(k, k)
	}
	return opts
}
