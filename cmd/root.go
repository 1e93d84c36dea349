// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	configCmd "github.com/CLAV88/office-addin/cmd/config"
	"github.com/CLAV88/office-addin/cmd/generate"
	"github.com/CLAV88/office-addin/cmd/setup"
	"github.com/CLAV88/office-addin/cmd/update"
	"github.com/CLAV88/office-addin/cmd/validate"
	"github.com/CLAV88/office-addin/cmd/version"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Version is set at build time via ldflags
	// -ldflags "-X github.com/CLAV88/office-addin/cmd.Version=x.y.z"
	Version string

	// DisableUpdate is set at build time by package managers via ldflags
	// -ldflags "-X github.com/CLAV88/office-addin/cmd.DisableUpdate=true"
	DisableUpdate string

	logLevel string
	useTUI   bool
)

var rootCmd = &cobra.Command{
	Use:   "office-addin",
	Short: "Office Add-in development environment manager",
	Long: `office-addin - Office Add-in development environment manager

A CLI tool to prepare a developer machine for Office Add-in development:
shared add-in catalog, manifest links, and trusted localhost certificates.
Implements XDG Base Directory specification for organized file storage.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize directories before any command runs
		if err := config.InitDirs(); err != nil {
			return err
		}

		// Load config files now that directories exist
		if err := config.LoadConfig(); err != nil {
			return err
		}

		// Update flag values from Viper (respects config file and env vars)
		useTUI = config.GetUseTUI()
		logLevel = config.GetLogLevel()

		// Handle disabled logging first
		if logLevel == "disabled" {
			// Disable all logging
			log.SetOutput(io.Discard)
			return nil
		}

		// Configure log level from flag
		var level log.Level
		switch logLevel {
		case "debug":
			level = log.DebugLevel
		case "info":
			level = log.InfoLevel
		case "warn":
			level = log.WarnLevel
		case "error":
			level = log.ErrorLevel
		default:
			level = log.DebugLevel // Default to debug
		}

		// Always log to file in JSON format
		logFile := filepath.Join(config.GlobalPaths.DataDir, "debug.log")
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		// Create file logger with JSON formatting and set as default
		log.SetDefault(log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "2006-01-02T15:04:05.000Z07:00",
			Level:           level,
			ReportCaller:    true,
			Formatter:       log.JSONFormatter,
		}))

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Print error with styling
		theme := config.CurrentTheme
		errorStyle := theme.ErrorStyle()
		fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), err.Error())
		os.Exit(1)
	}
}

func init() {
	// Configure logging - will be redirected to file in PersistentPreRunE
	log.SetReportTimestamp(false)
	log.SetLevel(log.InfoLevel)

	// Initialize Viper configuration
	config.InitViper()

	// Enables the --version flag alongside the version subcommand
	rootCmd.Version = Version

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "debug", "Log level: disabled, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "use-tui", true, "Enable terminal UI mode")

	// Bind flags to Viper for config file and environment variable support
	config.BindFlags(rootCmd.PersistentFlags())

	// Add subcommands using factory functions
	rootCmd.AddCommand(configCmd.NewConfigCmd())
	rootCmd.AddCommand(generate.NewGenerateCmd())
	rootCmd.AddCommand(setup.NewSetupCmd())
	rootCmd.AddCommand(update.NewUpdateCmd(Version, DisableUpdate))
	rootCmd.AddCommand(validate.NewValidateCmd())
	rootCmd.AddCommand(version.NewVersionCmd(Version))

	// Set custom help, usage, and error functions
	rootCmd.SetHelpFunc(styledHelpFunc)
	rootCmd.SetUsageFunc(styledUsageFunc)
	rootCmd.SilenceUsage = true  // Don't show usage on errors
	rootCmd.SilenceErrors = true // We'll handle error printing ourselves

	// Disable default completion and provide custom one (no powershell)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	initCompletionCmd()
}

// initCompletionCmd creates a custom completion command for Unix shells only.
// This mirrors Cobra's default implementation from completions.go but excludes PowerShell.
func initCompletionCmd() {
	completionCmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate the autocompletion script for the specified shell",
		Long: fmt.Sprintf(`Generate the autocompletion script for %s for the specified shell.
See each sub-command's help for details on how to use the generated script.
`, rootCmd.Name()),
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
	}

	// Flags for shell-specific options
	noDesc := rootCmd.CompletionOptions.DisableDescriptions
	haveNoDescFlag := !rootCmd.CompletionOptions.DisableNoDescFlag && !rootCmd.CompletionOptions.DisableDescriptions
	shortDesc := "Generate the autocompletion script for %s"

	// Bash completion (copied from Cobra's default)
	bash := &cobra.Command{
		Use:   "bash",
		Short: fmt.Sprintf(shortDesc, "bash"),
		Long: fmt.Sprintf(`Generate the autocompletion script for the bash shell.

This script depends on the 'bash-completion' package.
If it is not installed already, you can install it via your OS's package manager.

To load completions in your current shell session:

	source <(%[1]s completion bash)

To load completions for every new session, execute once:

	%[1]s completion bash > /etc/bash_completion.d/%[1]s

You will need to start a new shell for this setup to take effect.
`, rootCmd.Name()),
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		ValidArgsFunction:     cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletionV2(os.Stdout, !noDesc)
		},
	}
	if haveNoDescFlag {
		bash.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	}

	// Zsh completion (copied from Cobra's default)
	zsh := &cobra.Command{
		Use:   "zsh",
		Short: fmt.Sprintf(shortDesc, "zsh"),
		Long: fmt.Sprintf(`Generate the autocompletion script for the zsh shell.

If shell completion is not already enabled in your environment you will need
to enable it.  You can execute the following once:

	echo "autoload -U compinit; compinit" >> ~/.zshrc

To load completions in your current shell session:

	source <(%[1]s completion zsh)

To load completions for every new session, execute once:

	%[1]s completion zsh > "${fpath[1]}/_%[1]s"

You will need to start a new shell for this setup to take effect.
`, rootCmd.Name()),
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noDesc {
				return cmd.Root().GenZshCompletionNoDesc(os.Stdout)
			}
			return cmd.Root().GenZshCompletion(os.Stdout)
		},
	}
	if haveNoDescFlag {
		zsh.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	}

	// Fish completion (copied from Cobra's default)
	fish := &cobra.Command{
		Use:   "fish",
		Short: fmt.Sprintf(shortDesc, "fish"),
		Long: fmt.Sprintf(`Generate the autocompletion script for the fish shell.

To load completions in your current shell session:

	%[1]s completion fish | source

To load completions for every new session, execute once:

	%[1]s completion fish > ~/.config/fish/completions/%[1]s.fish

You will need to start a new shell for this setup to take effect.
`, rootCmd.Name()),
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(os.Stdout, !noDesc)
		},
	}
	if haveNoDescFlag {
		fish.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	}

	completionCmd.AddCommand(bash, zsh, fish)
	rootCmd.AddCommand(completionCmd)
}

// styledHelpFunc renders help output as markdown through glamour
func styledHelpFunc(cmd *cobra.Command, args []string) {
	markdown := generateHelpMarkdown(cmd)
	renderMarkdown(markdown)
}

// styledUsageFunc renders usage output as markdown through glamour
func styledUsageFunc(cmd *cobra.Command) error {
	markdown := generateUsageMarkdown(cmd)
	renderMarkdown(markdown)
	return nil
}

// generateHelpMarkdown creates markdown for the help output
func generateHelpMarkdown(cmd *cobra.Command) string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s\n\n", cmd.Name())
	if cmd.Long != "" {
		fmt.Fprintf(&md, "%s\n\n", cmd.Long)
	} else if cmd.Short != "" {
		fmt.Fprintf(&md, "%s\n\n", cmd.Short)
	}

	if cmd.Runnable() {
		md.WriteString("## Usage\n\n")
		fmt.Fprintf(&md, "```\n%s\n```\n\n", cmd.UseLine())
	}

	if len(cmd.Aliases) > 0 {
		md.WriteString("## Aliases\n\n")
		fmt.Fprintf(&md, "`%s`\n\n", strings.Join(cmd.Aliases, "`, `"))
	}

	writeCommandSections(&md, cmd, "##")

	if hasHelpSubCommands(cmd) {
		md.WriteString("## Additional Help Topics\n\n")
		for _, subCmd := range cmd.Commands() {
			if subCmd.IsAdditionalHelpTopicCommand() {
				fmt.Fprintf(&md, "- **%s** - %s\n", subCmd.CommandPath(), subCmd.Short)
			}
		}
		md.WriteString("\n")
	}

	fmt.Fprintf(&md, "Use `%s [command] --help` for more information about a command.\n", cmd.CommandPath())

	return md.String()
}

// generateUsageMarkdown creates markdown for the usage output
func generateUsageMarkdown(cmd *cobra.Command) string {
	var md strings.Builder

	md.WriteString("## Usage\n\n")
	if cmd.Runnable() {
		fmt.Fprintf(&md, "```\n%s\n```\n\n", cmd.UseLine())
	}

	writeCommandSections(&md, cmd, "###")

	return md.String()
}

// writeCommandSections emits the subcommand list and flag sections
// shared by help and usage output, at the given heading level
func writeCommandSections(md *strings.Builder, cmd *cobra.Command, heading string) {
	if hasSubCommands(cmd) {
		fmt.Fprintf(md, "%s Available Commands\n\n", heading)
		for _, subCmd := range cmd.Commands() {
			if !subCmd.IsAvailableCommand() || subCmd.IsAdditionalHelpTopicCommand() {
				continue
			}
			fmt.Fprintf(md, "- **%s** - %s\n", subCmd.Name(), subCmd.Short)
		}
		md.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() {
		fmt.Fprintf(md, "%s Flags\n\n", heading)
		fmt.Fprintf(md, "```\n%s\n```\n\n", cmd.LocalFlags().FlagUsages())
	}

	if cmd.HasAvailableInheritedFlags() {
		fmt.Fprintf(md, "%s Global Flags\n\n", heading)
		fmt.Fprintf(md, "```\n%s\n```\n\n", cmd.InheritedFlags().FlagUsages())
	}
}

// renderMarkdown prints markdown through glamour, wrapped to the
// terminal width. Any rendering failure falls back to the raw text.
func renderMarkdown(markdown string) {
	width := 100
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		fmt.Println(markdown)
		return
	}

	rendered, err := r.Render(markdown)
	if err != nil {
		fmt.Println(markdown)
		return
	}

	fmt.Print(strings.TrimRight(rendered, " \n"))
	fmt.Println()
}

// hasSubCommands checks if command has available subcommands
func hasSubCommands(cmd *cobra.Command) bool {
	for _, subCmd := range cmd.Commands() {
		if subCmd.IsAvailableCommand() && !subCmd.IsAdditionalHelpTopicCommand() {
			return true
		}
	}
	return false
}

// hasHelpSubCommands checks if command has help subcommands
func hasHelpSubCommands(cmd *cobra.Command) bool {
	for _, subCmd := range cmd.Commands() {
		if subCmd.IsAdditionalHelpTopicCommand() {
			return true
		}
	}
	return false
}

// GetRootCommand returns the root command for external use (e.g., man page generation)
func GetRootCommand() *cobra.Command {
	return rootCmd
}
