// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/catalog"
	"github.com/CLAV88/office-addin/pkg/certs"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/setup"
	"github.com/CLAV88/office-addin/pkg/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// bareCertificatesFlag marks -c given without a value; the configured
// certificates folder is substituted at run time
const bareCertificatesFlag = "default"

// NewSetupCmd creates the setup command
func NewSetupCmd() *cobra.Command {
	var (
		certificatesDir string
		manifests       []string
		overwrite       bool
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Prepare this machine for Office Add-in development",
		Long: `Prepare this machine for Office Add-in development.

Creates the shared add-in catalog folder, shares it over the network on
Windows, and links the project's manifest files into it. With
--certificates, also generates a local CA and a localhost server
certificate, and registers the CA with the system trust store.

Examples:
  office-addin setup
  office-addin setup --certificates
  office-addin setup -c .certs -m manifest.xml -m manifests/beta.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogDir, err := catalog.DefaultDir(config.GetCatalogFolderName())
			if err != nil {
				return err
			}

			if len(manifests) == 0 {
				manifests = config.GetManifests()
			}

			// Bare -c resolves through the configured folder name
			if certificatesDir == bareCertificatesFlag {
				certificatesDir = config.GetCertificatesFolder()
			}

			cfg := setup.Config{
				CatalogDir:    catalogDir,
				ShareName:     config.GetCatalogShareName(),
				ManifestPaths: manifests,

				SkipCertificates: !cmd.Flags().Changed("certificates"),
				CertificatesDir:  certificatesDir,
				CertificateDays:  config.GetCertificatesDays(),
				ServerKeyBits:    config.GetCertificatesKeySize(),
				CACommonName:     config.GetCACommonName(),
				ServerCommonName: config.GetServerCommonName(),
				Overwrite:        overwrite,
			}

			log.Debugf("Setup config: catalog=%s share=%s manifests=%v certs=%v",
				cfg.CatalogDir, cfg.ShareName, cfg.ManifestPaths, !cfg.SkipCertificates)

			pipeline := setup.New(cfg)

			interactive := config.GetUseTUI() && term.IsTerminal(int(os.Stdout.Fd()))
			if interactive {
				// The TUI owns the terminal, so existing certificates are
				// skipped with a note instead of prompting
				return ui.RunSetupProgress(cmd.Context(), pipeline)
			}

			pipeline.Confirm = promptConfirm(term.IsTerminal(int(os.Stdin.Fd())))
			notes, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			if len(notes) == 0 {
				theme := config.CurrentTheme
				fmt.Println(theme.SuccessMessage("Setup complete"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&certificatesDir, "certificates", "c", "", "Generate certificates into the given folder")
	cmd.Flags().Lookup("certificates").NoOptDefVal = bareCertificatesFlag
	cmd.Flags().StringArrayVarP(&manifests, "manifest", "m", nil, "Manifest file to link (repeatable, overrides config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Regenerate certificates even if they already exist")

	return cmd
}

// promptConfirm returns the interactive prompt when stdin is attached to
// a terminal. Without one the prompt cannot render, so a nil callback is
// returned and existing certificates are skipped with a note instead.
func promptConfirm(stdinIsTerminal bool) certs.ConfirmFunc {
	if !stdinIsTerminal {
		return nil
	}
	return ui.Confirm
}
