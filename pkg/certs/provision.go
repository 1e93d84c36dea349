// SPDX-License-Identifier: Apache-2.0
package certs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/errdefs"
)

// ArtifactFiles are the five files a completed provisioning run writes
var ArtifactFiles = []string{"ca.key", "ca.crt", "server.key", "server.crt", "server.csr"}

// ConfirmFunc asks the user a yes/no question. A nil ConfirmFunc means
// the run is non-interactive.
type ConfirmFunc func(prompt string) (bool, error)

// ProvisionOptions configures certificate provisioning
type ProvisionOptions struct {
	Dir              string
	Days             int
	KeyBits          int // server key size; the CA key uses the default size
	CACommonName     string
	ServerCommonName string
	Overwrite        bool        // regenerate over existing artifacts without asking
	Confirm          ConfirmFunc // prompt when artifacts already exist; nil skips instead
}

// Provision generates the CA and server certificate pair and writes the
// five artifact files into opts.Dir. It returns the path of the written
// CA certificate, any remediation notes, and whether files were written.
//
// Pre-existing artifacts are never silently overwritten: interactive runs
// ask, non-interactive runs skip with a note, --overwrite forces.
func Provision(opts ProvisionOptions) (caCertPath string, notes []string, written bool, err error) {
	if opts.CACommonName == "" {
		opts.CACommonName = CACommonName
	}
	if opts.ServerCommonName == "" {
		opts.ServerCommonName = ServerCommonName
	}
	if opts.KeyBits <= 0 {
		opts.KeyBits = ServerKeyBits
	}

	caCertPath = filepath.Join(opts.Dir, "ca.crt")

	if existing := existingArtifacts(opts.Dir); len(existing) > 0 && !opts.Overwrite {
		if opts.Confirm == nil {
			notes = append(notes, fmt.Sprintf(
				"Certificate files already exist in %s; generation skipped.\n"+
					"Re-run with --overwrite to regenerate them.", opts.Dir))
			return caCertPath, notes, false, nil
		}

		ok, err := opts.Confirm(fmt.Sprintf(
			"Certificate files already exist in %s. Overwrite them?", opts.Dir))
		if err != nil {
			return "", nil, false, err
		}
		if !ok {
			notes = append(notes, fmt.Sprintf(
				"Kept existing certificate files in %s.", opts.Dir))
			return caCertPath, notes, false, nil
		}
	}

	log.Debugf("Generating CA certificate (CN=%s)", opts.CACommonName)
	ca, err := Generate(Options{
		CommonName: opts.CACommonName,
		Days:       opts.Days,
		SelfSigned: true,
	})
	if err != nil {
		return "", nil, false, err
	}

	log.Debugf("Generating server certificate (CN=%s, %d-bit key)", opts.ServerCommonName, opts.KeyBits)
	server, err := Generate(Options{
		CommonName:    opts.ServerCommonName,
		Days:          opts.Days,
		KeyBits:       opts.KeyBits,
		SignerKeyPEM:  ca.ServiceKey,
		SignerCertPEM: ca.Certificate,
	})
	if err != nil {
		return "", nil, false, err
	}

	// Create-if-absent; an existing folder's unrelated content is left alone
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return "", nil, false, errdefs.Wrap(errdefs.KindFilesystem, "create certificates folder", err)
	}

	artifacts := map[string]string{
		"ca.key":     ca.ServiceKey,
		"ca.crt":     ca.Certificate,
		"server.key": server.ServiceKey,
		"server.crt": server.Certificate,
		"server.csr": server.CSR,
	}
	for _, name := range ArtifactFiles {
		path := filepath.Join(opts.Dir, name)
		if err := os.WriteFile(path, []byte(artifacts[name]), 0644); err != nil {
			return "", nil, false, errdefs.Wrap(errdefs.KindFilesystem, "write "+name, err)
		}
	}

	return caCertPath, notes, true, nil
}

func existingArtifacts(dir string) []string {
	var existing []string
	for _, name := range ArtifactFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			existing = append(existing, name)
		}
	}
	return existing
}
