// SPDX-License-Identifier: Apache-2.0

// Package setup orchestrates the developer-machine setup pipeline:
// catalog creation, catalog sharing, manifest linking, and certificate
// provisioning with CA trust registration.
package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/catalog"
	"github.com/CLAV88/office-addin/pkg/certs"
	"github.com/CLAV88/office-addin/pkg/config"
	"github.com/CLAV88/office-addin/pkg/shell"
	"github.com/CLAV88/office-addin/pkg/truststore"
)

// Config is the resolved setup configuration. Built once from flags and
// config keys, immutable for the duration of the run.
type Config struct {
	CatalogDir    string
	ShareName     string
	ManifestPaths []string

	SkipCertificates bool
	CertificatesDir  string
	CertificateDays  int
	ServerKeyBits    int
	CACommonName     string
	ServerCommonName string
	Overwrite        bool
}

// TrustRegistrar registers a CA certificate, degrading to notes
type TrustRegistrar interface {
	Register(ctx context.Context, certPath string) []string
}

// Stage is one ordered step of the pipeline. Run returns remediation
// notes for the final summary; a non-nil error aborts the whole run.
type Stage struct {
	Name string
	Run  func(ctx context.Context) ([]string, error)
}

// Pipeline runs the setup stages strictly in order, short-circuiting on
// the first error and flushing accumulated notes exactly once at the end.
type Pipeline struct {
	Config  Config
	Catalog *catalog.Manager
	Trust   TrustRegistrar
	Confirm certs.ConfirmFunc
	Out     io.Writer

	// StageStarted, when set, is invoked before each stage runs
	StageStarted func(index, total int, name string)
	// Quiet suppresses step headers and the note summary (the TUI
	// renders its own)
	Quiet bool
}

// New wires a Pipeline against the real host: exec-backed shell,
// platform catalog manager, platform trust store.
func New(cfg Config) *Pipeline {
	runner := shell.New()
	return &Pipeline{
		Config:  cfg,
		Catalog: catalog.NewManager(cfg.CatalogDir, cfg.ShareName, runner),
		Trust:   truststore.New(runner),
		Out:     os.Stdout,
	}
}

// Stages returns the ordered stage list for the current configuration
func (p *Pipeline) Stages() []Stage {
	stages := []Stage{
		{Name: "Ensure add-in catalog", Run: func(ctx context.Context) ([]string, error) {
			return nil, p.Catalog.Ensure()
		}},
		{Name: "Share catalog", Run: p.Catalog.Share},
		{Name: "Link manifests", Run: func(ctx context.Context) ([]string, error) {
			return p.Catalog.Link(p.Config.ManifestPaths)
		}},
	}

	if !p.Config.SkipCertificates {
		stages = append(stages, Stage{Name: "Provision certificates", Run: p.provisionCertificates})
	}

	return stages
}

// StageNames returns the display names of the configured stages
func (p *Pipeline) StageNames() []string {
	stages := p.Stages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name
	}
	return names
}

// Run executes the pipeline. Unless Quiet is set the notes are also
// flushed to p.Out; they are returned for callers rendering their own
// summary.
func (p *Pipeline) Run(ctx context.Context) ([]string, error) {
	theme := config.CurrentTheme
	stages := p.Stages()

	var notes []string
	for i, stage := range stages {
		if p.StageStarted != nil {
			p.StageStarted(i, len(stages), stage.Name)
		}
		if !p.Quiet {
			fmt.Fprintf(p.Out, "%s %s %s\n",
				theme.ActiveIndicator(),
				theme.InfoStyle().Render(fmt.Sprintf("[%d/%d]", i+1, len(stages))),
				stage.Name)
		}

		stageNotes, err := stage.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name, err)
		}
		notes = append(notes, stageNotes...)

		log.Debugf("Stage complete: %s (%d notes)", stage.Name, len(stageNotes))
	}

	if !p.Quiet {
		p.flushNotes(notes)
	}
	return notes, nil
}

// provisionCertificates generates the CA and server pair, then hands the
// CA certificate to trust registration. Registration never fails; its
// fallback instructions join the remediation notes.
func (p *Pipeline) provisionCertificates(ctx context.Context) ([]string, error) {
	caCertPath, notes, written, err := certs.Provision(certs.ProvisionOptions{
		Dir:              p.Config.CertificatesDir,
		Days:             p.Config.CertificateDays,
		KeyBits:          p.Config.ServerKeyBits,
		CACommonName:     p.Config.CACommonName,
		ServerCommonName: p.Config.ServerCommonName,
		Overwrite:        p.Config.Overwrite,
		Confirm:          p.Confirm,
	})
	if err != nil {
		return nil, err
	}
	if !written {
		return notes, nil
	}

	notes = append(notes, p.Trust.Register(ctx, caCertPath)...)
	return notes, nil
}

// flushNotes prints the accumulated remediation steps once, in append
// order, highlighted so they stand out from the step output.
func (p *Pipeline) flushNotes(notes []string) {
	if len(notes) == 0 {
		return
	}

	theme := config.CurrentTheme
	headline := theme.WarningStyle().Bold(true)

	fmt.Fprintln(p.Out)
	fmt.Fprintln(p.Out, headline.Render("Manual steps required:"))
	for _, note := range notes {
		fmt.Fprintln(p.Out)
		fmt.Fprintln(p.Out, theme.WarningStyle().Render(note))
	}
}
