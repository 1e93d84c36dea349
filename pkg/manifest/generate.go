// SPDX-License-Identifier: Apache-2.0

// Package manifest scaffolds and validates Office Add-in manifest XML.
package manifest

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/CLAV88/office-addin/pkg/errdefs"
)

// Hosts maps the CLI host names onto the manifest Host element values
var Hosts = map[string]string{
	"workbook":     "Workbook",
	"document":     "Document",
	"presentation": "Presentation",
	"mailbox":      "Mailbox",
}

// Types are the supported add-in kinds and their OfficeApp xsi:type values
var Types = map[string]string{
	"taskpane": "TaskPaneApp",
	"content":  "ContentApp",
	"mail":     "MailApp",
}

// GenerateOptions configures manifest scaffolding
type GenerateOptions struct {
	Name           string
	Provider       string
	Host           string // key into Hosts
	Type           string // key into Types
	SourceLocation string
	Output         string
	Force          bool
}

const manifestTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<OfficeApp xmlns="http://schemas.microsoft.com/office/appforoffice/1.1"
           xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
           xsi:type="{{.XSIType}}">
  <Id>{{.ID}}</Id>
  <Version>1.0.0.0</Version>
  <ProviderName>{{.Provider}}</ProviderName>
  <DefaultLocale>en-US</DefaultLocale>
  <DisplayName DefaultValue="{{.Name}}"/>
  <Description DefaultValue="{{.Name}} Office Add-in"/>
  <IconUrl DefaultValue="{{.SourceLocation}}/assets/icon-32.png"/>
  <Hosts>
    <Host Name="{{.HostName}}"/>
  </Hosts>
  <DefaultSettings>
    <SourceLocation DefaultValue="{{.SourceLocation}}/index.html"/>
  </DefaultSettings>
  <Permissions>ReadWriteDocument</Permissions>
</OfficeApp>
`

type templateData struct {
	ID             string
	Name           string
	Provider       string
	XSIType        string
	HostName       string
	SourceLocation string
}

// Generate writes a starter manifest to opts.Output. Each generated
// manifest receives a fresh UUID as its add-in Id.
func Generate(opts GenerateOptions) error {
	const op = "generate manifest"

	if opts.Name == "" {
		return errdefs.New(errdefs.KindFilesystem, op, "add-in name is required")
	}

	hostName, ok := Hosts[opts.Host]
	if !ok {
		return errdefs.New(errdefs.KindFilesystem, op,
			"unknown host %q (supported: %s)", opts.Host, strings.Join(keys(Hosts), ", "))
	}
	xsiType, ok := Types[opts.Type]
	if !ok {
		return errdefs.New(errdefs.KindFilesystem, op,
			"unknown add-in type %q (supported: %s)", opts.Type, strings.Join(keys(Types), ", "))
	}

	if opts.Provider == "" {
		opts.Provider = opts.Name
	}
	if opts.SourceLocation == "" {
		opts.SourceLocation = "https://localhost:3000"
	}
	if opts.Output == "" {
		opts.Output = "manifest.xml"
	}

	if _, err := os.Stat(opts.Output); err == nil && !opts.Force {
		return errdefs.New(errdefs.KindFilesystem, op,
			"%s already exists (use --force to overwrite)", opts.Output)
	}

	tmpl, err := template.New("manifest").Parse(manifestTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse manifest template: %w", err)
	}

	out, err := os.Create(opts.Output)
	if err != nil {
		return errdefs.Wrap(errdefs.KindFilesystem, op, err)
	}

	data := templateData{
		ID:             uuid.NewString(),
		Name:           opts.Name,
		Provider:       opts.Provider,
		XSIType:        xsiType,
		HostName:       hostName,
		SourceLocation: strings.TrimRight(opts.SourceLocation, "/"),
	}
	if err := tmpl.Execute(out, data); err != nil {
		out.Close()
		os.Remove(opts.Output)
		return fmt.Errorf("failed to render manifest: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(opts.Output)
		return errdefs.Wrap(errdefs.KindFilesystem, op, err)
	}

	log.Debugf("Generated manifest %s (id=%s)", opts.Output, data.ID)
	return nil
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
