// SPDX-License-Identifier: Apache-2.0
package manifest

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// requiredElements must appear directly under OfficeApp
var requiredElements = []string{
	"Id",
	"Version",
	"ProviderName",
	"DefaultLocale",
	"DisplayName",
	"Description",
	"Hosts",
	"DefaultSettings",
	"Permissions",
}

// Report collects validation findings for one manifest
type Report struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the manifest passed without errors
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate parses and checks a manifest file. Findings land in the
// report; the error return is reserved for being unable to read the file.
func Validate(path string) (*Report, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return validateDocument(doc), nil
}

// ValidateBytes checks manifest XML held in memory
func ValidateBytes(data []byte) *Report {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		report := &Report{}
		report.errorf("not valid XML: %v", err)
		return report
	}
	return validateDocument(doc)
}

func validateDocument(doc *etree.Document) *Report {
	report := &Report{}

	root := doc.Root()
	if root == nil {
		report.errorf("not valid XML: no root element")
		return report
	}
	if root.Tag != "OfficeApp" {
		report.errorf("root element is <%s>, expected <OfficeApp>", root.Tag)
		return report
	}

	if attr := root.SelectAttr("xsi:type"); attr == nil || attr.Value == "" {
		report.errorf("missing xsi:type attribute on <OfficeApp>")
	}

	for _, name := range requiredElements {
		if root.SelectElement(name) == nil {
			report.errorf("missing required element <%s>", name)
		}
	}

	if id := root.SelectElement("Id"); id != nil {
		if _, err := uuid.Parse(strings.TrimSpace(id.Text())); err != nil {
			report.errorf("<Id> is not a valid UUID: %q", strings.TrimSpace(id.Text()))
		}
	}

	if hosts := root.SelectElement("Hosts"); hosts != nil {
		checkHosts(hosts, report)
	}

	if settings := root.SelectElement("DefaultSettings"); settings != nil {
		checkSourceLocation(settings, report)
	}

	if root.SelectElement("IconUrl") == nil {
		report.warnf("missing <IconUrl>; the add-in will show a default icon")
	}

	return report
}

func checkHosts(hosts *etree.Element, report *Report) {
	entries := hosts.SelectElements("Host")
	if len(entries) == 0 {
		report.errorf("<Hosts> contains no <Host> entries")
		return
	}

	known := make(map[string]bool, len(Hosts))
	for _, v := range Hosts {
		known[v] = true
	}
	for _, host := range entries {
		name := host.SelectAttrValue("Name", "")
		if name == "" {
			report.errorf("<Host> entry is missing its Name attribute")
		} else if !known[name] {
			report.warnf("unknown host name %q", name)
		}
	}
}

func checkSourceLocation(settings *etree.Element, report *Report) {
	loc := settings.SelectElement("SourceLocation")
	if loc == nil {
		report.errorf("missing required element <SourceLocation> under <DefaultSettings>")
		return
	}

	value := loc.SelectAttrValue("DefaultValue", "")
	if value == "" {
		report.errorf("<SourceLocation> is missing its DefaultValue attribute")
		return
	}
	if !strings.HasPrefix(value, "https://") {
		report.warnf("source location %q is not served over HTTPS; Office requires HTTPS outside localhost development", value)
	}
}
