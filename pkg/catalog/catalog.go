// SPDX-License-Identifier: Apache-2.0

// Package catalog manages the shared folder Office browses to discover
// locally hosted add-in manifests.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/errdefs"
	"github.com/CLAV88/office-addin/pkg/shell"
)

// DefaultFolderName is the catalog directory created under the user's home
const DefaultFolderName = ".addin-catalog"

// DefaultShareName is the network share name used on Windows
const DefaultShareName = "OfficeAddins"

// Manager ensures the catalog folder exists, shares it where the
// platform supports sharing, and links manifests into it.
type Manager struct {
	Dir       string
	ShareName string
	Shell     shell.Runner
	GOOS      string
}

// NewManager builds a Manager for the running platform
func NewManager(dir, shareName string, runner shell.Runner) *Manager {
	return &Manager{
		Dir:       dir,
		ShareName: shareName,
		Shell:     runner,
		GOOS:      runtime.GOOS,
	}
}

// DefaultDir returns the catalog path under the user's home directory
func DefaultDir(folderName string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errdefs.Wrap(errdefs.KindFilesystem, "resolve home directory", err)
	}
	if folderName == "" {
		folderName = DefaultFolderName
	}
	return filepath.Join(home, folderName), nil
}

// Ensure creates the catalog directory if absent. Calling it against an
// existing directory is not an error.
func (m *Manager) Ensure() error {
	if info, err := os.Stat(m.Dir); err == nil {
		if !info.IsDir() {
			return errdefs.New(errdefs.KindFilesystem, "create catalog",
				"%s exists but is not a directory", m.Dir)
		}
		log.Debugf("Catalog directory already exists: %s", m.Dir)
		return nil
	}

	if err := os.MkdirAll(m.Dir, 0755); err != nil {
		return errdefs.Wrap(errdefs.KindFilesystem, "create catalog", err)
	}

	log.Debugf("Created catalog directory: %s", m.Dir)
	return nil
}

// Link places a symlink into the catalog for each manifest path, in
// order. Missing manifests produce a warning note instead of failing;
// stale links of the same name are replaced.
func (m *Manager) Link(manifests []string) ([]string, error) {
	var notes []string

	for _, manifest := range manifests {
		abs, err := filepath.Abs(manifest)
		if err != nil {
			return notes, errdefs.Wrap(errdefs.KindFilesystem, "resolve manifest path", err)
		}

		if _, err := os.Stat(abs); err != nil {
			notes = append(notes, fmt.Sprintf(
				"Manifest not found, skipped: %s\nCreate it with 'office-addin generate' and re-run setup.", abs))
			continue
		}

		linkPath := filepath.Join(m.Dir, filepath.Base(abs))

		// Replace a stale link of the same name
		if _, err := os.Lstat(linkPath); err == nil {
			if err := os.Remove(linkPath); err != nil {
				return notes, errdefs.Wrap(errdefs.KindFilesystem, "replace manifest link", err)
			}
		}

		if err := os.Symlink(abs, linkPath); err != nil {
			return notes, errdefs.Wrap(errdefs.KindFilesystem, "link manifest", err)
		}

		log.Debugf("Linked manifest: %s -> %s", linkPath, abs)
	}

	return notes, nil
}
