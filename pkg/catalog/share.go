// SPDX-License-Identifier: Apache-2.0
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/errdefs"
)

// alreadySharedMarker is what `net share` reports when the share name is
// taken. That condition is success for our purposes: the catalog is shared.
const alreadySharedMarker = "has already been shared"

// Share makes the catalog reachable over the network where the platform
// supports it. On Windows this is three sequential shell round-trips:
// username lookup, hostname lookup, then the share command. Elsewhere
// there is no native mechanism and Share degrades to a remediation note.
func (m *Manager) Share(ctx context.Context) ([]string, error) {
	if m.GOOS != "windows" {
		return []string{fmt.Sprintf(
			"Network catalog sharing is only automated on Windows.\n"+
				"Register the folder manually instead:\n"+
				"  1. Open an Office application and go to File > Options > Trust Center > Trust Center Settings\n"+
				"  2. Select 'Trusted Add-in Catalogs'\n"+
				"  3. Add the catalog folder: %s\n"+
				"  4. Check 'Show in Menu' and restart Office", m.Dir)}, nil
	}

	user, err := m.currentUser(ctx)
	if err != nil {
		return nil, err
	}

	host, err := m.currentHost(ctx)
	if err != nil {
		return nil, err
	}

	shareArg := fmt.Sprintf("%s=%s", m.ShareName, m.Dir)
	grantArg := fmt.Sprintf("/grant:%s,FULL", user)

	result, err := m.Shell.Run(ctx, "net", "share", shareArg, grantArg)
	if err != nil {
		if strings.Contains(result.Output(), alreadySharedMarker) {
			log.Debugf("Catalog already shared as %s", m.ShareName)
			return nil, nil
		}
		return nil, err
	}

	log.Debugf("Shared catalog as \\\\%s\\%s", host, m.ShareName)
	return nil, nil
}

func (m *Manager) currentUser(ctx context.Context) (string, error) {
	result, err := m.Shell.Run(ctx, "whoami")
	if err != nil {
		return "", err
	}
	user := strings.TrimSpace(result.Stdout)
	if user == "" {
		return "", errdefs.New(errdefs.KindShell, "run whoami", "empty username")
	}
	return user, nil
}

func (m *Manager) currentHost(ctx context.Context) (string, error) {
	result, err := m.Shell.Run(ctx, "hostname")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
