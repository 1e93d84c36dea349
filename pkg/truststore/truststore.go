// SPDX-License-Identifier: Apache-2.0

// Package truststore registers a CA certificate with the operating
// system trust store, falling back to manual instructions when the
// automatic path is unavailable.
package truststore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/shell"
)

const (
	certmgrExecutable = "certmgr.exe"

	// linuxCertDestDir is where update-ca-certificates picks up local CAs
	linuxCertDestDir = "/usr/local/share/ca-certificates"
	linuxCertName    = "office-addin-ca.crt"

	darwinSystemKeychain = "/Library/Keychains/System.keychain"
)

// Store attempts CA registration against the host trust store
type Store struct {
	GOOS  string
	Shell shell.Runner

	// WindowsSearchRoots are the directory trees searched for certmgr.exe
	WindowsSearchRoots []string
	// LinuxCertDestDir overrides the CA drop directory (tests)
	LinuxCertDestDir string
}

// New returns a Store for the running platform
func New(runner shell.Runner) *Store {
	return &Store{
		GOOS:               runtime.GOOS,
		Shell:              runner,
		WindowsSearchRoots: windowsDefaultSearchRoots(),
		LinuxCertDestDir:   linuxCertDestDir,
	}
}

// Register tries to install the CA certificate and degrades to a manual
// instructions note when it cannot. It never fails: the returned notes
// are the only signal, with exactly one block appended per fallback.
func (s *Store) Register(ctx context.Context, certPath string) []string {
	if err := s.install(ctx, certPath); err != nil {
		log.Debugf("Automatic CA trust registration failed: %v", err)
		return []string{s.manualInstructions(certPath)}
	}

	log.Debugf("CA certificate registered as trusted: %s", certPath)
	return nil
}

func (s *Store) install(ctx context.Context, certPath string) error {
	switch s.GOOS {
	case "windows":
		return s.installWindows(ctx, certPath)
	case "darwin":
		_, err := s.Shell.Run(ctx, "security", "add-trusted-cert",
			"-d", "-r", "trustRoot", "-k", darwinSystemKeychain, certPath)
		return err
	case "linux":
		return s.installLinux(ctx, certPath)
	default:
		return fmt.Errorf("no automatic trust mechanism on %s", s.GOOS)
	}
}

// installWindows imports via certmgr.exe when a Windows SDK install
// carries one, then falls back to the builtin certutil.
func (s *Store) installWindows(ctx context.Context, certPath string) error {
	if certmgr := s.findCertmgr(); certmgr != "" {
		_, err := s.Shell.Run(ctx, certmgr, "/add", certPath, "/s", "/r", "localMachine", "root")
		if err == nil {
			return nil
		}
		log.Debugf("certmgr.exe import failed, trying certutil: %v", err)
	}

	_, err := s.Shell.Run(ctx, "certutil", "-addstore", "Root", certPath)
	return err
}

func (s *Store) installLinux(ctx context.Context, certPath string) error {
	data, err := os.ReadFile(certPath)
	if err != nil {
		return err
	}

	dest := filepath.Join(s.LinuxCertDestDir, linuxCertName)
	// Usually requires root; a permission error lands in the fallback path
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return err
	}

	_, err = s.Shell.Run(ctx, "update-ca-certificates")
	return err
}

// findCertmgr walks the configured search roots for certmgr.exe and
// returns the first hit, or "" when none is installed.
func (s *Store) findCertmgr() string {
	for _, root := range s.WindowsSearchRoots {
		var found string
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() && d.Name() == certmgrExecutable {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func windowsDefaultSearchRoots() []string {
	var roots []string
	for _, env := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
		if dir := os.Getenv(env); dir != "" {
			roots = append(roots, filepath.Join(dir, "Windows Kits"))
			roots = append(roots, filepath.Join(dir, "Microsoft SDKs"))
		}
	}
	return roots
}

func (s *Store) manualInstructions(certPath string) string {
	switch s.GOOS {
	case "windows":
		return fmt.Sprintf(
			"Could not register the CA certificate automatically.\n"+
				"Trust it manually so HTTPS works in Office:\n"+
				"  1. Open the folder containing %s\n"+
				"  2. Double-click ca.crt and choose 'Install Certificate...'\n"+
				"  3. Select 'Local Machine', then 'Place all certificates in the following store'\n"+
				"  4. Browse to 'Trusted Root Certification Authorities' and finish the wizard", certPath)
	case "darwin":
		return fmt.Sprintf(
			"Could not register the CA certificate automatically.\n"+
				"Trust it manually so HTTPS works in Office:\n"+
				"  1. Double-click %s to open it in Keychain Access\n"+
				"  2. Add it to the System keychain\n"+
				"  3. Open the certificate, expand 'Trust', and set 'Always Trust'", certPath)
	default:
		return fmt.Sprintf(
			"Could not register the CA certificate automatically.\n"+
				"Trust it manually so HTTPS works in Office:\n"+
				"  sudo cp %s %s/%s\n"+
				"  sudo update-ca-certificates", certPath, linuxCertDestDir, linuxCertName)
	}
}
