// SPDX-License-Identifier: Apache-2.0
package truststore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CLAV88/office-addin/pkg/shell"
)

type fakeRunner struct {
	errs  map[string]error
	calls []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) (shell.Result, error) {
	f.calls = append(f.calls, strings.Join(append([]string{filepath.Base(name)}, args...), " "))
	return shell.Result{}, f.errs[filepath.Base(name)]
}

func writeCert(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.crt")
	if err := os.WriteFile(path, []byte("-----BEGIN CERTIFICATE-----\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRegister_WindowsCertmgrFound(t *testing.T) {
	sdkDir := filepath.Join(t.TempDir(), "Windows Kits", "10", "bin")
	if err := os.MkdirAll(sdkDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sdkDir, "certmgr.exe"), []byte{}, 0755); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	s := &Store{
		GOOS:               "windows",
		Shell:              runner,
		WindowsSearchRoots: []string{filepath.Dir(filepath.Dir(sdkDir))},
	}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 0 {
		t.Errorf("Register() notes = %v, want none on success", notes)
	}
	if len(runner.calls) != 1 || !strings.Contains(runner.calls[0], "certmgr.exe /add") {
		t.Errorf("calls = %v, want one certmgr.exe import", runner.calls)
	}
}

func TestRegister_WindowsFallsBackToCertutil(t *testing.T) {
	// No certmgr.exe anywhere under the search roots
	runner := &fakeRunner{}
	s := &Store{GOOS: "windows", Shell: runner, WindowsSearchRoots: []string{t.TempDir()}}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 0 {
		t.Errorf("Register() notes = %v, want none when certutil succeeds", notes)
	}
	if len(runner.calls) != 1 || !strings.HasPrefix(runner.calls[0], "certutil -addstore Root") {
		t.Errorf("calls = %v, want a certutil import", runner.calls)
	}
}

func TestRegister_WindowsFallbackNoteOnTotalFailure(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{"certutil": errors.New("exit status 1")}}
	s := &Store{GOOS: "windows", Shell: runner, WindowsSearchRoots: []string{t.TempDir()}}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 1 {
		t.Fatalf("Register() notes = %d, want exactly 1 fallback block", len(notes))
	}
	if !strings.Contains(notes[0], "Trusted Root Certification Authorities") {
		t.Errorf("fallback note should carry the import-wizard steps, got %q", notes[0])
	}
}

func TestRegister_DarwinUsesSecurity(t *testing.T) {
	runner := &fakeRunner{}
	s := &Store{GOOS: "darwin", Shell: runner}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 0 {
		t.Errorf("Register() notes = %v, want none", notes)
	}
	if len(runner.calls) != 1 || !strings.Contains(runner.calls[0], "add-trusted-cert") {
		t.Errorf("calls = %v, want security add-trusted-cert", runner.calls)
	}
}

func TestRegister_LinuxCopiesAndUpdates(t *testing.T) {
	destDir := t.TempDir()
	runner := &fakeRunner{}
	s := &Store{GOOS: "linux", Shell: runner, LinuxCertDestDir: destDir}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 0 {
		t.Errorf("Register() notes = %v, want none", notes)
	}
	if _, err := os.Stat(filepath.Join(destDir, linuxCertName)); err != nil {
		t.Errorf("CA certificate not copied into the trust directory: %v", err)
	}
	if len(runner.calls) != 1 || runner.calls[0] != "update-ca-certificates" {
		t.Errorf("calls = %v, want update-ca-certificates", runner.calls)
	}
}

func TestRegister_LinuxPermissionFailureFallsBack(t *testing.T) {
	s := &Store{
		GOOS:             "linux",
		Shell:            &fakeRunner{},
		LinuxCertDestDir: filepath.Join(t.TempDir(), "does", "not", "exist"),
	}

	notes := s.Register(context.Background(), writeCert(t))
	if len(notes) != 1 {
		t.Fatalf("Register() notes = %d, want exactly 1 fallback block", len(notes))
	}
	if !strings.Contains(notes[0], "update-ca-certificates") {
		t.Errorf("fallback note should carry the manual commands, got %q", notes[0])
	}
}

func TestRegister_NeverReturnsError(t *testing.T) {
	// Unknown platform: install cannot work, Register must still degrade
	s := &Store{GOOS: "plan9", Shell: &fakeRunner{}}

	notes := s.Register(context.Background(), "/tmp/ca.crt")
	if len(notes) != 1 {
		t.Errorf("Register() notes = %d, want 1", len(notes))
	}
}
