// SPDX-License-Identifier: Apache-2.0
package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CLAV88/office-addin/pkg/catalog"
	"github.com/CLAV88/office-addin/pkg/certs"
	"github.com/CLAV88/office-addin/pkg/errdefs"
	"github.com/CLAV88/office-addin/pkg/shell"
)

type fakeShell struct {
	results map[string]shell.Result
	errs    map[string]error
	calls   []string
}

func (f *fakeShell) Run(ctx context.Context, name string, args ...string) (shell.Result, error) {
	f.calls = append(f.calls, name)
	return f.results[name], f.errs[name]
}

type fakeTrust struct {
	notes  []string
	called int
}

func (f *fakeTrust) Register(ctx context.Context, certPath string) []string {
	f.called++
	return f.notes
}

func happyShell() *fakeShell {
	return &fakeShell{results: map[string]shell.Result{
		"whoami":   {Stdout: "dev\n"},
		"hostname": {Stdout: "desktop\n"},
		"net":      {Stdout: "shared successfully\n"},
	}}
}

// newTestPipeline wires a pipeline against temp dirs and fakes, with one
// real manifest present unless withManifest is false.
func newTestPipeline(t *testing.T, cfg Config, sh *fakeShell, trust *fakeTrust) *Pipeline {
	t.Helper()
	if cfg.CatalogDir == "" {
		cfg.CatalogDir = filepath.Join(t.TempDir(), ".addin-catalog")
	}
	if cfg.ShareName == "" {
		cfg.ShareName = catalog.DefaultShareName
	}
	return &Pipeline{
		Config: cfg,
		Catalog: &catalog.Manager{
			Dir:       cfg.CatalogDir,
			ShareName: cfg.ShareName,
			Shell:     sh,
			GOOS:      "windows",
		},
		Trust: trust,
		Out:   &bytes.Buffer{},
	}
}

func writeManifest(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.xml")
	if err := os.WriteFile(path, []byte("<OfficeApp/>"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_NoCertificatesSkipsProvisioning(t *testing.T) {
	certDir := filepath.Join(t.TempDir(), "certificates")
	trust := &fakeTrust{}
	p := newTestPipeline(t, Config{
		SkipCertificates: true,
		CertificatesDir:  certDir,
		ManifestPaths:    []string{writeManifest(t)},
	}, happyShell(), trust)

	notes, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("Run() notes = %v, want none", notes)
	}
	if trust.called != 0 {
		t.Error("trust registration must never run when certificates are skipped")
	}
	if _, err := os.Stat(certDir); !os.IsNotExist(err) {
		t.Error("no certificates folder should be created when skipped")
	}

	names := p.StageNames()
	for _, name := range names {
		if name == "Provision certificates" {
			t.Error("certificate stage should not be configured when skipped")
		}
	}

	// Catalog side effects still happen
	if _, err := os.Lstat(filepath.Join(p.Config.CatalogDir, "manifest.xml")); err != nil {
		t.Errorf("manifest not linked: %v", err)
	}
}

func TestRun_ProvisionsCertificatesAndRegistersTrust(t *testing.T) {
	certDir := filepath.Join(t.TempDir(), "certificates")
	trust := &fakeTrust{}
	p := newTestPipeline(t, Config{
		CertificatesDir: certDir,
		CertificateDays: 365,
		ServerKeyBits:   certs.DefaultKeyBits,
		ManifestPaths:   []string{writeManifest(t)},
	}, happyShell(), trust)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	for _, name := range certs.ArtifactFiles {
		info, err := os.Stat(filepath.Join(certDir, name))
		if err != nil {
			t.Fatalf("artifact %s not written: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("artifact %s is empty", name)
		}
	}
	if trust.called != 1 {
		t.Errorf("trust registration called %d times, want 1", trust.called)
	}
}

func TestRun_CustomCertificatesFolder(t *testing.T) {
	certDir := filepath.Join(t.TempDir(), "custom-certs")
	p := newTestPipeline(t, Config{
		CertificatesDir: certDir,
		CertificateDays: 365,
		ServerKeyBits:   certs.DefaultKeyBits,
		ManifestPaths:   []string{writeManifest(t)},
	}, happyShell(), &fakeTrust{})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(certDir, "ca.crt")); err != nil {
		t.Errorf("certificates not written under custom folder: %v", err)
	}
}

func TestRun_AlreadySharedProceedsToLinking(t *testing.T) {
	sh := happyShell()
	sh.results["net"] = shell.Result{Stderr: "The name has already been shared.\n"}
	sh.errs = map[string]error{"net": errdefs.New(errdefs.KindShell, "run net", "exit status 2")}

	p := newTestPipeline(t, Config{
		SkipCertificates: true,
		ManifestPaths:    []string{writeManifest(t)},
	}, sh, &fakeTrust{})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want already-shared tolerated", err)
	}
	if _, err := os.Lstat(filepath.Join(p.Config.CatalogDir, "manifest.xml")); err != nil {
		t.Errorf("pipeline should proceed to manifest linking: %v", err)
	}
}

func TestRun_ShareFailureAbortsBeforeLinking(t *testing.T) {
	sh := happyShell()
	sh.results["net"] = shell.Result{Stderr: "System error 5 has occurred.\n"}
	sh.errs = map[string]error{"net": errdefs.New(errdefs.KindShell, "run net", "exit status 2")}

	p := newTestPipeline(t, Config{
		SkipCertificates: true,
		ManifestPaths:    []string{writeManifest(t)},
	}, sh, &fakeTrust{})

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should abort on a share failure")
	}
	if _, err := os.Lstat(filepath.Join(p.Config.CatalogDir, "manifest.xml")); err == nil {
		t.Error("linking must not run after a failed stage")
	}
}

func TestRun_TrustFallbackFlushesOneBlock(t *testing.T) {
	trust := &fakeTrust{notes: []string{"Double-click ca.crt and walk the import wizard."}}
	p := newTestPipeline(t, Config{
		CertificatesDir: filepath.Join(t.TempDir(), "certificates"),
		CertificateDays: 365,
		ServerKeyBits:   certs.DefaultKeyBits,
		ManifestPaths:   []string{writeManifest(t)},
	}, happyShell(), trust)

	notes, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want trust fallback to stay non-fatal", err)
	}
	if len(notes) != 1 {
		t.Fatalf("Run() notes = %d, want exactly 1", len(notes))
	}

	out := p.Out.(*bytes.Buffer).String()
	if !strings.Contains(out, "Manual steps required") {
		t.Error("remediation summary should be printed at the end of the run")
	}
	if strings.Count(out, "import wizard") != 1 {
		t.Error("the fallback block should be printed exactly once")
	}
}

func TestRun_MissingManifestIsWarningNotFailure(t *testing.T) {
	p := newTestPipeline(t, Config{
		SkipCertificates: true,
		ManifestPaths:    []string{filepath.Join(t.TempDir(), "missing.xml")},
	}, happyShell(), &fakeTrust{})

	notes, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want missing manifest tolerated", err)
	}
	if len(notes) != 1 {
		t.Errorf("Run() notes = %d, want 1 warning", len(notes))
	}
}

func TestRun_StageStartedCallbackOrder(t *testing.T) {
	var seen []string
	p := newTestPipeline(t, Config{
		SkipCertificates: true,
		ManifestPaths:    []string{writeManifest(t)},
	}, happyShell(), &fakeTrust{})
	p.StageStarted = func(i, total int, name string) { seen = append(seen, name) }

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"Ensure add-in catalog", "Share catalog", "Link manifests"}
	if len(seen) != len(want) {
		t.Fatalf("stages = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("stage %d = %q, want %q", i, seen[i], want[i])
		}
	}
}
