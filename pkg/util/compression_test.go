// SPDX-License-Identifier: Apache-2.0
package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz"
)

func writeXZ(t *testing.T, path string, content []byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w, err := xz.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestDecompressXZ(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "payload.xz")
	dst := filepath.Join(dir, "payload")
	content := []byte("office-addin update payload")
	writeXZ(t, src, content)

	var last float64
	if err := DecompressXZ(src, dst, func(pct float64) { last = pct }); err != nil {
		t.Fatalf("DecompressXZ() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("decompressed content = %q, want %q", got, content)
	}
	if last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
}

func TestDecompressXZ_NilCallback(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "payload.xz")
	dst := filepath.Join(dir, "payload")
	writeXZ(t, src, []byte("x"))

	if err := DecompressXZ(src, dst, nil); err != nil {
		t.Fatalf("DecompressXZ() error = %v", err)
	}
}

func TestDecompressXZ_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := DecompressXZ(filepath.Join(dir, "absent.xz"), filepath.Join(dir, "out"), nil)
	if err == nil {
		t.Fatal("DecompressXZ() with missing source should fail")
	}
}
