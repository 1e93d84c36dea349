// SPDX-License-Identifier: Apache-2.0
package errdefs

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestWrap_NilReturnsNil(t *testing.T) {
	if err := Wrap(KindFilesystem, "create catalog", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := os.ErrPermission
	err := Wrap(KindFilesystem, "create catalog", cause)

	if !errors.Is(err, os.ErrPermission) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if !IsKind(err, KindFilesystem) {
		t.Error("IsKind should report the filesystem kind")
	}
	if IsKind(err, KindShell) {
		t.Error("IsKind should not report a kind that was never attached")
	}
}

func TestIsKind_NestedWrapping(t *testing.T) {
	inner := Wrap(KindTimeout, "run net share", errors.New("deadline exceeded"))
	outer := fmt.Errorf("share catalog: %w", inner)

	if !IsKind(outer, KindTimeout) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
}

func TestError_MessageIncludesOp(t *testing.T) {
	err := New(KindShell, "run whoami", "exit status 1")
	want := "run whoami: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
