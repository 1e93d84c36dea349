// SPDX-License-Identifier: Apache-2.0

// Package errdefs defines the error kinds surfaced by setup stages.
package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies a setup failure
type Kind string

const (
	// KindFilesystem covers directory creation, file writes, and symlink failures
	KindFilesystem Kind = "filesystem"
	// KindShell covers non-zero exits or unexpected output from shell invocations
	KindShell Kind = "shell"
	// KindCertificate covers certificate generation failures
	KindCertificate Kind = "certificate"
	// KindTimeout covers shell invocations that exceeded their deadline
	KindTimeout Kind = "timeout"
)

// Error wraps an underlying error with its kind and the operation that failed
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches a kind and operation to an existing error
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err (or anything it wraps) carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
