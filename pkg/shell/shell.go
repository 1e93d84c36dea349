// SPDX-License-Identifier: Apache-2.0

// Package shell runs external commands with a bounded timeout.
package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/CLAV88/office-addin/pkg/errdefs"
)

// DefaultTimeout bounds every shell invocation; a hung command fails
// instead of blocking the whole run.
const DefaultTimeout = 30 * time.Second

// Result holds the captured output of a completed command
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout and stderr joined, for substring checks on
// commands that report conditions on either stream.
func (r Result) Output() string {
	return r.Stdout + r.Stderr
}

// Runner executes a command and returns its captured output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

type execRunner struct {
	timeout time.Duration
}

// New returns a Runner with the default timeout
func New() Runner {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout returns a Runner whose commands are killed past d
func NewWithTimeout(d time.Duration) Runner {
	return &execRunner{timeout: d}
}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	log.Debugf("Running command: %s %s", name, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		op := "run " + name
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return result, errdefs.New(errdefs.KindTimeout, op,
				"command did not finish within %s", r.timeout)
		}
		return result, errdefs.Wrap(errdefs.KindShell, op, err)
	}

	return result, nil
}
