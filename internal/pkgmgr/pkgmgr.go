// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr runs the package manager and the Go toolchain on behalf of
// the host project.
package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/zero-cli/zero/internal/issue"
)

// DefaultCommand is the package manager command line used when none is configured.
const DefaultCommand = "go get"

// ErrEmptyCommand is returned when a command line has no words.
var ErrEmptyCommand = errors.New("empty command line")

type (
	// Runner executes child processes synchronously in the project directory.
	Runner struct {
		// Command is the package manager command line, e.g. "go get".
		// The package name is appended as the last argument.
		Command string
		// Dir is the working directory of every child process.
		Dir    string
		Stdout io.Writer
		Stderr io.Writer
		Logger *log.Logger
		// Spinner shows a progress spinner on Stderr while a child runs.
		// Child output is buffered then, and replayed only on failure.
		Spinner bool
	}

	// ExternalProcessError reports a child process that did not exit cleanly.
	ExternalProcessError struct {
		Command  []string
		ExitCode int
		Err      error
	}
)

// Error implements error.
func (e *ExternalProcessError) Error() string {
	cmd := strings.Join(e.Command, " ")
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: exit status %d", cmd, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", cmd, e.Err)
}

// Unwrap returns the underlying exec error.
func (e *ExternalProcessError) Unwrap() error { return e.Err }

// Split breaks a shell-like command line into words. Quotes and escapes are
// honored; variables are not expanded.
func Split(line string) ([]string, error) {
	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	return fields, nil
}

// Require adds pkg to the host project through the package manager.
func (r *Runner) Require(ctx context.Context, pkg string) error {
	line := r.Command
	if strings.TrimSpace(line) == "" {
		line = DefaultCommand
	}
	argv, err := Split(line)
	if err != nil {
		return err
	}
	return r.run(ctx, "Requiring "+pkg, append(argv, pkg))
}

// Run executes argv as is.
func (r *Runner) Run(ctx context.Context, argv ...string) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}
	return r.run(ctx, "Running "+argv[0], argv)
}

func (r *Runner) run(ctx context.Context, title string, argv []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir

	var captured bytes.Buffer
	var s *spinner.Spinner
	if r.Spinner {
		cmd.Stdout = &captured
		cmd.Stderr = &captured
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(orDiscard(r.Stderr)))
		s.Suffix = " " + title + "..."
		s.Start()
	} else {
		cmd.Stdout = orDiscard(r.Stdout)
		cmd.Stderr = orDiscard(r.Stderr)
	}

	r.logger().Debug("running external command", "argv", argv, "dir", r.Dir)
	err := cmd.Run()

	if s != nil {
		s.Stop()
	}
	if err == nil {
		return nil
	}

	if s != nil {
		_, _ = orDiscard(r.Stderr).Write(captured.Bytes())
	}

	procErr := &ExternalProcessError{Command: argv, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		procErr.ExitCode = exitErr.ExitCode()
	}
	return issue.NewErrorContext().
		WithOperation("run external command").
		WithResource(argv[0]).
		WithSuggestion("Check the command output above").
		WithGuide(issue.ExternalProcessFailedId).
		Wrap(procErr).
		BuildError()
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
