// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/internal/testutil"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want []string
	}{
		{"go get", []string{"go", "get"}},
		{`go get -tags "a b"`, []string{"go", "get", "-tags", "a b"}},
		{`  sh  -c 'echo $HOME' `, []string{"sh", "-c", "echo $HOME"}},
	}
	for _, tt := range tests {
		got, err := Split(tt.line)
		if err != nil {
			t.Fatalf("Split(%q) error: %v", tt.line, err)
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}

	if _, err := Split("   "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Split(blank) error = %v, want ErrEmptyCommand", err)
	}
}

func TestRequire_AppendsPackage(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	var out bytes.Buffer
	r := &Runner{Command: `sh -c 'echo "$0"'`, Dir: t.TempDir(), Stdout: &out}

	if err := r.Require(context.Background(), "example.com/widget"); err != nil {
		t.Fatalf("Require() error: %v", err)
	}
	if got := out.String(); got != "example.com/widget\n" {
		t.Errorf("output = %q, want package name", got)
	}
}

func TestRun_InDirectory(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	dir := t.TempDir()
	r := &Runner{Dir: dir}
	if err := r.Run(context.Background(), "sh", "-c", "echo built > out.txt"); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := testutil.MustReadFile(t, filepath.Join(dir, "out.txt")); got != "built\n" {
		t.Errorf("out.txt = %q", got)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	skipWithoutShell(t)
	t.Parallel()

	var stderr bytes.Buffer
	r := &Runner{Dir: t.TempDir(), Stderr: &stderr, Spinner: true}
	err := r.Run(context.Background(), "sh", "-c", "echo nope >&2; exit 3")

	var procErr *ExternalProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Run() error = %v, want ExternalProcessError", err)
	}
	if procErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", procErr.ExitCode)
	}
	if !bytes.Contains(stderr.Bytes(), []byte("nope")) {
		t.Errorf("captured output was not replayed: %q", stderr.String())
	}
	if guide := issue.GuideFor(err); guide == nil || guide.Id() != issue.ExternalProcessFailedId {
		t.Errorf("GuideFor() = %v, want ExternalProcessFailedId", guide)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	t.Parallel()

	r := &Runner{Dir: t.TempDir()}
	err := r.Run(context.Background(), "zero-definitely-not-installed")

	var procErr *ExternalProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("Run() error = %v, want ExternalProcessError", err)
	}
	if procErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", procErr.ExitCode)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&Runner{}).Run(ctx, "sh", "-c", "true")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()

	if err := (&Runner{}).Run(context.Background()); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Run() error = %v, want ErrEmptyCommand", err)
	}
}
