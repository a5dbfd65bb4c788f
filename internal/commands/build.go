// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/internal/pkgmgr"
	"github.com/zero-cli/zero/pkg/container"
)

// DefaultBuildDir is where app:build writes the binary.
const DefaultBuildDir = "builds"

// BuildCommand is app:build.
type BuildCommand struct {
	cmd    *cobra.Command
	runner *pkgmgr.Runner
	env    env
	output string
}

func newBuildCommand(c *container.Container) (*BuildCommand, error) {
	e, err := resolveEnv(c)
	if err != nil {
		return nil, err
	}
	runner, err := container.Resolve[*pkgmgr.Runner](c, PackageManagerKey)
	if err != nil {
		return nil, err
	}

	bc := &BuildCommand{runner: runner, env: e}
	bc.cmd = &cobra.Command{
		Use:   "app:build",
		Short: "Build a single binary of the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bc.run(cmd.Context(), cmd.OutOrStdout())
		},
	}
	bc.cmd.Flags().StringVarP(&bc.output, "output", "o", DefaultBuildDir, "directory to write the binary to")
	return bc, nil
}

// Cobra implements contracts.Command.
func (bc *BuildCommand) Cobra() *cobra.Command { return bc.cmd }

func (bc *BuildCommand) run(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, alert("Building the application..."))

	m, err := readManifest(bc.env.basePath)
	if err != nil {
		return err
	}

	target := filepath.Join(bc.output, m.binary())
	if err := bc.runner.Run(ctx, "go", "build", "-o", target, "."); err != nil {
		return err
	}

	fmt.Fprintf(out, "Application built into: %s %s\n", valueStyle.Render(target), successStyle.Render(checkMark))
	return nil
}
