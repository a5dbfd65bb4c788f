// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/internal/component"
	"github.com/zero-cli/zero/internal/pkgmgr"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

// InstallCommand is component:install. While it runs it is the
// InstallContext handed to the installer.
type InstallCommand struct {
	cmd        *cobra.Command
	container  *container.Container
	dispatcher *component.Dispatcher
	runner     *pkgmgr.Runner
	env        env
	out        io.Writer
}

var _ contracts.InstallContext = (*InstallCommand)(nil)

func newInstallCommand(c *container.Container) (*InstallCommand, error) {
	e, err := resolveEnv(c)
	if err != nil {
		return nil, err
	}
	dispatcher, err := container.Resolve[*component.Dispatcher](c, DispatcherKey)
	if err != nil {
		return nil, err
	}
	runner, err := container.Resolve[*pkgmgr.Runner](c, PackageManagerKey)
	if err != nil {
		return nil, err
	}

	ic := &InstallCommand{container: c, dispatcher: dispatcher, runner: runner, env: e}
	ic.cmd = &cobra.Command{
		Use:   "component:install [name]",
		Short: "Install a component",
		Long: `Install a component into the project.

The name has the form vendor/package. Without a name the available
components are offered for selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return ic.run(cmd.Context(), cmd.OutOrStdout(), id)
		},
	}
	return ic, nil
}

// Cobra implements contracts.Command.
func (ic *InstallCommand) Cobra() *cobra.Command { return ic.cmd }

func (ic *InstallCommand) run(ctx context.Context, out io.Writer, id string) error {
	ic.out = out
	fmt.Fprintln(out, alert("Installing a new component..."))

	if id == "" {
		chosen, err := ic.dispatcher.Choose()
		if err != nil {
			return err
		}
		id = chosen
	}

	installed, err := ic.dispatcher.Install(ctx, id, ic)
	if err != nil {
		return err
	}
	if installed {
		fmt.Fprintf(out, "The component %s installation: %s\n", id, successStyle.Render(checkMark))
	}
	return nil
}

// Stdout implements contracts.InstallContext.
func (ic *InstallCommand) Stdout() io.Writer {
	if ic.out == nil {
		return io.Discard
	}
	return ic.out
}

// Container implements contracts.InstallContext.
func (ic *InstallCommand) Container() *container.Container { return ic.container }

// Config implements contracts.InstallContext.
func (ic *InstallCommand) Config() contracts.Config { return ic.env.config }

// Logger implements contracts.InstallContext.
func (ic *InstallCommand) Logger() *log.Logger { return ic.env.logger }

// BasePath implements contracts.InstallContext.
func (ic *InstallCommand) BasePath() string { return ic.env.basePath }

// Require implements contracts.InstallContext.
func (ic *InstallCommand) Require(ctx context.Context, pkg string) error {
	fmt.Fprintf(ic.Stdout(), "Pulling %s...\n", valueStyle.Render(pkg))
	return ic.runner.Require(ctx, pkg)
}
