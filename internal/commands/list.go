// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/internal/component"
	"github.com/zero-cli/zero/pkg/container"
)

// ListCommand is component:list.
type ListCommand struct {
	cmd      *cobra.Command
	finder   *component.Finder
	registry *component.Registry
}

func newListCommand(c *container.Container) (*ListCommand, error) {
	finder, err := container.Resolve[*component.Finder](c, FinderKey)
	if err != nil {
		return nil, err
	}
	registry, err := container.Resolve[*component.Registry](c, RegistryKey)
	if err != nil {
		return nil, err
	}

	lc := &ListCommand{finder: finder, registry: registry}
	lc.cmd = &cobra.Command{
		Use:   "component:list",
		Short: "List the installable components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return lc.run(cmd.OutOrStdout())
		},
	}
	return lc, nil
}

// Cobra implements contracts.Command.
func (lc *ListCommand) Cobra() *cobra.Command { return lc.cmd }

func (lc *ListCommand) run(out io.Writer) error {
	found, err := lc.finder.Find()
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("No components found"))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"COMPONENT", "INSTALLER", "AVAILABLE"})
	for _, id := range found {
		name := component.InstallerName(id)
		available := "no"
		if _, ok := lc.registry.Lookup(name); ok {
			available = "yes"
		}
		t.AppendRow(table.Row{id.String(), name, available})
	}
	t.Render()
	return nil
}
