// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/internal/provider"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

// InspireCommandKey is the container key of the inspire command, the
// default command of a fresh project.
const InspireCommandKey = "command.inspire"

var quotes = []string{
	"Simplicity is prerequisite for reliability. - Edsger Dijkstra",
	"Clear is better than clever. - Rob Pike",
	"Make it work, make it right, make it fast. - Kent Beck",
	"A little copying is better than a little dependency. - Rob Pike",
	"The best code is no code at all. - Jeff Atwood",
	"Programs must be written for people to read. - Harold Abelson",
}

type (
	// appProvider is the project's own provider, listed as "app" in
	// app.providers.
	appProvider struct {
		app contracts.Application
	}

	inspireCommand struct {
		cmd *cobra.Command
		// pick returns an index below n.
		pick func(n int) int
	}
)

// providers is the catalog of provider names the configuration may list.
func providers() provider.Catalog {
	return provider.Catalog{
		"app": func(app contracts.Application) (contracts.Provider, error) {
			return &appProvider{app: app}, nil
		},
	}
}

func (p *appProvider) Register() error {
	p.app.Singleton(InspireCommandKey, func(*container.Container) (any, error) {
		return newInspireCommand(rand.IntN), nil
	})
	return nil
}

func newInspireCommand(pick func(n int) int) *inspireCommand {
	ic := &inspireCommand{pick: pick}
	ic.cmd = &cobra.Command{
		Use:   "inspire",
		Short: "Display an inspiring quote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), quoteStyle.Render(quotes[ic.pick(len(quotes))]))
			return err
		},
	}
	return ic
}

func (ic *inspireCommand) Cobra() *cobra.Command { return ic.cmd }
