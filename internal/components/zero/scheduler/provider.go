// SPDX-License-Identifier: MPL-2.0

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

const (
	// Key is the container key of the *Schedule.
	Key = "schedule"
	// RunCommandKey is the container key of schedule:run.
	RunCommandKey = "command.schedule.run"
	// ConsoleKey is the container key of the console the tasks run through.
	ConsoleKey = "console"
)

type (
	// Console is the part of the console front end the scheduler needs.
	Console interface {
		Register(key string) (string, error)
		Call(ctx context.Context, name string, args []string) error
	}

	// Provider binds the schedule and registers schedule:run when tasks are
	// configured.
	Provider struct {
		app contracts.Application
	}

	// RunCommand is schedule:run.
	RunCommand struct {
		cmd       *cobra.Command
		container *container.Container
		schedule  *Schedule
		now       func() time.Time
	}
)

// NewProvider implements contracts.ProviderFactory.
func NewProvider(app contracts.Application) (contracts.Provider, error) {
	return &Provider{app: app}, nil
}

func (p *Provider) configured() bool {
	return p.app.Config().Has("schedule.tasks")
}

// Register implements contracts.Registerer.
func (p *Provider) Register() error {
	if !p.configured() {
		return nil
	}

	s, err := FromConfig(p.app.Config().Sub("schedule.tasks"))
	if err != nil {
		return err
	}
	p.app.Instance(Key, s)
	if err := p.app.Alias(Key, container.KeyOf[*Schedule]()); err != nil {
		return err
	}

	p.app.Singleton(RunCommandKey, func(c *container.Container) (any, error) {
		return newRunCommand(c, s), nil
	})
	return nil
}

// Boot implements contracts.Booter.
func (p *Provider) Boot() error {
	if !p.configured() {
		return nil
	}
	con, err := container.Resolve[Console](p.app.Container(), ConsoleKey)
	if err != nil {
		return err
	}
	_, err = con.Register(RunCommandKey)
	return err
}

func newRunCommand(c *container.Container, s *Schedule) *RunCommand {
	rc := &RunCommand{container: c, schedule: s, now: time.Now}
	rc.cmd = &cobra.Command{
		Use:   "schedule:run",
		Short: "Run the scheduled commands due this minute",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rc.run(cmd.Context(), cmd)
		},
	}
	return rc
}

// Cobra implements contracts.Command.
func (rc *RunCommand) Cobra() *cobra.Command { return rc.cmd }

// run calls every due task once, in declared order. A failing task does not
// stop the others.
func (rc *RunCommand) run(ctx context.Context, cmd *cobra.Command) error {
	due := rc.schedule.Due(rc.now())
	if len(due) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scheduled commands are ready to run.")
		return nil
	}

	con, err := container.Resolve[Console](rc.container, ConsoleKey)
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range due {
		fmt.Fprintf(cmd.OutOrStdout(), "Running scheduled command: %s\n", t.Command)
		if err := con.Call(ctx, t.Command, t.Args); err != nil {
			errs = append(errs, fmt.Errorf("scheduled command %s: %w", t.Command, err))
		}
	}
	return errors.Join(errs...)
}
