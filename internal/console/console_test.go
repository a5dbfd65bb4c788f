// SPDX-License-Identifier: MPL-2.0

package console

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-cli/zero/internal/events"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

type testCommand struct {
	cmd *cobra.Command
}

func (t *testCommand) Cobra() *cobra.Command { return t.cmd }

// newCommand binds a command under key that records the arguments it ran with.
func newCommand(c *container.Container, key, name string, ran *[]string) {
	c.Singleton(key, func(*container.Container) (any, error) {
		return &testCommand{cmd: &cobra.Command{
			Use: name,
			RunE: func(_ *cobra.Command, args []string) error {
				*ran = append(*ran, name)
				*ran = append(*ran, args...)
				return nil
			},
		}}, nil
	})
}

func newTestConsole(t *testing.T) (*Console, *container.Container, *events.Dispatcher) {
	t.Helper()

	c := container.New()
	d := events.NewDispatcher()
	root := &cobra.Command{Use: "zero"}
	root.PersistentFlags().String("config", "", "config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return New(root, c, d, nil), c, d
}

func TestRegister_UsesCommandName(t *testing.T) {
	t.Parallel()

	con, c, _ := newTestConsole(t)
	var ran []string
	newCommand(c, "command.inspire", "inspire", &ran)
	newCommand(c, "command.app.build", "app:build", &ran)

	name, err := con.Register("command.inspire")
	require.NoError(t, err)
	assert.Equal(t, "inspire", name)
	_, err = con.Register("command.app.build")
	require.NoError(t, err)

	// The same command registered twice stays a single entry.
	_, err = con.Register("command.inspire")
	require.NoError(t, err)

	assert.Equal(t, []string{"inspire", "app:build"}, con.Names())
	assert.Len(t, con.Root().Commands(), 2)
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()

	con, c, _ := newTestConsole(t)
	c.Instance("not.a.command", 42)

	_, err := con.Register("missing")
	require.ErrorIs(t, err, container.ErrNotBound)

	_, err = con.Register("not.a.command")
	require.Error(t, err)
}

func TestExplicitName(t *testing.T) {
	t.Parallel()

	con, _, _ := newTestConsole(t)

	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"app:build"}, "app:build"},
		{[]string{"--config", "x.cue", "app:build", "arg"}, "app:build"},
		{[]string{"--config=x.cue", "inspire"}, "inspire"},
		{[]string{"-v", "inspire"}, "inspire"},
		{[]string{"--verbose"}, ""},
		{[]string{"--", "inspire"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, con.ExplicitName(tt.args), "%v", tt.args)
	}
}

func TestRun_FallsBackToDefault(t *testing.T) {
	t.Parallel()

	con, c, _ := newTestConsole(t)
	var ran []string
	newCommand(c, "command.inspire", "inspire", &ran)
	newCommand(c, "command.other", "other", &ran)
	_, err := con.Register("command.inspire")
	require.NoError(t, err)
	_, err = con.Register("command.other")
	require.NoError(t, err)

	require.NoError(t, con.Run(context.Background(), nil, "inspire"))
	require.NoError(t, con.Run(context.Background(), []string{"other", "x"}, "inspire"))
	assert.Equal(t, []string{"inspire", "other", "x"}, ran)
}

func TestRun_HelpAndVersionKeepRootBehavior(t *testing.T) {
	t.Parallel()

	con, c, _ := newTestConsole(t)
	var ran []string
	newCommand(c, "command.inspire", "inspire", &ran)
	_, err := con.Register("command.inspire")
	require.NoError(t, err)
	con.SetName("Zero")
	con.SetVersion("1.2.3")

	out := &bytes.Buffer{}
	con.Root().SetOut(out)

	require.NoError(t, con.Run(context.Background(), []string{"--version"}, "inspire"))
	assert.Contains(t, out.String(), "Zero 1.2.3")
	require.NoError(t, con.Run(context.Background(), []string{"--help"}, "inspire"))
	assert.Empty(t, ran)
}

func TestCommandEvents(t *testing.T) {
	t.Parallel()

	con, c, d := newTestConsole(t)
	var ran, seen []string
	newCommand(c, "command.inspire", "inspire", &ran)
	d.Listen("command.*", func(_ context.Context, e contracts.Event) error {
		seen = append(seen, e.EventName())
		return nil
	})
	_, err := con.Register("command.inspire")
	require.NoError(t, err)

	require.NoError(t, con.Run(context.Background(), []string{"inspire"}, ""))
	assert.Equal(t, []string{events.CommandStartingEvent, events.CommandFinishedEvent}, seen)
}

func TestCommandEvents_StartingListenerAborts(t *testing.T) {
	t.Parallel()

	con, c, d := newTestConsole(t)
	var ran []string
	newCommand(c, "command.inspire", "inspire", &ran)
	veto := errors.New("not now")
	d.Listen(events.CommandStartingEvent, func(context.Context, contracts.Event) error { return veto })
	_, err := con.Register("command.inspire")
	require.NoError(t, err)

	err = con.Run(context.Background(), []string{"inspire"}, "")
	require.ErrorIs(t, err, veto)
	assert.Empty(t, ran)
}

func TestCall(t *testing.T) {
	t.Parallel()

	con, c, _ := newTestConsole(t)
	var ran []string
	newCommand(c, "command.inspire", "inspire", &ran)
	_, err := con.Register("command.inspire")
	require.NoError(t, err)

	require.NoError(t, con.Call(context.Background(), "inspire", []string{"a", "b"}))
	assert.Equal(t, []string{"inspire", "a", "b"}, ran)

	err = con.Call(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrUnknownCommand)
}
