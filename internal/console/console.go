// SPDX-License-Identifier: MPL-2.0

// Package console is the command front end of an application: a Cobra root
// command holding the commands resolved from the container.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zero-cli/zero/internal/events"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

// ErrUnknownCommand is returned by Call for a name nothing was registered under.
var ErrUnknownCommand = errors.New("unknown command")

type (
	// Executor runs the root command with its arguments already set.
	Executor func(ctx context.Context, root *cobra.Command) error

	// Console registers commands on a Cobra root and runs them.
	Console struct {
		root      *cobra.Command
		container *container.Container
		events    contracts.Dispatcher
		logger    *log.Logger

		commands map[string]*cobra.Command
		order    []string
		name     string

		// Execute runs the root command. Defaults to ExecuteContext.
		Execute Executor
	}
)

// New creates a console around root. Nil events and logger are allowed.
func New(root *cobra.Command, c *container.Container, dispatcher contracts.Dispatcher, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	root.SilenceUsage = true
	return &Console{
		root:      root,
		container: c,
		events:    dispatcher,
		logger:    logger,
		commands:  make(map[string]*cobra.Command),
		Execute: func(ctx context.Context, root *cobra.Command) error {
			return root.ExecuteContext(ctx)
		},
	}
}

// Root returns the Cobra root command.
func (c *Console) Root() *cobra.Command {
	return c.root
}

// Register resolves key through the container and adds the command to the
// root. It returns the command's registered name. A command registered
// again under the same name replaces the earlier one.
func (c *Console) Register(key string) (string, error) {
	cmd, err := c.resolve(key)
	if err != nil {
		return "", err
	}
	name := cmd.Name()

	if prev, ok := c.commands[name]; ok {
		if prev == cmd {
			return name, nil
		}
		c.root.RemoveCommand(prev)
	} else {
		c.order = append(c.order, name)
	}

	c.wrap(cmd)
	c.root.AddCommand(cmd)
	c.commands[name] = cmd
	c.logger.Debug("registered command", "key", key, "name", name)
	return name, nil
}

// NameOf resolves key and returns the registered name of its command
// without registering it.
func (c *Console) NameOf(key string) (string, error) {
	cmd, err := c.resolve(key)
	if err != nil {
		return "", err
	}
	return cmd.Name(), nil
}

// Names returns the registered command names in registration order.
func (c *Console) Names() []string {
	return append([]string(nil), c.order...)
}

// Lookup returns the command registered under name.
func (c *Console) Lookup(name string) (*cobra.Command, bool) {
	cmd, ok := c.commands[name]
	return cmd, ok
}

// SetName sets the application title shown in help and version output.
func (c *Console) SetName(name string) {
	c.name = name
	c.root.Short = name
	c.updateVersionTemplate()
}

// Name returns the application title.
func (c *Console) Name() string {
	return c.name
}

// SetVersion sets the version printed by --version.
func (c *Console) SetVersion(version string) {
	c.root.Version = version
	c.updateVersionTemplate()
}

// Version returns the application version.
func (c *Console) Version() string {
	return c.root.Version
}

func (c *Console) updateVersionTemplate() {
	if c.name == "" {
		return
	}
	c.root.SetVersionTemplate(c.name + " {{.Version}}\n")
}

// Run executes args. When args name no command and fallback is not empty,
// fallback is run instead, unless args only ask for help or the version.
func (c *Console) Run(ctx context.Context, args []string, fallback string) error {
	if fallback != "" && c.ExplicitName(args) == "" && !asksRoot(args) {
		args = append([]string{fallback}, args...)
	}
	if args == nil {
		// Cobra reads os.Args for nil args.
		args = []string{}
	}
	c.root.SetArgs(args)
	return c.Execute(ctx, c.root)
}

// Call runs the command registered under name with args, bypassing the root.
func (c *Console) Call(ctx context.Context, name string, args []string) error {
	cmd, ok := c.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("command %s: %w", name, err)
	}
	positional := cmd.Flags().Args()
	if err := cmd.ValidateArgs(positional); err != nil {
		return fmt.Errorf("command %s: %w", name, err)
	}
	cmd.SetContext(ctx)
	if cmd.RunE == nil {
		return nil
	}
	return cmd.RunE(cmd, positional)
}

// ExplicitName returns the first positional token of args: the explicit
// command name. Values of known non-boolean root flags are skipped. It
// returns "" when args hold no positional token before "--".
func (c *Console) ExplicitName(args []string) string {
	flags := pflag.NewFlagSet("root", pflag.ContinueOnError)
	flags.AddFlagSet(c.root.PersistentFlags())
	flags.AddFlagSet(c.root.Flags())

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case strings.HasPrefix(arg, "--"):
			if !strings.Contains(arg, "=") && takesValue(flags.Lookup(arg[2:])) {
				i++
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			if len(arg) == 2 && takesValue(flags.ShorthandLookup(arg[1:])) {
				i++
			}
		default:
			return arg
		}
	}
	return ""
}

func takesValue(f *pflag.Flag) bool {
	return f != nil && f.NoOptDefVal == ""
}

// asksRoot reports whether args request the root help or version output.
func asksRoot(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		switch arg {
		case "-h", "--help", "--version":
			return true
		}
	}
	return false
}

func (c *Console) resolve(key string) (*cobra.Command, error) {
	v, err := c.container.Make(key)
	if err != nil {
		return nil, fmt.Errorf("resolve command %s: %w", key, err)
	}
	command, ok := v.(contracts.Command)
	if !ok {
		return nil, fmt.Errorf("resolve command %s: %T is not a command", key, v)
	}
	cmd := command.Cobra()
	if cmd == nil {
		return nil, fmt.Errorf("resolve command %s: nil cobra command", key)
	}
	return cmd, nil
}

// wrap makes cmd dispatch the command events around its run function.
func (c *Console) wrap(cmd *cobra.Command) {
	run := cmd.RunE
	if run == nil && cmd.Run != nil {
		plain := cmd.Run
		run = func(cc *cobra.Command, args []string) error {
			plain(cc, args)
			return nil
		}
	}
	if run == nil {
		return
	}
	cmd.Run = nil

	name := cmd.Name()
	cmd.RunE = func(cc *cobra.Command, args []string) error {
		ctx := cc.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := c.dispatch(ctx, events.CommandStarting{Name: name, Args: args}); err != nil {
			return err
		}
		runErr := run(cc, args)
		if err := c.dispatch(ctx, events.CommandFinished{Name: name, Err: runErr}); err != nil && runErr == nil {
			return err
		}
		return runErr
	}
}

func (c *Console) dispatch(ctx context.Context, event contracts.Event) error {
	if c.events == nil {
		return nil
	}
	return c.events.Dispatch(ctx, event)
}
