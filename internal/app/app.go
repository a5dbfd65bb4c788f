// SPDX-License-Identifier: MPL-2.0

// Package app composes an application: it fills the container in a fixed
// order, runs the providers, registers the commands and resolves which
// command a run invokes.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/internal/commands"
	"github.com/zero-cli/zero/internal/components"
	"github.com/zero-cli/zero/internal/config"
	"github.com/zero-cli/zero/internal/console"
	"github.com/zero-cli/zero/internal/events"
	"github.com/zero-cli/zero/internal/provider"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

// Container keys bound during bootstrap.
const (
	AppKey      = "app"
	EventsKey   = "events"
	ConfigKey   = "config"
	LogKey      = "log"
	BasePathKey = "path.base"
	ConsoleKey  = "console"
)

type (
	// Options configures Bootstrap. Every field is optional.
	Options struct {
		// BasePath is the project root. Defaults to the working directory.
		BasePath string
		// ConfigPath is the configuration file, relative to BasePath unless
		// absolute. Defaults to config.DefaultPath.
		ConfigPath string
		Container  *container.Container
		Dispatcher *events.Dispatcher
		// Providers maps the names listed in "app.providers" to factories.
		Providers provider.Catalog
		Logger    *log.Logger
		// Root is the console root command. A bare "zero" command is used
		// when nil.
		Root *cobra.Command
		// Execute runs the root command, e.g. through fang.
		Execute console.Executor
	}

	// Application is the composed application. It implements
	// contracts.Application by forwarding the container operations.
	Application struct {
		container *container.Container
		events    *events.Dispatcher
		config    *config.Store
		logger    *log.Logger
		console   *console.Console
		basePath  string
	}

	alias struct {
		abstract string
		aliases  []string
	}
)

var _ contracts.Application = (*Application)(nil)

// aliases is applied once, in this order, right after configuration is bound.
var aliases = []alias{
	{AppKey, []string{container.KeyOf[*container.Container](), container.KeyOf[contracts.Container]()}},
	{EventsKey, []string{container.KeyOf[*events.Dispatcher](), container.KeyOf[contracts.Dispatcher]()}},
	{ConfigKey, []string{container.KeyOf[*config.Store](), container.KeyOf[contracts.Config]()}},
	{LogKey, []string{container.KeyOf[*log.Logger]()}},
	{ConsoleKey, []string{container.KeyOf[*console.Console]()}},
}

// Bootstrap builds the application. Configuration and provider failures are
// fatal and returned as is.
func Bootstrap(ctx context.Context, opts Options) (*Application, error) {
	a := &Application{
		container: opts.Container,
		events:    opts.Dispatcher,
		logger:    opts.Logger,
		basePath:  opts.BasePath,
	}
	if a.container == nil {
		a.container = container.New()
	}
	if a.events == nil {
		a.events = events.NewDispatcher()
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	if a.basePath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve base path: %w", err)
		}
		a.basePath = wd
	}

	c := a.container
	c.Instance(EventsKey, a.events)
	c.Instance(AppKey, c)

	a.logger.Debug("loading configuration", "base", a.basePath, "path", opts.ConfigPath)
	store, err := config.Load(ctx, config.LoadOptions{BasePath: a.basePath, Path: opts.ConfigPath})
	if err != nil {
		return nil, err
	}
	a.config = store
	c.Instance(ConfigKey, store)
	c.Instance(LogKey, a.logger)
	c.Instance(BasePathKey, a.basePath)

	root := opts.Root
	if root == nil {
		root = &cobra.Command{Use: "zero"}
	}
	a.console = console.New(root, c, a.events, a.logger)
	if opts.Execute != nil {
		a.console.Execute = opts.Execute
	}
	c.Instance(ConsoleKey, a.console)

	if err := a.registerAliases(); err != nil {
		return nil, err
	}
	if err := a.runProviders(opts.Providers); err != nil {
		return nil, err
	}
	if err := a.registerCommands(); err != nil {
		return nil, err
	}

	if name := store.String("app.name"); name != "" {
		a.console.SetName(name)
	}
	if version := store.String("app.version"); version != "" {
		a.console.SetVersion(version)
	}

	if err := a.events.Dispatch(ctx, events.Booted{Name: a.console.Name(), Commands: a.console.Names()}); err != nil {
		return nil, err
	}
	a.logger.Debug("application booted", "commands", a.console.Names())
	return a, nil
}

func (a *Application) registerAliases() error {
	for _, entry := range aliases {
		for _, name := range entry.aliases {
			if err := a.container.Alias(entry.abstract, name); err != nil {
				return fmt.Errorf("alias %s: %w", entry.abstract, err)
			}
		}
	}
	return nil
}

// runProviders runs the framework provider, the component providers and
// the configured providers, in that order.
func (a *Application) runProviders(catalog provider.Catalog) error {
	descriptors := []provider.Descriptor{{Name: "commands", New: commands.NewProvider}}
	descriptors = append(descriptors, components.Providers()...)

	configured, err := catalog.Resolve(a.config.StringSlice("app.providers"))
	if err != nil {
		return err
	}
	descriptors = append(descriptors, configured...)

	return provider.Run(a, descriptors, a.logger)
}

// CommandKeys returns the command keys to register: the configured
// commands, the framework commands unless in production, then the default
// command. Empty entries are kept here and skipped at registration.
func (a *Application) CommandKeys() []string {
	keys := a.config.StringSlice("app.commands")
	if !a.config.Bool("app.production") {
		keys = append(keys, commands.Keys()...)
	}
	return append(keys, a.config.String("app.default-command"))
}

func (a *Application) registerCommands() error {
	for _, key := range a.CommandKeys() {
		if key == "" {
			continue
		}
		if _, err := a.console.Register(key); err != nil {
			return err
		}
	}
	return nil
}

// ResolveCommandName returns the command a run with args invokes: the
// explicit command name when args carry one, else the registered name of
// the default command, else "".
func (a *Application) ResolveCommandName(args []string) (string, error) {
	if name := a.console.ExplicitName(args); name != "" {
		return name, nil
	}
	key := a.config.String("app.default-command")
	if key == "" {
		return "", nil
	}
	return a.console.NameOf(key)
}

// Run executes the command selected by args.
func (a *Application) Run(ctx context.Context, args []string) error {
	fallback := ""
	if a.console.ExplicitName(args) == "" {
		name, err := a.ResolveCommandName(args)
		if err != nil {
			return err
		}
		fallback = name
	}
	return a.console.Run(ctx, args, fallback)
}

// Commands returns the registered command names in registration order.
func (a *Application) Commands() []string {
	return a.console.Names()
}

// Console returns the console front end.
func (a *Application) Console() *console.Console { return a.console }

// Container returns the dependency container.
func (a *Application) Container() *container.Container { return a.container }

// Config returns the configuration store.
func (a *Application) Config() contracts.Config { return a.config }

// Events returns the event dispatcher.
func (a *Application) Events() contracts.Dispatcher { return a.events }

// Logger returns the application logger.
func (a *Application) Logger() *log.Logger { return a.logger }

// BasePath returns the project root.
func (a *Application) BasePath() string { return a.basePath }

// Bind forwards to the container.
func (a *Application) Bind(key string, factory container.Factory) { a.container.Bind(key, factory) }

// Singleton forwards to the container.
func (a *Application) Singleton(key string, factory container.Factory) {
	a.container.Singleton(key, factory)
}

// Instance forwards to the container.
func (a *Application) Instance(key string, value any) { a.container.Instance(key, value) }

// Alias forwards to the container.
func (a *Application) Alias(abstract, alias string) error { return a.container.Alias(abstract, alias) }

// Make forwards to the container.
func (a *Application) Make(key string) (any, error) { return a.container.Make(key) }

// Has forwards to the container.
func (a *Application) Has(key string) bool { return a.container.Has(key) }

// Get forwards to the container.
func (a *Application) Get(key string) any { return a.container.Get(key) }

// Set forwards to the container.
func (a *Application) Set(key string, value any) { a.container.Set(key, value) }
