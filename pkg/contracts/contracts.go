// SPDX-License-Identifier: MPL-2.0

// Package contracts declares the interfaces shared between the framework and
// the projects, providers, commands and component installers built on it.
package contracts

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zero-cli/zero/pkg/container"
)

type (
	// Container is the fixed set of container operations the application
	// forwards to the dependency container.
	Container interface {
		Bind(key string, factory container.Factory)
		Singleton(key string, factory container.Factory)
		Instance(key string, value any)
		Alias(abstract, alias string) error
		Make(key string) (any, error)
		Has(key string) bool
		Get(key string) any
		Set(key string, value any)
	}

	// Config is the read-only view of the loaded configuration.
	// Keys are dotted paths such as "app.name".
	Config interface {
		Get(key string, def any) any
		String(key string) string
		Bool(key string) bool
		Int(key string) int
		StringSlice(key string) []string
		Has(key string) bool
		// Sub returns the raw value tree below key, or nil when unset.
		Sub(key string) any
		// Path is the file the configuration was loaded from.
		Path() string
	}

	// Event is anything dispatched through a Dispatcher.
	Event interface {
		EventName() string
	}

	// Listener handles a dispatched event. A non-nil error stops dispatching
	// to later listeners.
	Listener func(ctx context.Context, event Event) error

	// Dispatcher delivers events to the listeners registered for their name.
	Dispatcher interface {
		Listen(name string, listener Listener)
		Dispatch(ctx context.Context, event Event) error
		HasListeners(name string) bool
	}

	// Application is the composed application handed to providers at
	// construction time. It forwards the Container operations to the
	// underlying dependency container.
	Application interface {
		Container

		// Container returns the dependency container itself.
		Container() *container.Container
		Config() Config
		Events() Dispatcher
		Logger() *log.Logger
		// BasePath is the root directory of the host project.
		BasePath() string
	}

	// Provider is a unit of registration and boot logic. A provider takes
	// part in the lifecycle by implementing Registerer, Booter or both; a
	// provider implementing neither is legal and does nothing.
	Provider any

	// ProviderFactory constructs a provider for the given application.
	ProviderFactory func(app Application) (Provider, error)

	// Registerer is implemented by providers that bind services.
	Registerer interface {
		Register() error
	}

	// Booter is implemented by providers that act once their own services
	// are registered.
	Booter interface {
		Boot() error
	}

	// Command is a console command resolvable through the container. Cobra
	// must return the same *cobra.Command on every call; its Name() is the
	// command's registered name.
	Command interface {
		Cobra() *cobra.Command
	}

	// Installer applies a component to the host project.
	Installer interface {
		// Install reports whether the component was installed. An installer
		// that fails part way leaves the project as it left it.
		Install(ctx context.Context, ic InstallContext) (bool, error)
	}

	// InstallContext is the active install command as seen by an installer.
	InstallContext interface {
		Stdout() io.Writer
		Container() *container.Container
		Config() Config
		Logger() *log.Logger
		BasePath() string
		// Require pulls a package into the host project through the
		// package manager.
		Require(ctx context.Context, pkg string) error
	}
)
