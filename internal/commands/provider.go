// SPDX-License-Identifier: MPL-2.0

// Package commands provides the framework's own console commands and the
// services they share: the component finder, the installer dispatcher and
// the package manager.
package commands

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/zero-cli/zero/internal/component"
	"github.com/zero-cli/zero/internal/components"
	"github.com/zero-cli/zero/internal/pkgmgr"
	"github.com/zero-cli/zero/internal/tui"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

// Service keys bound by the provider.
const (
	FinderKey         = "component.finder"
	RegistryKey       = "component.registry"
	DispatcherKey     = "component.dispatcher"
	PackageManagerKey = "pkgmgr"
	ChooserKey        = "prompt.chooser"
	PrompterKey       = "prompt.input"
)

// Command keys of the framework-internal commands.
const (
	BuildCommandKey   = "command.app.build"
	RenameCommandKey  = "command.app.rename"
	InstallCommandKey = "command.component.install"
	ListCommandKey    = "command.component.list"
)

// Prompter asks the user for one line of text.
type Prompter func(title string) (string, error)

// Provider binds the framework commands and their services.
type Provider struct {
	app contracts.Application
}

// Keys returns the framework-internal command keys, in display order.
func Keys() []string {
	return []string{BuildCommandKey, RenameCommandKey, InstallCommandKey, ListCommandKey}
}

// NewProvider implements contracts.ProviderFactory.
func NewProvider(app contracts.Application) (contracts.Provider, error) {
	return &Provider{app: app}, nil
}

// Register binds the shared services and the commands. A package manager
// or prompts already bound by the host are kept.
func (p *Provider) Register() error {
	cfg := p.app.Config()
	base := p.app.BasePath()

	p.app.Singleton(FinderKey, func(*container.Container) (any, error) {
		return component.NewFinder(installersFS(base, cfg.String("app.installers-path"))), nil
	})
	p.app.Instance(RegistryKey, component.Default())
	if !p.app.Has(PackageManagerKey) {
		p.app.Singleton(PackageManagerKey, func(*container.Container) (any, error) {
			return &pkgmgr.Runner{
				Command: cfg.String("app.package-manager"),
				Dir:     base,
				Stdout:  os.Stdout,
				Stderr:  os.Stderr,
				Logger:  p.app.Logger(),
				Spinner: term.IsTerminal(int(os.Stderr.Fd())),
			}, nil
		})
	}

	if !p.app.Has(ChooserKey) {
		p.app.Instance(ChooserKey, component.Chooser(tui.Chooser{Config: tui.DefaultConfig()}))
	}
	if !p.app.Has(PrompterKey) {
		p.app.Instance(PrompterKey, Prompter(func(title string) (string, error) {
			return tui.Input(tui.InputOptions{Title: title, Config: tui.DefaultConfig()})
		}))
	}

	p.app.Singleton(DispatcherKey, func(c *container.Container) (any, error) {
		finder, err := container.Resolve[*component.Finder](c, FinderKey)
		if err != nil {
			return nil, err
		}
		registry, err := container.Resolve[*component.Registry](c, RegistryKey)
		if err != nil {
			return nil, err
		}
		chooser, err := container.Resolve[component.Chooser](c, ChooserKey)
		if err != nil {
			return nil, err
		}
		return component.NewDispatcher(finder, registry, chooser, p.app.Logger()), nil
	})

	p.app.Singleton(InstallCommandKey, func(c *container.Container) (any, error) { return newInstallCommand(c) })
	p.app.Singleton(ListCommandKey, func(c *container.Container) (any, error) { return newListCommand(c) })
	p.app.Singleton(RenameCommandKey, func(c *container.Container) (any, error) { return newRenameCommand(c) })
	p.app.Singleton(BuildCommandKey, func(c *container.Container) (any, error) { return newBuildCommand(c) })

	return nil
}

// installersFS returns the bundled installers tree, or the directory dir
// under base when one is configured.
func installersFS(base, dir string) fs.FS {
	if dir == "" {
		return components.FS
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return os.DirFS(dir)
}

// env holds what every framework command reads from the container.
type env struct {
	config   contracts.Config
	logger   *log.Logger
	basePath string
}

func resolveEnv(c *container.Container) (env, error) {
	cfg, err := container.Resolve[contracts.Config](c, "config")
	if err != nil {
		return env{}, err
	}
	logger, err := container.Resolve[*log.Logger](c, "log")
	if err != nil {
		return env{}, err
	}
	base, err := container.Resolve[string](c, "path.base")
	if err != nil {
		return env{}, err
	}
	return env{config: cfg, logger: logger, basePath: base}, nil
}
