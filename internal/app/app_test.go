// SPDX-License-Identifier: MPL-2.0

package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-cli/zero/internal/commands"
	"github.com/zero-cli/zero/internal/config"
	"github.com/zero-cli/zero/internal/events"
	"github.com/zero-cli/zero/internal/provider"
	"github.com/zero-cli/zero/internal/testutil"
	"github.com/zero-cli/zero/pkg/container"
	"github.com/zero-cli/zero/pkg/contracts"
)

type (
	recorder struct {
		steps []string
	}

	stepProvider struct {
		name string
		rec  *recorder
	}

	sampleCommand struct {
		cmd *cobra.Command
	}
)

func (p *stepProvider) Register() error {
	p.rec.steps = append(p.rec.steps, p.name+".register")
	return nil
}

func (p *stepProvider) Boot() error {
	p.rec.steps = append(p.rec.steps, p.name+".boot")
	return nil
}

func (s *sampleCommand) Cobra() *cobra.Command { return s.cmd }

// commandProvider binds a command named name under key; runs are appended to ran.
func commandProvider(key, name string, ran *[]string) contracts.ProviderFactory {
	return func(app contracts.Application) (contracts.Provider, error) {
		app.Singleton(key, func(*container.Container) (any, error) {
			return &sampleCommand{cmd: &cobra.Command{
				Use: name,
				RunE: func(_ *cobra.Command, args []string) error {
					*ran = append(*ran, name)
					*ran = append(*ran, args...)
					return nil
				},
			}}, nil
		})
		return nil, nil
	}
}

// containsCommandOf reports whether the command bound under key is registered.
func containsCommandOf(t *testing.T, a *Application, key string) bool {
	t.Helper()
	name, err := a.Console().NameOf(key)
	require.NoError(t, err)
	_, ok := a.Console().Lookup(name)
	return ok
}

func writeConfig(t *testing.T, cue string) string {
	t.Helper()
	base := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(base, config.DefaultPath), cue)
	return base
}

func bootstrap(t *testing.T, base string, catalog provider.Catalog) *Application {
	t.Helper()
	root := &cobra.Command{Use: "zero"}
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	a, err := Bootstrap(context.Background(), Options{BasePath: base, Providers: catalog, Root: root})
	require.NoError(t, err)
	return a
}

func TestBootstrap_AliasesResolveToSameInstance(t *testing.T) {
	t.Parallel()

	a := bootstrap(t, writeConfig(t, `app: name: "Zero"`), nil)

	groups := map[string][]string{
		AppKey:     {container.KeyOf[*container.Container](), container.KeyOf[contracts.Container]()},
		EventsKey:  {container.KeyOf[*events.Dispatcher](), container.KeyOf[contracts.Dispatcher]()},
		ConfigKey:  {container.KeyOf[*config.Store](), container.KeyOf[contracts.Config]()},
		ConsoleKey: {"*github.com/zero-cli/zero/internal/console.Console"},
	}
	for short, ids := range groups {
		want, err := a.Make(short)
		require.NoError(t, err, short)
		for _, id := range ids {
			got, err := a.Make(id)
			require.NoError(t, err, id)
			assert.Same(t, want, got, "%s -> %s", id, short)
		}
	}

	self, err := container.Make[*container.Container](a.Container())
	require.NoError(t, err)
	assert.Same(t, a.Container(), self)
	assert.Equal(t, a.BasePath(), a.Get(BasePathKey))
}

func TestBootstrap_RegisterAliasesTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	a := bootstrap(t, writeConfig(t, `app: name: "Zero"`), nil)
	require.NoError(t, a.registerAliases())

	cfg, err := a.Make(container.KeyOf[contracts.Config]())
	require.NoError(t, err)
	assert.Same(t, a.config, cfg)
}

func TestBootstrap_ProvidersRegisterThenBootInOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	catalog := provider.Catalog{
		"first": func(contracts.Application) (contracts.Provider, error) {
			return &stepProvider{name: "first", rec: rec}, nil
		},
		"second": func(contracts.Application) (contracts.Provider, error) {
			return &stepProvider{name: "second", rec: rec}, nil
		},
	}
	bootstrap(t, writeConfig(t, `app: providers: ["second", "first"]`), catalog)

	assert.Equal(t, []string{"second.register", "second.boot", "first.register", "first.boot"}, rec.steps)
}

func TestBootstrap_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := Bootstrap(context.Background(), Options{
		BasePath: writeConfig(t, `app: providers: ["missing"]`),
	})
	require.ErrorIs(t, err, provider.ErrProviderLifecycle)
	require.ErrorIs(t, err, provider.ErrUnknownProvider)
}

func TestBootstrap_ProviderFailureAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	catalog := provider.Catalog{
		"broken": func(contracts.Application) (contracts.Provider, error) { return nil, boom },
	}
	_, err := Bootstrap(context.Background(), Options{
		BasePath:  writeConfig(t, `app: providers: ["broken"]`),
		Providers: catalog,
	})
	require.ErrorIs(t, err, boom)

	var le *provider.LifecycleError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "broken", le.Provider)
	assert.Equal(t, provider.PhaseConstruct, le.Phase)
}

func TestBootstrap_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	_, err := Bootstrap(context.Background(), Options{BasePath: t.TempDir()})
	require.ErrorIs(t, err, config.ErrConfigLoad)
}

func TestBootstrap_CommandSet(t *testing.T) {
	t.Parallel()

	var ran []string
	catalog := provider.Catalog{
		"app": func(app contracts.Application) (contracts.Provider, error) {
			for _, f := range []contracts.ProviderFactory{
				commandProvider("command.inspire", "inspire", &ran),
				commandProvider("command.hello", "hello", &ran),
			} {
				if _, err := f(app); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	}

	tests := []struct {
		name string
		cue  string
		want []string
	}{
		{
			name: "development",
			cue: `app: {
				commands: ["command.hello", ""]
				providers: ["app"]
				"default-command": "command.inspire"
			}`,
			want: []string{"hello", "app:build", "app:rename", "component:install", "component:list", "inspire"},
		},
		{
			name: "production",
			cue: `app: {
				production: true
				commands: ["command.hello"]
				providers: ["app"]
				"default-command": "command.inspire"
			}`,
			want: []string{"hello", "inspire"},
		},
		{
			name: "production without default",
			cue: `app: {
				production: true
				providers: ["app"]
			}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := bootstrap(t, writeConfig(t, tt.cue), catalog)
			if tt.want == nil {
				assert.Empty(t, a.Commands())
				return
			}
			assert.Equal(t, tt.want, a.Commands())
			if a.config.Bool("app.production") {
				for _, key := range commands.Keys() {
					assert.False(t, a.Container().Has(key) && containsCommandOf(t, a, key), key)
				}
			}
		})
	}
}

func TestResolveCommandName(t *testing.T) {
	t.Parallel()

	var ran []string
	catalog := provider.Catalog{"app": commandProvider("command.inspire", "inspire", &ran)}

	withDefault := bootstrap(t, writeConfig(t, `app: {
		providers: ["app"]
		"default-command": "command.inspire"
	}`), catalog)

	name, err := withDefault.ResolveCommandName(nil)
	require.NoError(t, err)
	assert.Equal(t, "inspire", name)

	name, err = withDefault.ResolveCommandName([]string{"component:list"})
	require.NoError(t, err)
	assert.Equal(t, "component:list", name)

	withoutDefault := bootstrap(t, writeConfig(t, `app: providers: ["app"]`), catalog)
	name, err = withoutDefault.ResolveCommandName(nil)
	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestRun_DefaultCommand(t *testing.T) {
	t.Parallel()

	var ran []string
	catalog := provider.Catalog{"app": commandProvider("command.inspire", "inspire", &ran)}
	a := bootstrap(t, writeConfig(t, `app: {
		providers: ["app"]
		"default-command": "command.inspire"
	}`), catalog)

	require.NoError(t, a.Run(context.Background(), []string{}))
	assert.Equal(t, []string{"inspire"}, ran)
}

func TestBootstrap_NameVersionAndBootedEvent(t *testing.T) {
	t.Parallel()

	d := events.NewDispatcher()
	var booted events.Booted
	d.Listen(events.BootedEvent, func(_ context.Context, e contracts.Event) error {
		booted = e.(events.Booted)
		return nil
	})

	root := &cobra.Command{Use: "zero"}
	a, err := Bootstrap(context.Background(), Options{
		BasePath:   writeConfig(t, `app: {name: "Acme", version: "2.0.0", production: true}`),
		Dispatcher: d,
		Root:       root,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme", a.Console().Name())
	assert.Equal(t, "2.0.0", root.Version)
	assert.Equal(t, "Acme", booted.Name)
}

func TestBootstrap_DefaultsBasePathToWorkingDirectory(t *testing.T) {
	// Not parallel: changes the working directory.
	base := writeConfig(t, `app: name: "Zero"`)
	defer testutil.MustChdir(t, base)()

	a, err := Bootstrap(context.Background(), Options{})
	require.NoError(t, err)

	wd, err := filepath.EvalSymlinks(a.BasePath())
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(base)
	require.NoError(t, err)
	assert.Equal(t, want, wd)
	assert.Equal(t, "Zero", a.Config().String("app.name"))
}
