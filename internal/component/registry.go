// SPDX-License-Identifier: MPL-2.0

package component

import (
	"fmt"
	"slices"

	"github.com/zero-cli/zero/pkg/contracts"
)

type (
	// Factory builds an installer. It takes no arguments: installers get
	// everything they need from the InstallContext passed to Install.
	Factory func() (contracts.Installer, error)

	// Registry maps installer names to installer factories.
	Registry struct {
		factories map[string]Factory
	}
)

// defaultRegistry receives the installers of the bundled components.
var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Default returns the registry bundled components register into.
func Default() *Registry {
	return defaultRegistry
}

// Register adds the installer of a bundled component to the default registry.
// It panics on a malformed identifier or a duplicate registration, like
// database/sql.Register does for drivers.
func Register(id string, factory Factory) {
	if err := defaultRegistry.Register(id, factory); err != nil {
		panic(err)
	}
}

// Register stores factory under the installer name of id.
func (r *Registry) Register(id string, factory Factory) error {
	parsed, err := ParseIdentifier(id)
	if err != nil {
		return err
	}
	if factory == nil {
		return fmt.Errorf("register %s: nil installer factory", parsed)
	}
	name := InstallerName(parsed)
	if _, dup := r.factories[name]; dup {
		return fmt.Errorf("register %s: installer %s already registered", parsed, name)
	}
	r.factories[name] = factory
	return nil
}

// Lookup returns the factory stored under an installer name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns every registered installer name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
