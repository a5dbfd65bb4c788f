// SPDX-License-Identifier: MPL-2.0

// Package provider runs the two-phase provider lifecycle during bootstrap.
//
// Providers run strictly in list order. Each one is constructed, registered
// and booted before the next one is constructed, so a provider's Boot sees
// every earlier provider fully booted and no later provider registered.
package provider

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/pkg/contracts"
)

const (
	// PhaseConstruct is the ProviderFactory call.
	PhaseConstruct Phase = "construct"
	// PhaseRegister is the Registerer.Register call.
	PhaseRegister Phase = "register"
	// PhaseBoot is the Booter.Boot call.
	PhaseBoot Phase = "boot"
	// PhaseLookup is the catalog lookup of a configured provider name.
	PhaseLookup Phase = "lookup"
)

var (
	// ErrProviderLifecycle is the sentinel matched by every LifecycleError.
	ErrProviderLifecycle = errors.New("provider lifecycle failed")
	// ErrUnknownProvider is returned for a configured name missing from the catalog.
	ErrUnknownProvider = errors.New("unknown provider")
)

type (
	// Phase names a step of the provider lifecycle.
	Phase string

	// Descriptor identifies a provider implementation. It carries no state.
	Descriptor struct {
		Name string
		New  contracts.ProviderFactory
	}

	// Catalog maps configured provider names to their factories.
	Catalog map[string]contracts.ProviderFactory

	// LifecycleError reports the provider and phase that failed.
	LifecycleError struct {
		Provider string
		Phase    Phase
		Err      error
	}

	// PanicError carries a value recovered from a panicking provider.
	PanicError struct {
		Value any
	}
)

// Error implements error.
func (e *LifecycleError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Phase, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LifecycleError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrProviderLifecycle) match every LifecycleError.
func (e *LifecycleError) Is(target error) bool { return target == ErrProviderLifecycle }

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Resolve turns configured names into descriptors, keeping their order.
func (c Catalog) Resolve(names []string) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		factory, ok := c[name]
		if !ok {
			return nil, wrap(&LifecycleError{Provider: name, Phase: PhaseLookup, Err: ErrUnknownProvider})
		}
		out = append(out, Descriptor{Name: name, New: factory})
	}
	return out, nil
}

// Run executes the lifecycle of every descriptor in order: construct with
// app, Register when implemented, then Boot when implemented. The first
// failure aborts the run. Providers are not retained.
func Run(app contracts.Application, descriptors []Descriptor, logger *log.Logger) error {
	for _, d := range descriptors {
		if err := runOne(app, d, logger); err != nil {
			return wrap(err)
		}
	}
	return nil
}

func runOne(app contracts.Application, d Descriptor, logger *log.Logger) error {
	var p contracts.Provider
	if err := guard(d.Name, PhaseConstruct, func() (err error) {
		p, err = d.New(app)
		return err
	}); err != nil {
		return err
	}

	if r, ok := p.(contracts.Registerer); ok {
		logger.Debug("registering provider", "provider", d.Name)
		if err := guard(d.Name, PhaseRegister, r.Register); err != nil {
			return err
		}
	}

	if b, ok := p.(contracts.Booter); ok {
		logger.Debug("booting provider", "provider", d.Name)
		if err := guard(d.Name, PhaseBoot, b.Boot); err != nil {
			return err
		}
	}

	return nil
}

// guard runs fn and converts both its error and a panic into a LifecycleError.
func guard(name string, phase Phase, fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &LifecycleError{Provider: name, Phase: phase, Err: &PanicError{Value: rec}}
		}
	}()
	if ferr := fn(); ferr != nil {
		return &LifecycleError{Provider: name, Phase: phase, Err: ferr}
	}
	return nil
}

func wrap(err error) error {
	var le *LifecycleError
	resource := ""
	if errors.As(err, &le) {
		resource = le.Provider
	}
	return issue.NewErrorContext().
		WithOperation("start application").
		WithResource(resource).
		WithSuggestion("Run with --verbose to see the failing provider phase").
		WithGuide(issue.ProviderLifecycleFailedId).
		Wrap(err).
		BuildError()
}
