// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/pkg/contracts"
)

// ChoosePrompt is the title of the interactive component choice.
const ChoosePrompt = "Please choose the component"

var (
	// ErrInstallerNotFound is the sentinel matched by InstallerNotFoundError.
	ErrInstallerNotFound = errors.New("installer not found")
	// ErrNoComponents is returned when an interactive choice has nothing to offer.
	ErrNoComponents = errors.New("no components available")
)

type (
	// Chooser asks the user to pick one option.
	Chooser interface {
		Choose(title string, options []string) (string, error)
	}

	// ChooserFunc adapts a function to Chooser.
	ChooserFunc func(title string, options []string) (string, error)

	// InstallerNotFoundError reports a component whose installer name has no
	// registered factory.
	InstallerNotFoundError struct {
		Component Identifier
		Installer string
	}

	// InstantiationError reports an installer factory that failed.
	InstantiationError struct {
		Installer string
		Err       error
	}

	// Dispatcher resolves component identifiers to installers and runs them.
	Dispatcher struct {
		finder   *Finder
		registry *Registry
		chooser  Chooser
		logger   *log.Logger
	}
)

// Choose implements Chooser.
func (f ChooserFunc) Choose(title string, options []string) (string, error) {
	return f(title, options)
}

// Error implements error.
func (e *InstallerNotFoundError) Error() string {
	return fmt.Sprintf("component %s: installer %s not found", e.Component, e.Installer)
}

// Unwrap returns ErrInstallerNotFound for errors.Is.
func (e *InstallerNotFoundError) Unwrap() error { return ErrInstallerNotFound }

// Error implements error.
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiate %s: %v", e.Installer, e.Err)
}

// Unwrap returns the factory error.
func (e *InstantiationError) Unwrap() error { return e.Err }

// NewDispatcher creates a Dispatcher. chooser is only used when Install is
// called without an identifier.
func NewDispatcher(finder *Finder, registry *Registry, chooser Chooser, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Dispatcher{finder: finder, registry: registry, chooser: chooser, logger: logger}
}

// Install runs the installer of the component named id and returns its
// result unchanged. An empty id asks the Chooser to pick among the
// discovered components. Nothing is retried and no other installer is tried
// when the resolved one is missing.
func (d *Dispatcher) Install(ctx context.Context, id string, ic contracts.InstallContext) (bool, error) {
	if id == "" {
		chosen, err := d.Choose()
		if err != nil {
			return false, err
		}
		id = chosen
	}

	component, err := ParseIdentifier(id)
	if err != nil {
		return false, err
	}
	name := InstallerName(component)

	factory, ok := d.registry.Lookup(name)
	if !ok {
		return false, issue.NewErrorContext().
			WithOperation("install component").
			WithResource(component.String()).
			WithSuggestion("Run 'component:list' to see the available components").
			WithGuide(issue.InstallerNotFoundId).
			Wrap(&InstallerNotFoundError{Component: component, Installer: name}).
			BuildError()
	}

	installer, err := instantiate(name, factory)
	if err != nil {
		return false, issue.NewErrorContext().
			WithOperation("install component").
			WithResource(component.String()).
			Wrap(err).
			BuildError()
	}

	d.logger.Debug("running installer", "component", component, "installer", name)
	return installer.Install(ctx, ic)
}

// Choose asks the Chooser to pick one of the discovered components.
func (d *Dispatcher) Choose() (string, error) {
	found, err := d.finder.Find()
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", ErrNoComponents
	}
	if d.chooser == nil {
		return "", errors.New("a component name is required when not running interactively")
	}

	options := make([]string, len(found))
	for i, id := range found {
		options[i] = id.String()
	}
	return d.chooser.Choose(ChoosePrompt, options)
}

func instantiate(name string, factory Factory) (installer contracts.Installer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &InstantiationError{Installer: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()
	installer, err = factory()
	if err != nil {
		return nil, &InstantiationError{Installer: name, Err: err}
	}
	if installer == nil {
		return nil, &InstantiationError{Installer: name, Err: errors.New("factory returned nil")}
	}
	return installer, nil
}
