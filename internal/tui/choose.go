// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrNoOptions is returned when a choice has nothing to offer.
var ErrNoOptions = errors.New("no options to choose from")

type (
	// Option is one entry of a Choose prompt.
	Option[T comparable] struct {
		// Title is the display text for the option.
		Title string
		Value T
	}

	// ChooseOptions configures the Choose prompt.
	ChooseOptions[T comparable] struct {
		Title       string
		Description string
		Options     []Option[T]
		// Height limits the number of visible options (0 for auto).
		Height int
		Config Config
	}

	// Chooser asks for one string option through huh.
	Chooser struct {
		Config Config
	}
)

// Choose prompts the user to select one option from a list.
func Choose[T comparable](opts ChooseOptions[T]) (T, error) {
	var result T
	if len(opts.Options) == 0 {
		return result, ErrNoOptions
	}

	huhOpts := make([]huh.Option[T], len(opts.Options))
	for i, opt := range opts.Options {
		huhOpts[i] = huh.NewOption(opt.Title, opt.Value)
	}

	sel := huh.NewSelect[T]().
		Title(opts.Title).
		Description(opts.Description).
		Options(huhOpts...).
		Value(&result)
	if opts.Height > 0 {
		sel = sel.Height(opts.Height)
	}

	if err := run(sel, opts.Config); err != nil {
		return result, err
	}
	return result, nil
}

// ChooseStrings is Choose for string options whose titles are their values.
func ChooseStrings(title string, options []string, config Config) (string, error) {
	opts := make([]Option[string], len(options))
	for i, o := range options {
		opts[i] = Option[string]{Title: o, Value: o}
	}
	return Choose(ChooseOptions[string]{
		Title:   title,
		Options: opts,
		Config:  config,
	})
}

// Choose implements component.Chooser.
func (c Chooser) Choose(title string, options []string) (string, error) {
	return ChooseStrings(title, options, c.Config)
}
