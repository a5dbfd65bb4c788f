// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

var errBlank = errors.New("a value is required")

// InputOptions configures the Input prompt.
type InputOptions struct {
	Title       string
	Description string
	Placeholder string
	// Value is the initial value.
	Value string
	// Required rejects blank answers.
	Required bool
	Config   Config
}

// Input prompts the user for a single line of text. The answer is trimmed.
func Input(opts InputOptions) (string, error) {
	result := opts.Value

	in := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&result)
	if opts.Required {
		in = in.Validate(notBlank)
	}

	if err := run(in, opts.Config); err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return errBlank
	}
	return nil
}
