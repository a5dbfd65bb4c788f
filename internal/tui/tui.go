// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used by console commands.
// It wraps charmbracelet/huh so commands only deal with plain values.
package tui

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for prompts.
type Theme string

const (
	// ThemeDefault uses the base huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("user aborted")

// Config holds common configuration for prompts.
type Config struct {
	Theme Theme
	// Accessible renders prompts as plain line-based questions, for screen
	// readers and for sessions without a terminal.
	Accessible bool
	// Input and Output default to os.Stdin and os.Stdout.
	Input  io.Reader
	Output io.Writer
}

// DefaultConfig enables accessible mode when stdin is not a terminal or the
// ACCESSIBLE environment variable is set. Accessible prompts are written to
// stderr so they are not captured with the command output.
func DefaultConfig() Config {
	accessible := !isInputTerminal() || os.Getenv("ACCESSIBLE") != ""

	var output io.Writer = os.Stdout
	if accessible {
		output = os.Stderr
	}
	return Config{
		Theme:      ThemeDefault,
		Accessible: accessible,
		Output:     output,
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func huhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	default:
		return huh.ThemeBase()
	}
}

// run runs a single-field form configured from cfg.
func run(field huh.Field, cfg Config) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huhTheme(cfg.Theme)).
		WithAccessible(cfg.Accessible).
		WithShowHelp(!cfg.Accessible)
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	if cfg.Output != nil {
		form = form.WithOutput(cfg.Output)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
