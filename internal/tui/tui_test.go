// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"testing"
)

func TestHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, Theme("unknown")} {
		if huhTheme(theme) == nil {
			t.Errorf("huhTheme(%q) returned nil", theme)
		}
	}
}

func TestDefaultConfig_AccessibleFromEnv(t *testing.T) {
	t.Setenv("ACCESSIBLE", "1")

	cfg := DefaultConfig()
	if !cfg.Accessible {
		t.Error("ACCESSIBLE must enable accessible mode")
	}
	if cfg.Output == nil {
		t.Error("Output must be set")
	}
}

func TestChoose_NoOptions(t *testing.T) {
	t.Parallel()

	_, err := ChooseStrings("Pick", nil, Config{})
	if !errors.Is(err, ErrNoOptions) {
		t.Errorf("ChooseStrings() error = %v, want ErrNoOptions", err)
	}

	_, err = Chooser{}.Choose("Pick", []string{})
	if !errors.Is(err, ErrNoOptions) {
		t.Errorf("Chooser.Choose() error = %v, want ErrNoOptions", err)
	}
}

func TestNotBlank(t *testing.T) {
	t.Parallel()

	if err := notBlank("  "); err == nil {
		t.Error("notBlank(blank) = nil, want error")
	}
	if err := notBlank("zero"); err != nil {
		t.Errorf("notBlank(zero) = %v", err)
	}
}
