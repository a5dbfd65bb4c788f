// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/zero-cli/zero/pkg/contracts"
)

// ConfigStub is a configuration section an installer adds to the project's
// CUE configuration file.
type ConfigStub struct {
	// Section is the top-level key the stub declares, e.g. "database".
	Section  string
	Template *template.Template
	Data     any
}

// NewConfigTemplate parses a stub template with the sprig function map.
func NewConfigTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(sprig.TxtFuncMap()).Parse(text))
}

// Render executes the stub template.
func (s ConfigStub) Render() (string, error) {
	var buf bytes.Buffer
	if err := s.Template.Execute(&buf, s.Data); err != nil {
		return "", fmt.Errorf("render %s stub: %w", s.Section, err)
	}
	return buf.String(), nil
}

// Configured reports whether cfg already declares the stub's section.
func (s ConfigStub) Configured(cfg contracts.Config) bool {
	return cfg.Has(s.Section)
}

// AppendTo appends the rendered stub to the configuration file of ic. It
// reports false without touching the file when the section is already
// configured. Only CUE configuration files can be extended.
func (s ConfigStub) AppendTo(ic contracts.InstallContext) (bool, error) {
	cfg := ic.Config()
	if s.Configured(cfg) {
		return false, nil
	}

	path := cfg.Path()
	if filepath.Ext(path) != ".cue" {
		return false, fmt.Errorf("add %s section: %s is not a CUE file", s.Section, path)
	}

	block, err := s.Render()
	if err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return false, fmt.Errorf("add %s section: %w", s.Section, err)
	}
	if _, err := f.WriteString("\n" + block); err != nil {
		_ = f.Close()
		return false, fmt.Errorf("add %s section: %w", s.Section, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("add %s section: %w", s.Section, err)
	}
	return true, nil
}
