// SPDX-License-Identifier: MPL-2.0

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/zero-cli/zero/internal/issue"
)

// ManifestFile names the project manifest under the base path.
const ManifestFile = "zero.json"

var errNoBinary = errors.New(`manifest has no "bin" entry`)

// manifest is the project manifest. Only the binary names are read; the
// rest of the file is rewritten as found.
type manifest struct {
	path string
	raw  string
	Bin  []string `json:"bin"`
}

func readManifest(base string) (*manifest, error) {
	path := filepath.Join(base, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, manifestError(path, err)
	}
	m := &manifest{path: path, raw: string(data)}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, manifestError(path, err)
	}
	if len(m.Bin) == 0 || m.Bin[0] == "" {
		return nil, manifestError(path, errNoBinary)
	}
	return m, nil
}

// binary returns the current application binary name.
func (m *manifest) binary() string {
	return m.Bin[0]
}

// rename replaces the first `"bin": ["<current>"` occurrence with name and
// writes the manifest back. The rest of the file is left byte for byte.
func (m *manifest) rename(name string) error {
	re := regexp.MustCompile(`"bin"\s*:\s*\[\s*"` + regexp.QuoteMeta(m.binary()) + `"`)
	loc := re.FindStringIndex(m.raw)
	if loc == nil {
		return manifestError(m.path, fmt.Errorf("no %q bin entry to rewrite", m.binary()))
	}
	quoted, err := json.Marshal(name)
	if err != nil {
		return fmt.Errorf("encode %q: %w", name, err)
	}
	updated := m.raw[:loc[0]] + `"bin": [` + string(quoted) + m.raw[loc[1]:]

	info, err := os.Stat(m.path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", m.path, err)
	}
	m.raw = updated
	m.Bin[0] = name
	return nil
}

func manifestError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("read manifest").
		WithResource(path).
		WithSuggestion("Run the command from the project root or pass --base-path").
		WithGuide(issue.ManifestNotFoundId).
		Wrap(err).
		BuildError()
}
