// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Finder lists the components of an installers tree.
type Finder struct {
	// FS is rooted at the installers base directory.
	FS fs.FS
}

// NewFinder creates a Finder over fsys.
func NewFinder(fsys fs.FS) *Finder {
	return &Finder{FS: fsys}
}

// Find returns one identifier per <vendor>/<package> directory pair, in
// directory listing order. Only directories count; symbolic links and deeper
// levels are never followed. A tree without directories yields an empty,
// non-nil result.
func (f *Finder) Find() ([]Identifier, error) {
	components := []Identifier{}

	vendors, err := folders(f.FS, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return components, nil
		}
		return nil, fmt.Errorf("list component vendors: %w", err)
	}

	for _, vendor := range vendors {
		projects, err := folders(f.FS, vendor)
		if err != nil {
			return nil, fmt.Errorf("list components of %s: %w", vendor, err)
		}
		for _, project := range projects {
			components = append(components, NewIdentifier(path.Base(vendor), path.Base(project)))
		}
	}

	return components, nil
}

// folders returns the immediate subdirectories of dir as slash paths.
func folders(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, path.Join(dir, e.Name()))
		}
	}
	return out, nil
}
