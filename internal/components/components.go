// SPDX-License-Identifier: MPL-2.0

// Package components bundles the installable components shipped with the
// framework. Each one lives in <vendor>/<package>, registers its installer
// when imported, and may contribute a provider that wires it into the
// application once it is configured.
package components

import (
	"embed"
	"io/fs"

	"github.com/zero-cli/zero/internal/components/zero/database"
	"github.com/zero-cli/zero/internal/components/zero/scheduler"
	"github.com/zero-cli/zero/internal/provider"
)

//go:embed zero
var tree embed.FS

// FS is the bundled installers tree, rooted at the vendor directories.
var FS fs.FS = tree

// Providers returns the component providers in the order they run.
func Providers() []provider.Descriptor {
	return []provider.Descriptor{
		{Name: "zero/database", New: database.NewProvider},
		{Name: "zero/scheduler", New: scheduler.NewProvider},
	}
}
