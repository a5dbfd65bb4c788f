// SPDX-License-Identifier: MPL-2.0

package database

import (
	"context"
	"fmt"

	"github.com/zero-cli/zero/internal/component"
	"github.com/zero-cli/zero/pkg/contracts"
)

// Package is pulled into the host project by the installer.
const Package = "github.com/mattn/go-sqlite3"

var stub = component.NewConfigTemplate("database", `database: {
	driver: {{ .Driver | quote }}
	dsn:    {{ .DSN | quote }}
	"max-open-conns": {{ .MaxOpenConns | default 1 }}
}
`)

// Installer adds a SQLite database to the project.
type Installer struct{}

func init() {
	component.Register("zero/database", func() (contracts.Installer, error) {
		return &Installer{}, nil
	})
}

// Install implements contracts.Installer. A project that already configures
// a database is left untouched and Install reports false.
func (*Installer) Install(ctx context.Context, ic contracts.InstallContext) (bool, error) {
	cs := component.ConfigStub{
		Section:  "database",
		Template: stub,
		Data: map[string]any{
			"Driver": DriverSQLite,
			"DSN":    DefaultSQLitePath,
		},
	}
	if cs.Configured(ic.Config()) {
		fmt.Fprintln(ic.Stdout(), "Database configuration already present")
		return false, nil
	}

	if err := ic.Require(ctx, Package); err != nil {
		return false, err
	}
	added, err := cs.AppendTo(ic)
	if err != nil || !added {
		return false, err
	}
	fmt.Fprintf(ic.Stdout(), "Database configuration added to %s\n", ic.Config().Path())
	return true, nil
}
