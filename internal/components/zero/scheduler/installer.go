// SPDX-License-Identifier: MPL-2.0

package scheduler

import (
	"context"
	"fmt"

	"github.com/zero-cli/zero/internal/component"
	"github.com/zero-cli/zero/pkg/contracts"
)

// Package is pulled into the host project by the installer.
const Package = "github.com/robfig/cron/v3"

var stub = component.NewConfigTemplate("schedule", `// Run "schedule:run" every minute, e.g. from the system crontab:
// * * * * * cd {{ .BasePath }} && ./{{ .Binary }} schedule:run
schedule: tasks: [
{{- range .Tasks }}
	{cron: {{ .cron | quote }}, command: {{ .command | quote }}},
{{- end }}
]
`)

// Installer adds the task schedule to the project.
type Installer struct{}

func init() {
	component.Register("zero/scheduler", func() (contracts.Installer, error) {
		return &Installer{}, nil
	})
}

// Install implements contracts.Installer. A project that already has a
// schedule is left untouched and Install reports false.
func (*Installer) Install(ctx context.Context, ic contracts.InstallContext) (bool, error) {
	cs := component.ConfigStub{Section: "schedule", Template: stub}
	if cs.Configured(ic.Config()) {
		fmt.Fprintln(ic.Stdout(), "Schedule already present")
		return false, nil
	}

	if err := ic.Require(ctx, Package); err != nil {
		return false, err
	}

	data := map[string]any{
		"BasePath": ic.BasePath(),
		"Binary":   "zero",
		"Tasks":    []map[string]string{},
	}
	if def := ic.Config().String("app.default-command"); def != "" {
		if name, err := commandName(ic, def); err == nil {
			data["Tasks"] = []map[string]string{{"cron": "0 * * * *", "command": name}}
		}
	}

	cs.Data = data
	added, err := cs.AppendTo(ic)
	if err != nil || !added {
		return false, err
	}
	fmt.Fprintf(ic.Stdout(), "Schedule added to %s\n", ic.Config().Path())
	return true, nil
}

// commandName returns the registered name of the command bound under key.
func commandName(ic contracts.InstallContext, key string) (string, error) {
	v, err := ic.Container().Make(key)
	if err != nil {
		return "", err
	}
	cmd, ok := v.(contracts.Command)
	if !ok {
		return "", fmt.Errorf("%s is not a command", key)
	}
	return cmd.Cobra().Name(), nil
}
