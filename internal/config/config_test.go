// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/internal/testutil"
)

const sampleCUE = `
app: {
	name:              "Acme"
	version:           "1.2.3"
	production:        true
	"default-command": "command.inspire"
	commands: ["command.b", "command.a"]
	providers: ["app", "routes"]
}
database: {
	driver: "sqlite3"
	dsn:    "file:acme.db"
}
`

func TestLoad_CUE(t *testing.T) {
	base := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(base, DefaultPath), sampleCUE)

	s, err := Load(context.Background(), LoadOptions{BasePath: base})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := s.String("app.name"); got != "Acme" {
		t.Errorf("app.name = %q, want Acme", got)
	}
	if got := s.String("app.version"); got != "1.2.3" {
		t.Errorf("app.version = %q, want 1.2.3", got)
	}
	if !s.Bool("app.production") {
		t.Error("app.production = false, want true")
	}
	if got := s.String("app.default-command"); got != "command.inspire" {
		t.Errorf("app.default-command = %q", got)
	}
	if got := s.StringSlice("app.commands"); !slices.Equal(got, []string{"command.b", "command.a"}) {
		t.Errorf("app.commands = %v, want declared order", got)
	}
	if got := s.String("database.driver"); got != "sqlite3" {
		t.Errorf("database.driver = %q", got)
	}
	if s.Path() != filepath.Join(base, DefaultPath) {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestLoad_OtherFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "toml",
			file:    "config.toml",
			content: "[app]\nname = \"Acme\"\ncommands = [\"command.a\"]\nproduction = true\n",
		},
		{
			name:    "yaml",
			file:    "config.yaml",
			content: "app:\n  name: Acme\n  commands: [command.a]\n  production: true\n",
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"app": {"name": "Acme", "commands": ["command.a"], "production": true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(base, tt.file), tt.content)

			s, err := Load(context.Background(), LoadOptions{BasePath: base, Path: tt.file})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if s.String("app.name") != "Acme" || !s.Bool("app.production") {
				t.Errorf("unexpected values: name=%q production=%v", s.String("app.name"), s.Bool("app.production"))
			}
			if got := s.StringSlice("app.commands"); !slices.Equal(got, []string{"command.a"}) {
				t.Errorf("app.commands = %v", got)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), LoadOptions{BasePath: t.TempDir()})
	if err == nil {
		t.Fatal("Load() with missing file should fail")
	}
	if !errors.Is(err, ErrConfigLoad) {
		t.Errorf("errors.Is(err, ErrConfigLoad) = false: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false: %v", err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %T", err)
	}
	if ae.Guide != issue.ConfigLoadFailedId || len(ae.Suggestions) == 0 {
		t.Errorf("unexpected ActionableError: %+v", ae)
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	tests := map[string]string{
		"unknown app key":  `app: {colour: "blue"}`,
		"wrong type":       `app: {production: "yes"}`,
		"unknown driver":   `database: {driver: "oracle"}`,
		"syntax error":     `app: {name: }`,
		"commands not str": `app: {commands: [1, 2]}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			base := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(base, DefaultPath), content)

			_, err := Load(context.Background(), LoadOptions{BasePath: base})
			if !errors.Is(err, ErrConfigLoad) {
				t.Errorf("Load() error = %v, want ErrConfigLoad", err)
			}
		})
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	base := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(base, "config.ini"), "name=x")

	_, err := Load(context.Background(), LoadOptions{BasePath: base, Path: "config.ini"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, LoadOptions{BasePath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestStore_EnvOverride(t *testing.T) {
	base := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(base, DefaultPath), `app: {production: false}`)
	t.Setenv("ZERO_APP_PRODUCTION", "true")
	t.Setenv("ZERO_APP_DEFAULT_COMMAND", "command.env")

	s, err := Load(context.Background(), LoadOptions{BasePath: base})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.Bool("app.production") {
		t.Error("ZERO_APP_PRODUCTION should override app.production")
	}
	if got := s.String("app.default-command"); got != "command.env" {
		t.Errorf("app.default-command = %q, want command.env", got)
	}
}

func TestStore_GetDefault(t *testing.T) {
	s, err := FromMap(map[string]any{"app": map[string]any{"name": "Acme"}})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	if got := s.Get("app.version", "dev"); got != "dev" {
		t.Errorf("Get(app.version, dev) = %v, want dev", got)
	}
	if got := s.Get("app.name", "x"); got != "Acme" {
		t.Errorf("Get(app.name) = %v, want Acme", got)
	}
	if s.Has("app.providers") {
		t.Error("Has(app.providers) = true for unset key")
	}
	if s.StringSlice("app.providers") != nil {
		t.Error("StringSlice(unset) should be nil")
	}
}

func TestStore_Sub(t *testing.T) {
	s, err := FromMap(map[string]any{"schedule": map[string]any{
		"tasks": []any{map[string]any{"cron": "@hourly", "command": "inspire"}},
	}})
	if err != nil {
		t.Fatalf("FromMap() error = %v", err)
	}

	tasks, ok := s.Sub("schedule.tasks").([]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("Sub(schedule.tasks) = %#v, want a one-element list", s.Sub("schedule.tasks"))
	}
	if task, _ := tasks[0].(map[string]any); task["command"] != "inspire" {
		t.Errorf("Sub(schedule.tasks)[0] = %#v", tasks[0])
	}
	if got := s.Sub("database"); got != nil {
		t.Errorf("Sub(unset) = %#v, want nil", got)
	}
}

func TestResolvePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "x.cue")
	tests := []struct {
		opts LoadOptions
		want string
	}{
		{LoadOptions{}, DefaultPath},
		{LoadOptions{BasePath: "/srv/app"}, filepath.Join("/srv/app", DefaultPath)},
		{LoadOptions{BasePath: "/srv/app", Path: "cfg.toml"}, filepath.Join("/srv/app", "cfg.toml")},
		{LoadOptions{BasePath: "/srv/app", Path: abs}, abs},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.opts); got != tt.want {
			t.Errorf("ResolvePath(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}
