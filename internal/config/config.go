// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zero-cli/zero/internal/issue"
	"github.com/zero-cli/zero/pkg/contracts"
)

const (
	// DefaultPath is the configuration file read when none is given,
	// relative to the base path.
	DefaultPath = "config/config.cue"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "ZERO"
)

// ErrConfigLoad is the sentinel matched by every LoadError.
var ErrConfigLoad = errors.New("configuration load failed")

type (
	// LoadOptions selects the configuration file.
	LoadOptions struct {
		// BasePath is the project root. Relative paths are resolved against it.
		BasePath string
		// Path overrides DefaultPath when set.
		Path string
	}

	// LoadError reports a configuration file that is missing, unreadable or
	// invalid. Startup cannot continue without configuration.
	LoadError struct {
		Path string
		Err  error
	}

	// Store is the loaded configuration. It has no setters: after Load the
	// values only change through environment overrides.
	Store struct {
		v    *viper.Viper
		path string
	}
)

var _ contracts.Config = (*Store)(nil)

// Error implements error.
func (e *LoadError) Error() string {
	return fmt.Sprintf("load configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConfigLoad) match every LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrConfigLoad }

// ResolvePath returns the absolute-or-base-relative path Load would read.
func ResolvePath(opts LoadOptions) string {
	p := opts.Path
	if p == "" {
		p = DefaultPath
	}
	if filepath.IsAbs(p) || opts.BasePath == "" {
		return p
	}
	return filepath.Join(opts.BasePath, p)
}

// Load reads the configuration file selected by opts. Every failure is a
// *LoadError wrapped in an issue.ActionableError.
func Load(ctx context.Context, opts LoadOptions) (*Store, error) {
	path := ResolvePath(opts)

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load configuration canceled: %w", ctx.Err())
	default:
	}

	v, err := read(path)
	if err != nil {
		ec := issue.NewErrorContext().
			WithOperation("load configuration").
			WithGuide(issue.ConfigLoadFailedId).
			Wrap(&LoadError{Path: path, Err: err})
		if errors.Is(err, os.ErrNotExist) {
			ec.WithSuggestion("Create " + path + " or point --config at an existing file")
			ec.WithSuggestion("Run from the project root or pass --base-path")
		} else {
			ec.WithSuggestion("Check the file syntax and the values against the configuration schema")
		}
		return nil, ec.BuildError()
	}

	return &Store{v: v, path: path}, nil
}

// FromMap builds a Store from an in-memory tree. It is used by tests and by
// hosts that assemble configuration in code.
func FromMap(values map[string]any) (*Store, error) {
	v := newViper()
	if err := v.MergeConfigMap(values); err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}
	return &Store{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Path returns the file the store was loaded from ("" for FromMap stores).
func (s *Store) Path() string {
	return s.path
}

// Has reports whether key is set in the file or the environment.
func (s *Store) Has(key string) bool {
	return s.v.IsSet(key)
}

// Get returns the value at key, or def when key is not set.
func (s *Store) Get(key string, def any) any {
	if !s.v.IsSet(key) {
		return def
	}
	return s.v.Get(key)
}

// String returns the value at key as a string ("" when unset).
func (s *Store) String(key string) string {
	return s.v.GetString(key)
}

// Bool returns the value at key as a bool (false when unset).
func (s *Store) Bool(key string) bool {
	return s.v.GetBool(key)
}

// Int returns the value at key as an int (0 when unset).
func (s *Store) Int(key string) int {
	return s.v.GetInt(key)
}

// StringSlice returns the list at key in declared order (nil when unset).
func (s *Store) StringSlice(key string) []string {
	if !s.v.IsSet(key) {
		return nil
	}
	return s.v.GetStringSlice(key)
}

// Sub returns the raw value tree below key (nil when unset), for decoding
// sections such as "schedule.tasks".
func (s *Store) Sub(key string) any {
	if !s.v.IsSet(key) {
		return nil
	}
	return s.v.Get(key)
}
