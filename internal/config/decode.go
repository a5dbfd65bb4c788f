// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// maxFileSize caps the configuration file read into memory.
const maxFileSize = 1 << 20

//go:embed schema.cue
var schema string

// ErrUnsupportedFormat is returned for a configuration file extension no
// decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// read loads path into a fresh Viper instance using the decoder matching the
// file extension.
func read(path string) (*viper.Viper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("file is %d bytes, limit is %d", len(data), maxFileSize)
	}

	v := newViper()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	if ext == "json" {
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return v, nil
	}

	var tree map[string]any
	switch ext {
	case "cue":
		tree, err = decodeCUE(data, path)
	case "toml":
		err = toml.Unmarshal(data, &tree)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &tree)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ext, err)
	}

	if err := v.MergeConfigMap(tree); err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}
	return v, nil
}

// decodeCUE compiles data, unifies it with #Config and decodes the result.
func decodeCUE(data []byte, path string) (map[string]any, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compile configuration schema: %w", err)
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if err := userValue.Err(); err != nil {
		return nil, err
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}

	var tree map[string]any
	if err := unified.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}
