// SPDX-License-Identifier: MPL-2.0

// Package config loads the application configuration into a read-only Store.
//
// Exactly one file is read, by default config/config.cue under the project
// base path. The format follows the file extension: CUE files are validated
// against the embedded #Config schema, TOML, YAML and JSON files are decoded
// as-is. Values land in a private Viper instance, so ZERO_* environment
// variables override file values (ZERO_APP_PRODUCTION=true overrides
// app.production).
package config
