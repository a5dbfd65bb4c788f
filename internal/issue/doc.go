// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and Markdown troubleshooting guides.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. Guides are keyed by Id and rendered with glamour
// when the CLI runs in verbose mode.
package issue
