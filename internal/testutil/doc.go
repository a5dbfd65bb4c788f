// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers cover file system fixtures (MustMkdirAll, MustWriteFile,
// WriteTree) and working directory changes (MustChdir).
package testutil
