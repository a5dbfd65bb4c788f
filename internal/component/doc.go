// SPDX-License-Identifier: MPL-2.0

// Package component discovers installable components and dispatches their
// installers.
//
// Components live in a two-level tree, <root>/<vendor>/<package>, and are
// named "vendor/package". Each component registers its installer factory
// under the installer name derived from its identifier, for example
// "Acme.Widget.Installer" for "acme/widget". The Dispatcher turns a chosen
// identifier into that name and runs the registered installer.
package component
