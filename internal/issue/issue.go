// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"slices"

	"github.com/charmbracelet/glamour"
)

const (
	// ConfigLoadFailedId covers a missing, unreadable or invalid configuration file.
	ConfigLoadFailedId Id = iota + 1
	// ProviderLifecycleFailedId covers a provider failing to construct, register or boot.
	ProviderLifecycleFailedId
	// InstallerNotFoundId covers a component without a registered installer.
	InstallerNotFoundId
	// ExternalProcessFailedId covers the package manager or build tool exiting non-zero.
	ExternalProcessFailedId
	// ManifestNotFoundId covers a missing or malformed zero.json manifest.
	ManifestNotFoundId
)

type (
	// Id identifies a troubleshooting guide.
	Id int

	// MarkdownMsg is guide text in Markdown.
	MarkdownMsg string

	// Issue is a troubleshooting guide rendered for the user.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		ConfigLoadFailedId: {
			id: ConfigLoadFailedId,
			mdMsg: `
# Failed to load configuration!

The application reads exactly one configuration file before any command runs.
By default this is ` + "`config/config.cue`" + ` under the project base path.

## Things you can try:
- Check that the file exists, or pass another one with ` + "`--config`" + `
- Run from the project root or pass ` + "`--base-path`" + `
- Supported formats: ` + "`.cue`, `.toml`, `.yaml`, `.json`" + `

## Example configuration:
~~~cue
app: {
  name:              "Zero"
  version:           "1.0.0"
  production:        false
  "default-command": "command.inspire"
  commands: ["command.inspire"]
  providers: ["app"]
}
~~~`,
		},
		ProviderLifecycleFailedId: {
			id: ProviderLifecycleFailedId,
			mdMsg: `
# A service provider failed!

Providers are constructed, registered and booted one after another during
startup. Any failure aborts startup before a command can run.

## Things you can try:
- Run with ` + "`--verbose`" + ` to see which provider and phase failed
- Check that every name in ` + "`app.providers`" + ` is a provider the binary knows
- Check the configuration the provider reads`,
		},
		InstallerNotFoundId: {
			id: InstallerNotFoundId,
			mdMsg: `
# Component installer not found!

Components are named ` + "`vendor/package`" + ` and each one needs an installer
registered under ` + "`Vendor.Package.Installer`" + `.

## Things you can try:
- List the available components:
~~~
$ zero component:list
~~~
- Check the component name for typos`,
		},
		ExternalProcessFailedId: {
			id: ExternalProcessFailedId,
			mdMsg: `
# An external command failed!

The package manager or the Go toolchain exited with a non-zero status.

## Things you can try:
- Read the command output above
- Check your network connection and module proxy settings
- Change the package manager command with ` + "`app.package-manager`" + ``,
		},
		ManifestNotFoundId: {
			id: ManifestNotFoundId,
			mdMsg: `
# Manifest not found!

` + "`zero.json`" + ` names the application binary in its ` + "`bin`" + ` array.

## Example manifest:
~~~json
{
  "name": "acme/tool",
  "bin": ["zero"]
}
~~~`,
		},
	}
)

// Get returns the guide registered for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Ids returns every registered guide id in ascending order.
func Ids() []Id {
	out := make([]Id, 0, len(issues))
	for id := range issues {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Id returns the guide id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guide for the terminal with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// GuideFor returns the guide attached to the first ActionableError in err's
// chain that has one.
func GuideFor(err error) *Issue {
	for err != nil {
		var ae *ActionableError
		if !errors.As(err, &ae) {
			return nil
		}
		if ae.Guide != 0 {
			return Get(ae.Guide)
		}
		err = ae.Cause
	}
	return nil
}
