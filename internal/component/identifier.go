// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// InstallerSuffix ends every installer name.
	InstallerSuffix = "Installer"
	// NamespaceSeparator joins installer name segments.
	NamespaceSeparator = "."
)

// ErrInvalidIdentifier is returned for names that are not "vendor/package".
var ErrInvalidIdentifier = errors.New("invalid component identifier")

// Identifier names a component as "vendor/package", lower-cased.
type Identifier string

// NewIdentifier builds an identifier from an organization and project folder name.
func NewIdentifier(vendor, pkg string) Identifier {
	return Identifier(strings.ToLower(vendor) + "/" + strings.ToLower(pkg))
}

// ParseIdentifier normalizes s and checks it has exactly two non-empty segments.
func ParseIdentifier(s string) (Identifier, error) {
	vendor, pkg, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || vendor == "" || pkg == "" || strings.Contains(pkg, "/") {
		return "", fmt.Errorf("%w: %q (want vendor/package)", ErrInvalidIdentifier, s)
	}
	return NewIdentifier(vendor, pkg), nil
}

// String implements fmt.Stringer.
func (id Identifier) String() string { return string(id) }

// Equal compares two identifiers case-insensitively.
func (id Identifier) Equal(other Identifier) bool {
	return strings.EqualFold(string(id), string(other))
}

// InstallerName maps an identifier to its installer name: every segment is
// title-cased, segments are joined with NamespaceSeparator and
// InstallerSuffix is appended. "acme/widget" becomes "Acme.Widget.Installer".
func InstallerName(id Identifier) string {
	segments := strings.Split(string(id), "/")
	for i, s := range segments {
		segments[i] = titleCase(s)
	}
	return strings.Join(append(segments, InstallerSuffix), NamespaceSeparator)
}

// titleCase upper-cases the first letter of s and of every word after a
// space, leaving the rest untouched.
func titleCase(s string) string {
	var b strings.Builder
	upper := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if upper {
			r = unicode.ToUpper(r)
		}
		upper = r == ' '
		b.WriteRune(r)
	}
	return b.String()
}
