// Package slug derives lowercase, hyphenated, URL-safe identifiers from
// human-readable names.
//
// The same derivation is used for community slugs (globally unique) and
// discussion slugs (unique within a community); only the uniqueness scope
// differs, and that is enforced by indexes, not here.
package slug

import (
	"strings"
	"unicode"
)

// MaxLen caps derived slugs so index keys stay small.
const MaxLen = 80

// Make derives a slug from name:
// lowercase → trim → strip characters outside [a-z0-9 space hyphen] →
// collapse whitespace runs to a single hyphen → collapse repeated
// hyphens → trim leading/trailing hyphens.
//
// Returns "" when nothing URL-safe survives; callers treat that as an
// invalid name.
func Make(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	// whitespace runs → single hyphen
	fields := strings.Fields(b.String())
	s = strings.Join(fields, "-")

	// repeated hyphens → single hyphen
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if len(s) > MaxLen {
		s = strings.Trim(s[:MaxLen], "-")
	}
	return s
}

// Valid reports whether s is already a well-formed slug: the derivation
// applied to s returns s itself, and s is non-empty.
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
