// internal/app/system/normalize/normalize.go

// Package normalize canonicalizes user-entered identity fields before they
// hit the database, so lookups and unique indexes behave predictably.
package normalize

import "strings"

// Email lowercases and trims an email address. Lookup by email and the
// unique index both rely on this form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name collapses internal whitespace runs and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
