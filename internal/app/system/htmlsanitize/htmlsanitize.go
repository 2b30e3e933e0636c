// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips markup from user-supplied text fields.
// Project and task titles/descriptions are stored and served as plain
// text; any HTML a client sends is removed, not escaped.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Plain removes all HTML elements and attributes from s and unescapes the
// remaining entities, returning plain text.
func Plain(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
