// internal/app/system/namecheck/namecheck.go

// Package namecheck cleans caller-supplied display names (team names)
// before they are stored. Names are treated as plain text: all markup is
// stripped, whitespace collapsed, and length capped.
package namecheck

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxLength is the longest stored display name, in runes.
const MaxLength = 40

var ErrEmptyName = errors.New("name is empty after sanitization")

// strict strips every tag and attribute; shared and safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// TeamName sanitizes a team name. Markup is removed entirely (a name is
// never rendered as HTML), entities are decoded back to text, runs of
// whitespace collapse to single spaces, and the result is truncated to
// MaxLength. Returns ErrEmptyName when nothing printable remains.
func TeamName(raw string) (string, error) {
	cleaned := html.UnescapeString(strict.Sanitize(raw))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "", ErrEmptyName
	}
	// Truncate on rune boundaries so a multi-byte character is never
	// split into invalid UTF-8.
	if runes := []rune(cleaned); len(runes) > MaxLength {
		cleaned = strings.TrimSpace(string(runes[:MaxLength]))
	}
	return cleaned, nil
}
