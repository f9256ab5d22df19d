// Package textnorm normalizes free text coming from the public forms.
package textnorm

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var strict = bluemonday.StrictPolicy()

// Fold lower-cases s and removes diacritics so "Pelígro" and "peligro" compare equal.
// ñ folds to n.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Clean strips markup from submitted text and trims it.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// CleanPtr applies Clean to an optional value; blank results become nil.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Clean(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
