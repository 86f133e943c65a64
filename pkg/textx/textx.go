// Package textx provides small text utilities used across the project.
package textx

import (
	"regexp"
	"strings"
)

var (
	punctRun = regexp.MustCompile(`[(){}\[\].,/\\\-_+]+`)
	spaceRun = regexp.MustCompile(`\s+`)
	nonASCII = regexp.MustCompile(`[^\x00-\x7F]+`)
)

// Normalize canonicalizes a text fragment for comparison: punctuation runs
// become a single space, whitespace collapses, ends are trimmed.
// Both sides of any exact or fuzzy comparison must go through Normalize,
// otherwise match quality degrades silently.
func Normalize(s string) string {
	s = punctRun.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripNonASCII replaces non-ASCII runs with a single space. Tokenizers choke
// on encoding noise carried over from extracted documents.
func StripNonASCII(s string) string {
	return nonASCII.ReplaceAllString(s, " ")
}

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	// strip control chars outside tab/newline/carriage return
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
