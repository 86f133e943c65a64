package chat

import (
	"regexp"
	"strings"
)

var (
	boldRe      = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe    = regexp.MustCompile(`\*([^*]+)\*`)
	headingRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	bulletRe    = regexp.MustCompile(`(?m)^\s*[-*•]\s+`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
	inlineCode  = regexp.MustCompile("`([^`]*)`")
	fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\n?(.*?)```")
)

// SanitizeReply strips markdown decoration out of a model reply so the
// transcript stays plain text. Content inside code fences is kept, the fences
// are not.
func SanitizeReply(s string) string {
	s = fencedBlock.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = headingRe.ReplaceAllString(s, "")
	s = bulletRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
