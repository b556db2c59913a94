package textfilter

import (
	"regexp"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")
	labelRe = regexp.MustCompile(`(?i)^\s*(room\s+)?description\s*:\s*`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Clean normalises a model completion into a single line of prose. Code
// fences, a leading "Description:" label and wrapping quotes are removed and
// runs of whitespace collapse to one space.
func Clean(text string) string {
	text = fenceRe.ReplaceAllString(text, "")
	text = spaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = labelRe.ReplaceAllString(text, "")
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			text = strings.TrimSpace(text[1 : len(text)-1])
		}
	}
	return text
}
