// Package textfilter tidies model output before it reaches the console and
// softens profanity for family-friendly content ratings.
package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps each filtered word to its family-friendly alternative.
var replacements = map[string]string{
	"fuck":         "fudge",
	"motherfucker": "mother-trucker",
	"shit":         "shoot",
	"bullshit":     "baloney",
	"horseshit":    "nonsense",
	"shithead":     "jerk",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"jackass":      "jerk",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"dick":         "jerk",
	"dickhead":     "jerk",
	"prick":        "jerk",
	"douche":       "jerk",
	"douchebag":    "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
	"cock":         "[censored]",
}

var titleCaser = cases.Title(language.English)

// ProfanityFilter replaces profanity with milder words, keeping the case
// shape of the original.
type ProfanityFilter struct {
	re *regexp.Regexp
}

// NewProfanityFilter compiles the word list into a single matcher.
func NewProfanityFilter() *ProfanityFilter {
	words := make([]string, 0, len(replacements))
	for w := range replacements {
		words = append(words, regexp.QuoteMeta(w))
	}
	// Longest first so "asshole" wins over "ass".
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	pattern := `(?i)\b(` + strings.Join(words, "|") + `)(s)?\b`
	return &ProfanityFilter{re: regexp.MustCompile(pattern)}
}

// FilterText replaces every filtered word, plural forms included.
func (pf *ProfanityFilter) FilterText(text string) string {
	return pf.re.ReplaceAllStringFunc(text, func(match string) string {
		sub := pf.re.FindStringSubmatch(match)
		word, plural := sub[1], sub[2]
		repl, ok := replacements[strings.ToLower(word)]
		if !ok {
			return match
		}
		out := preserveCase(word, repl)
		if plural != "" && !strings.HasPrefix(repl, "[") {
			out += plural
		}
		return out
	})
}

// ContainsProfanity reports whether any filtered word appears in text.
func (pf *ProfanityFilter) ContainsProfanity(text string) bool {
	return pf.re.MatchString(text)
}

func preserveCase(original, replacement string) string {
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return strings.ToLower(replacement)
	case titleCaser.String(strings.ToLower(original)) == original:
		return titleCaser.String(replacement)
	}

	orig := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent determines if content should be filtered based on rating
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
