package summary

import (
	"regexp"
	"unicode/utf8"
)

const (
	sourceLimit  = 500
	generalLimit = 400

	// Placeholder until real impact analysis exists; independent of input so
	// downstream consumers cannot mistake it for content-derived insight.
	impactBoilerplate = "Likely impacts primary administering agencies referenced in the statement/fiscal note; operational and fiscal changes possible."
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Synthesize derives a short general summary and a fixed impact statement from
// a bill's title and source text. Deterministic, no I/O. Truncation is a hard
// rune-count cut, not word-aware.
func Synthesize(title, source string) (general, impact string) {
	clean := truncate(whitespaceRuns.ReplaceAllString(source, " "), sourceLimit)
	general = truncate(title+". "+clean, generalLimit)
	return general, impactBoilerplate
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
