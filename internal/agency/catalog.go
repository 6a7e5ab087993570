package agency

import (
	"regexp"

	"BillScanner/internal/domain"
)

// Catalog is the static seed of agencies the tracker knows about. Order is
// significant: Detect reports matches in declaration order.
var Catalog = []domain.Agency{
	{Name: "Department of Health and Human Services", Slug: "dhhs", Hints: []string{"Department of Health and Human Services", "DHHS"}},
	{Name: "Department of Revenue", Slug: "revenue", Hints: []string{"Department of Revenue"}},
	{Name: "Department of Education", Slug: "education", Hints: []string{"Department of Education", "NDE"}},
	{Name: "Department of Transportation", Slug: "dot", Hints: []string{"Department of Transportation", "NDOT"}},
	{Name: "State Fire Marshal", Slug: "sfm", Hints: []string{"State Fire Marshal"}},
	{Name: "Department of Labor", Slug: "labor", Hints: []string{"Department of Labor"}},
}

// hintPatterns holds one compiled word-boundary pattern per hint, keyed by
// agency slug. Hints are matched literally, so metacharacters are quoted.
var hintPatterns = compileHints(Catalog)

func compileHints(catalog []domain.Agency) map[string][]*regexp.Regexp {
	patterns := make(map[string][]*regexp.Regexp, len(catalog))
	for _, a := range catalog {
		for _, h := range a.Hints {
			re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(h) + `\b`)
			patterns[a.Slug] = append(patterns[a.Slug], re)
		}
	}
	return patterns
}

// Detect returns the catalog agencies whose hints appear in text as
// case-insensitive whole words, in catalog order, each at most once.
func Detect(text string) []domain.Agency {
	if text == "" {
		return nil
	}

	var found []domain.Agency
	for _, a := range Catalog {
		for _, re := range hintPatterns[a.Slug] {
			if re.MatchString(text) {
				found = append(found, a)
				break
			}
		}
	}
	return found
}
