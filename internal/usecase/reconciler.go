package usecase

import (
	"regexp"
	"strings"

	"BillScanner/internal/domain"
)

var committeePattern = regexp.MustCompile(`(?i)committee`)

// deriveRecord flattens one upstream bill into the persisted snapshot shape.
// Pure; scraped links and summaries are filled in by the pipeline.
func deriveRecord(item domain.UpstreamBill, siteDomain string) domain.BillRecord {
	title := item.Title
	if title == "" {
		title = "(no title)"
	}

	status := item.LatestAction
	if status == "" {
		status = strings.Join(item.Classification, ",")
	}

	introduced := item.FirstActionDate
	if introduced == "" {
		introduced = item.CreatedAt
	}
	if len(introduced) > 10 {
		introduced = introduced[:10]
	}

	var sponsor string
	if len(item.Sponsorships) > 0 {
		sponsor = item.Sponsorships[0].Name
	}

	var committee string
	for _, a := range item.Actions {
		if committeePattern.MatchString(a.Description) {
			committee = a.Organization
			break
		}
	}

	var official string
	for _, s := range item.Sources {
		if strings.Contains(s.URL, siteDomain) {
			official = s.URL
			break
		}
	}

	return domain.BillRecord{
		OSID:           item.ID,
		Number:         item.Identifier,
		Session:        item.Session,
		Title:          title,
		Status:         status,
		IntroducedDate: introduced,
		Sponsor:        sponsor,
		Committee:      committee,
		OfficialURL:    official,
	}
}
