package domain

import "time"

// Agency is a state agency referenced by bills. Hints drive text matching and
// are never persisted or serialized.
type Agency struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Slug  string   `json:"slug"`
	Hints []string `json:"-"`
}

// UpstreamBill is the Open States representation of a bill, decoded at the
// fetch boundary. Transient; never persisted as-is.
type UpstreamBill struct {
	ID              string        `json:"id"`
	Identifier      string        `json:"identifier"`
	Session         string        `json:"session"`
	Title           string        `json:"title"`
	LatestAction    string        `json:"latest_action"`
	Classification  []string      `json:"classification"`
	FirstActionDate string        `json:"first_action_date"`
	CreatedAt       string        `json:"created_at"`
	Sponsorships    []Sponsorship `json:"sponsorships"`
	Actions         []Action      `json:"actions"`
	Sources         []Source      `json:"sources"`
}

// Sponsorship names one sponsor of a bill.
type Sponsorship struct {
	Name string `json:"name"`
}

// Action is a single step in a bill's legislative history.
type Action struct {
	Description  string `json:"description"`
	Organization string `json:"organization"`
}

// Source points at an official page for the bill.
type Source struct {
	URL string `json:"url"`
}

// ScrapedLinks holds document URLs extracted from the legislature's bill page.
// Empty string means the document was not found; the latest scrape always wins.
type ScrapedLinks struct {
	TextPDFURL   string
	SOIPDFURL    string
	FiscalPDFURL string
}

// BillRecord is the flattened snapshot written to storage on each
// reconciliation. Empty strings map to NULL columns.
type BillRecord struct {
	OSID           string
	Number         string
	Session        string
	Title          string
	Status         string
	IntroducedDate string
	Sponsor        string
	Committee      string
	OfficialURL    string
	TextPDFURL     string
	SOIPDFURL      string
	FiscalPDFURL   string
	GeneralSummary string
	ImpactSummary  string
}

// Bill is the persisted entity served by the query API and snapshot export.
type Bill struct {
	ID             int64     `json:"id"`
	OSID           string    `json:"os_id"`
	Number         string    `json:"number"`
	Session        string    `json:"session"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	IntroducedDate string    `json:"introduced_date"`
	Sponsor        string    `json:"sponsor"`
	Committee      string    `json:"committee"`
	OfficialURL    string    `json:"official_url"`
	TextPDFURL     string    `json:"text_pdf_url"`
	SOIPDFURL      string    `json:"soi_pdf_url"`
	FiscalPDFURL   string    `json:"fiscal_pdf_url"`
	GeneralSummary string    `json:"general_summary"`
	ImpactSummary  string    `json:"impact_summary"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	Agencies       []Agency  `json:"agencies"`
}

// BillFilter carries optional list predicates; zero values mean "no filter".
type BillFilter struct {
	Search   string
	Agency   string
	Status   string
	Session  string
	Page     int
	PageSize int
}
