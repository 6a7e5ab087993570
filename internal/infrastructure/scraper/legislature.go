package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

var (
	soiLabel    = regexp.MustCompile(`(?i)Statement of Intent`)
	fiscalLabel = regexp.MustCompile(`(?i)Fiscal Note`)
	textLabel   = regexp.MustCompile(`(?i)Introduced|Bill Text`)
)

// LegislatureScraper extracts document links from a bill's official page by
// matching anchor text against known labels.
type LegislatureScraper struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.LinkScraper = (*LegislatureScraper)(nil)

// NewLegislatureScraper wires an HTTP client; timeout defaults to 30s.
func NewLegislatureScraper(client *http.Client, log *slog.Logger) *LegislatureScraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &LegislatureScraper{client: client, logger: log}
}

// Scrape fetches officialURL and classifies its anchors. A non-success status
// or an unreadable page yields empty links without an error: a broken source
// page must not fail the bill it belongs to.
func (s *LegislatureScraper) Scrape(ctx context.Context, officialURL string) (domain.ScrapedLinks, error) {
	var links domain.ScrapedLinks

	base, err := url.Parse(officialURL)
	if err != nil {
		return links, fmt.Errorf("invalid official url %s: %w", officialURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, officialURL, nil)
	if err != nil {
		return links, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BillScanner/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return links, fmt.Errorf("request bill page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		s.debug("bill page returned non-success status", "url", officialURL, "status", resp.Status)
		return links, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		s.debug("bill page not parseable", "url", officialURL, "error", err)
		return links, nil
	}

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		label := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref).String()

		// Document order; the last matching anchor of a category wins.
		if soiLabel.MatchString(label) {
			links.SOIPDFURL = resolved
		}
		if fiscalLabel.MatchString(label) {
			links.FiscalPDFURL = resolved
		}
		if textLabel.MatchString(label) {
			links.TextPDFURL = resolved
		}
	})

	return links, nil
}

func (s *LegislatureScraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
