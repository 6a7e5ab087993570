package openstates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

const defaultPerPage = 50

// UpstreamError reports a non-success response from the bills API. It aborts
// the whole fetch; no partial page set is returned.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("open states returned status %d", e.StatusCode)
}

// Client pages through the Open States v3 bills endpoint for one jurisdiction.
type Client struct {
	baseURL      string
	apiKey       string
	jurisdiction string
	lookbackDays int
	perPage      int
	client       *http.Client
	now          func() time.Time
}

var _ ports.BillSource = (*Client)(nil)

// NewClient wires an HTTP client; timeout defaults to 30s when the caller
// passes nil.
func NewClient(baseURL, apiKey, jurisdiction string, lookbackDays int, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      baseURL,
		apiKey:       apiKey,
		jurisdiction: jurisdiction,
		lookbackDays: lookbackDays,
		perPage:      defaultPerPage,
		client:       client,
		now:          time.Now,
	}
}

type billsPage struct {
	Results    []domain.UpstreamBill `json:"results"`
	Pagination *pagination           `json:"pagination"`
}

type pagination struct {
	MaxPage int `json:"max_page"`
}

// FetchBills accumulates every page of bills created within the lookback
// window, preserving upstream order (created_at descending). Any non-success
// page response fails the whole fetch with *UpstreamError.
func (c *Client) FetchBills(ctx context.Context) ([]domain.UpstreamBill, error) {
	createdSince := c.now().AddDate(0, 0, -c.lookbackDays).Format("2006-01-02")

	var all []domain.UpstreamBill
	page := 1
	for {
		data, err := c.fetchPage(ctx, createdSince, page)
		if err != nil {
			return nil, err
		}

		all = append(all, data.Results...)

		// A missing pagination block means the response is a single page.
		if data.Pagination == nil || page >= data.Pagination.MaxPage {
			break
		}
		page++
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, createdSince string, page int) (*billsPage, error) {
	pageURL, err := c.buildPageURL(createdSince, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request bills page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var data billsPage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode bills page %d: %w", page, err)
	}

	return &data, nil
}

func (c *Client) buildPageURL(createdSince string, page int) (string, error) {
	parsed, err := url.Parse(c.baseURL + "/bills")
	if err != nil {
		return "", fmt.Errorf("invalid base url %s: %w", c.baseURL, err)
	}

	query := parsed.Query()
	query.Set("jurisdiction", c.jurisdiction)
	query.Set("created_since", createdSince)
	query.Set("sort", "-created_at")
	query.Set("per_page", strconv.Itoa(c.perPage))
	query.Set("page", strconv.Itoa(page))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
