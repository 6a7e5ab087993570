package ports

import (
	"context"
	"time"

	"BillScanner/internal/domain"
)

// BillSource pulls raw bill records from the upstream legislative API.
type BillSource interface {
	FetchBills(ctx context.Context) ([]domain.UpstreamBill, error)
}

// LinkScraper extracts document links from a bill's official source page.
// Implementations treat broken pages as "no links found", not as failures.
type LinkScraper interface {
	Scrape(ctx context.Context, officialURL string) (domain.ScrapedLinks, error)
}

// BillRepository owns all writes to the bills, agencies and bill_agencies
// tables, plus the read queries served by the HTTP API and snapshot export.
type BillRepository interface {
	EnsureSchema(ctx context.Context) error
	EnsureAgencies(ctx context.Context, seed []domain.Agency) error
	UpsertBill(ctx context.Context, record domain.BillRecord) (int64, error)
	LinkAgency(ctx context.Context, billID int64, slug string) error
	ListBills(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error)
	GetBill(ctx context.Context, id int64) (*domain.Bill, error)
}

// Scheduler controls when recurring sync runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
