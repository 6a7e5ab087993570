package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"BillScanner/internal/agency"
	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
	"BillScanner/internal/summary"
)

// ReconcileError reports a failure while ingesting one upstream bill. It is
// confined to the item: the pipeline logs it and moves on.
type ReconcileError struct {
	Identifier string
	Err        error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile %s: %v", e.Identifier, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// Summary reports the outcome of one pipeline run.
type Summary struct {
	Fetched int
	Failed  int
}

// PipelineDeps wires all driven adapters into the sync pipeline.
type PipelineDeps struct {
	Source     ports.BillSource
	Scraper    ports.LinkScraper
	Repository ports.BillRepository
	SiteDomain string
	Limiter    *rate.Limiter
	Logger     *slog.Logger
}

// Pipeline implements the bill ingestion workflow: fetch every upstream bill,
// enrich each with scraped document links and synthesized summaries, and
// upsert into storage keyed by the upstream identifier.
type Pipeline struct {
	source     ports.BillSource
	scraper    ports.LinkScraper
	repository ports.BillRepository
	siteDomain string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		scraper:    deps.Scraper,
		repository: deps.Repository,
		siteDomain: deps.SiteDomain,
		limiter:    deps.Limiter,
		logger:     deps.Logger,
	}
}

// Run executes one full sync. A fetch failure is fatal; per-bill failures are
// logged and skipped so the whole batch is always attempted.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if err := p.repository.EnsureAgencies(ctx, agency.Catalog); err != nil {
		return Summary{}, fmt.Errorf("ensure agencies: %w", err)
	}

	items, err := p.source.FetchBills(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("fetch bills: %w", err)
	}
	p.info("fetched bills from upstream", "count", len(items))

	s := Summary{Fetched: len(items)}
	for _, item := range items {
		if err := p.reconcile(ctx, item); err != nil {
			s.Failed++
			p.warn("reconcile failed", "identifier", item.Identifier, "error", err)
		}
	}

	return s, nil
}

func (p *Pipeline) reconcile(ctx context.Context, item domain.UpstreamBill) error {
	if err := p.reconcileItem(ctx, item); err != nil {
		return &ReconcileError{Identifier: item.Identifier, Err: err}
	}
	return nil
}

func (p *Pipeline) reconcileItem(ctx context.Context, item domain.UpstreamBill) error {
	record := deriveRecord(item, p.siteDomain)

	if record.OfficialURL != "" && p.scraper != nil {
		// Courtesy throttle toward the legislature site, not a correctness
		// mechanism.
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		links, err := p.scraper.Scrape(ctx, record.OfficialURL)
		if err != nil {
			return err
		}
		record.TextPDFURL = links.TextPDFURL
		record.SOIPDFURL = links.SOIPDFURL
		record.FiscalPDFURL = links.FiscalPDFURL
	}

	// Full bill text is never fetched; the title stands in for it.
	record.GeneralSummary, record.ImpactSummary = summary.Synthesize(record.Title, record.Title)

	id, err := p.repository.UpsertBill(ctx, record)
	if err != nil {
		return err
	}

	// Additive only: associations from earlier runs stay even when the
	// current title no longer matches.
	for _, a := range agency.Detect(record.Title) {
		if err := p.repository.LinkAgency(ctx, id, a.Slug); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
