package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"BillScanner/internal/config"
	"BillScanner/internal/export"
	"BillScanner/internal/infrastructure/openstates"
	"BillScanner/internal/infrastructure/scheduler"
	"BillScanner/internal/infrastructure/scraper"
	"BillScanner/internal/infrastructure/storage"
	"BillScanner/internal/logging"
	"BillScanner/internal/server"
	"BillScanner/internal/usecase"
)

// Application wires config to adapters, use cases and lifecycle orchestration.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repository *storage.PostgresRepository
	pipeline   *usecase.Pipeline
}

// New connects storage and builds the sync pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	pool, err := storage.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	repository := storage.NewPostgresRepository(pool)
	if err := repository.EnsureSchema(ctx); err != nil {
		repository.Close()
		return nil, err
	}

	source := openstates.NewClient(
		cfg.OpenStates.BaseURL,
		cfg.OpenStates.APIKey,
		cfg.OpenStates.Jurisdiction,
		cfg.OpenStates.LookbackDays,
		&http.Client{Timeout: time.Duration(cfg.OpenStates.TimeoutSeconds) * time.Second},
	)

	links := scraper.NewLegislatureScraper(
		&http.Client{Timeout: time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second},
		baseLogger.With("component", "scraper"),
	)

	var limiter *rate.Limiter
	if cfg.Scraper.DelayMillis > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(cfg.Scraper.DelayMillis)*time.Millisecond), 1)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Scraper:    links,
		Repository: repository,
		SiteDomain: cfg.Scraper.SiteDomain,
		Limiter:    limiter,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		repository: repository,
		pipeline:   pipeline,
	}, nil
}

// Close releases the database pool.
func (a *Application) Close() {
	if a.repository != nil {
		a.repository.Close()
	}
}

// Sync performs a single pipeline run and logs the outcome.
func (a *Application) Sync(ctx context.Context) error {
	summary, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("sync complete", "fetched", summary.Fetched, "failed", summary.Failed)
	return nil
}

// Watch re-runs the pipeline on the configured interval until ctx is done.
func (a *Application) Watch(ctx context.Context) error {
	driver := scheduler.NewIntervalScheduler(time.Duration(a.cfg.Scheduler.IntervalHours) * time.Hour)
	runner := usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))

	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return runner.Stop(context.Background())
}

// Serve runs the query API until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    a.cfg.Server.Addr,
		Handler: server.New(a.repository, a.logger.With("component", "server")).Router(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	a.logger.Info("query api listening", "addr", a.cfg.Server.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Export writes the JSON snapshot consumed by the static variant of the app.
func (a *Application) Export(ctx context.Context, path string) error {
	return export.NewSnapshot(a.repository, a.logger.With("component", "export")).Write(ctx, path)
}
