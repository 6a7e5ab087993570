package usecase

import (
	"context"
	"log/slog"
	"time"

	"BillScanner/internal/ports"
)

// Scheduler drives recurring sync runs through a ports.Scheduler.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring sync jobs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, log *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, logger: log}
}

// Start registers the pipeline with the provided scheduler. Runs are strictly
// sequential; a run's failure only affects that run.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		summary, err := s.pipeline.Run(ctx)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled sync failed", "error", err)
			}
			return
		}
		if s.logger != nil {
			s.logger.Info("scheduled sync complete",
				"trigger", trigger.Format(time.RFC3339),
				"fetched", summary.Fetched,
				"failed", summary.Failed)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
