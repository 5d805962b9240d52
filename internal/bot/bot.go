// Package bot implements the posting run and its lifecycle: a single batch
// run, or a long-running service that triggers the run on a schedule.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DailyJobName names the posting job in the scheduler.
const DailyJobName = "daily_post"

// Service keeps the scheduler alive until its context is cancelled.
type Service struct {
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewService creates a service around an already configured scheduler.
func NewService(logger *slog.Logger, scheduler *Scheduler) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:    logger.With("component", "service"),
		scheduler: scheduler,
	}
}

// PosterJob returns the scheduler job running p on schedule.
func PosterJob(p *Poster, schedule string) Job {
	return Job{
		Name:     DailyJobName,
		Schedule: schedule,
		Task: func(ctx context.Context) error {
			report, err := p.Run(ctx)
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d events failed to post", report.Failed, report.Fetched)
			}
			return nil
		},
	}
}

// Run starts the scheduler and blocks until ctx is cancelled or the
// scheduler fails to start. Cancellation is a graceful stop and returns nil.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("Starting service...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting scheduler...")
		if err := s.scheduler.Start(gCtx); err != nil {
			s.logger.Error("Failed to start scheduler", "error", err)
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		s.logger.Info("Shutdown signal received, stopping scheduler...")

		if err := s.scheduler.Stop(); err != nil {
			s.logger.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	s.logger.Info("Service running. Waiting for shutdown signal or error...")
	err := g.Wait()

	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Service stopped due to error", "error", err)
		return err
	}

	s.logger.Info("Service stopped gracefully.")
	return nil
}
