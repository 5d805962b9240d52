package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// TaskFunc is a unit of scheduled work.
type TaskFunc func(ctx context.Context) error

// Job binds a task to a cron expression.
type Job struct {
	Name     string
	Schedule string // standard five-field cron expression
	Task     TaskFunc
}

// Scheduler runs jobs on their cron schedules using the gocron library.
// A job never overlaps itself: a trigger that fires while the previous run
// is still posting is rescheduled.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	jobs      []Job
	mu        sync.Mutex // To protect access during start/stop
	running   bool
	closed    bool
}

// NewScheduler creates a scheduler evaluating cron expressions in loc.
func NewScheduler(logger *slog.Logger, loc *time.Location, jobs ...Job) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger.With("component", "scheduler"),
		jobs:      jobs,
	}, nil
}

// Start registers every job and starts the scheduler. ctx is handed to each
// task run; cancelling it interrupts a run that is waiting between posts.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if s.closed {
		return fmt.Errorf("scheduler was shut down after a failed start")
	}

	s.logger.Debug("Configuring scheduler jobs...")

	for _, job := range s.jobs {
		if err := s.addJob(ctx, job); err != nil {
			// Jobs registered so far must not outlive the failed start.
			if shutdownErr := s.scheduler.Shutdown(); shutdownErr != nil {
				s.logger.Error("Error during scheduler shutdown", "error", shutdownErr)
			}
			s.closed = true
			return err
		}
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "jobs_scheduled", len(s.jobs))
	return nil
}

func (s *Scheduler) addJob(ctx context.Context, job Job) error {
	if job.Task == nil {
		return fmt.Errorf("job %q has no task", job.Name)
	}
	if job.Schedule == "" {
		return fmt.Errorf("job %q has an empty schedule", job.Name)
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(job.Schedule, false),
		gocron.NewTask(s.wrap(ctx, job)),
		gocron.WithName(job.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule job %q (%s): %w", job.Name, job.Schedule, err)
	}

	attrs := []any{"job_name", job.Name, "schedule", job.Schedule}
	if next, err := j.NextRun(); err == nil {
		attrs = append(attrs, "next_run", next)
	}
	s.logger.Info("Scheduled job", attrs...)
	return nil
}

// wrap adds logging around a job run.
func (s *Scheduler) wrap(ctx context.Context, job Job) func() {
	return func() {
		s.logger.Info("Running scheduled job", "job_name", job.Name)
		startTime := time.Now()
		if err := job.Task(ctx); err != nil {
			s.logger.Error("Scheduled job failed", "job_name", job.Name, "error", err)
		}
		s.logger.Info("Finished scheduled job", "job_name", job.Name, "duration", time.Since(startTime))
	}
}

// Stop shuts the scheduler down, waiting for a running job to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	s.logger.Debug("Stopping scheduler gracefully (waiting for jobs)...")
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
