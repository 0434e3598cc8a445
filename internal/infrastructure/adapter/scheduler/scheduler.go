package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	coreport "github.com/fireesports/ledger/internal/domain/port/core"
)

// Job is a recurring background task
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs background jobs on gocron. A job never overlaps with itself; a run
// that is still busy when the next one is due pushes it back.
type Scheduler struct {
	sched  gocron.Scheduler
	logger coreport.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler with jobs registered but not started. Jobs with a
// non-positive interval are skipped.
func New(logger coreport.Logger, jobs ...Job) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLogger(gocronLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{sched: sched, logger: logger, ctx: ctx, cancel: cancel}

	for _, job := range jobs {
		if job.Interval <= 0 {
			logger.Info("Background job disabled", map[string]any{"job": job.Name})
			continue
		}
		if err := s.add(job); err != nil {
			cancel()
			_ = sched.Shutdown()
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(job Job) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(job.Interval),
		gocron.NewTask(s.wrap(job)),
		gocron.WithName(job.Name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", job.Name, err)
	}
	return nil
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.ctx, job.Interval)
		defer cancel()

		started := time.Now()
		err := job.Run(ctx)
		fields := map[string]any{
			"job":         job.Name,
			"duration_ms": time.Since(started).Milliseconds(),
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			fields["error"] = err.Error()
			s.logger.Error("Background job failed", fields)
			return
		}
		s.logger.Debug("Background job finished", fields)
	}
}

// Start begins running the jobs
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("Scheduler started", map[string]any{"jobs": len(s.sched.Jobs())})
}

// Shutdown cancels running jobs and waits for them to return
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.sched.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	s.logger.Info("Scheduler stopped", nil)
	return nil
}

// JobNames lists the registered jobs
func (s *Scheduler) JobNames() []string {
	jobs := s.sched.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Name()
	}
	return names
}

// gocronLogger adapts the service logger to gocron
type gocronLogger struct {
	logger coreport.Logger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, pairs(args)) }
func (l gocronLogger) Info(msg string, args ...any)  { l.logger.Info(msg, pairs(args)) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, pairs(args)) }
func (l gocronLogger) Error(msg string, args ...any) { l.logger.Error(msg, pairs(args)) }

func pairs(args []any) map[string]any {
	if len(args) == 0 {
		return nil
	}
	fields := make(map[string]any, len(args)/2+1)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	if len(args)%2 == 1 {
		fields["extra"] = args[len(args)-1]
	}
	return fields
}
