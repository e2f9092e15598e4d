package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/robfig/cron/v3"
)

// Job names, also used as lock names.
const (
	JobArchive   = "archive-expired"
	JobUnarchive = "unarchive-expired"
)

// ErrAlreadyRunning is returned by Run when another process holds the job
// lock.
var ErrAlreadyRunning = errors.New("job is already running")

// Locker acquires named, expiring locks shared across processes.
type Locker interface {
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Scheduler runs the sweeps on their cron schedules. Runs of one job never
// overlap: cron.SkipIfStillRunning covers this process and the Locker
// covers other processes.
type Scheduler struct {
	cron    *cron.Cron
	jobs    *Jobs
	locker  Locker
	lockTTL time.Duration
	logger  *slog.Logger
}

// New creates a scheduler and registers both sweeps.
func New(jobs *Jobs, locker Locker, cfg *config.Scheduler, logger *slog.Logger) (*Scheduler, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid scheduler timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:    jobs,
		locker:  locker,
		lockTTL: cfg.LockTTL,
		logger:  logger.With("component", "scheduler"),
	}
	if s.lockTTL <= 0 {
		s.lockTTL = time.Hour
	}

	entries := []struct {
		name, spec string
	}{
		{JobArchive, cfg.ArchiveSchedule},
		{JobUnarchive, cfg.UnarchiveSchedule},
	}
	for _, e := range entries {
		name := e.name
		if _, err := s.cron.AddFunc(e.spec, func() {
			if err := s.Run(context.Background(), name); err != nil && !errors.Is(err, ErrAlreadyRunning) {
				s.logger.Error("Scheduled job failed", "job", name, "error", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", e.spec, name, err)
		}
		s.logger.Info("Scheduled job", "job", name, "schedule", e.spec, "timezone", loc.String())
	}
	return s, nil
}

// Start starts the cron scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler; the returned context is done once running
// jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Run executes the named job now under its lock.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	return RunLocked(ctx, s.locker, name, s.lockTTL, s.logger, func(ctx context.Context) error {
		return s.jobs.Run(ctx, name)
	})
}

// Run executes the named job without locking.
func (j *Jobs) Run(ctx context.Context, name string) error {
	switch name {
	case JobArchive:
		_, err := j.ArchiveExpired(ctx)
		return err
	case JobUnarchive:
		_, err := j.UnarchiveExpired(ctx)
		return err
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

// RunLocked runs fn while holding the lock name. It returns
// ErrAlreadyRunning without calling fn when the lock is taken.
func RunLocked(
	ctx context.Context,
	locker Locker,
	name string,
	ttl time.Duration,
	logger *slog.Logger,
	fn func(ctx context.Context) error,
) error {
	release, ok, err := locker.TryLock(ctx, name, ttl)
	if err != nil {
		return fmt.Errorf("lock %s: %w", name, err)
	}
	if !ok {
		logger.Warn("Job is already running elsewhere, skipping", "job", name)
		return ErrAlreadyRunning
	}
	defer release()

	start := time.Now()
	err = fn(ctx)
	logger.Info("Job finished", "job", name, "duration_ms", time.Since(start).Milliseconds(), "error", err)
	return err
}
