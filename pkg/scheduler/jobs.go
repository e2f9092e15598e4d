// Package scheduler runs the daily archive and unarchive sweeps.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/repository"
)

// Archiver is the part of archive.Synchronizer the sweeps drive.
type Archiver interface {
	Archive(ctx context.Context, number string) (archive.Outcome, error)
	Unarchive(ctx context.Context) (archive.UnarchiveReport, error)
}

// Report counts the accounts handled by one archive sweep.
type Report struct {
	Archived int `json:"archived"`
	Partial  int `json:"partial"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Jobs contains the sweep logic.
type Jobs struct {
	uow      repository.UnitOfWork
	archiver Archiver
	logger   *slog.Logger
	now      func() time.Time
}

// NewJobs creates a new Jobs runner.
func NewJobs(uow repository.UnitOfWork, archiver Archiver, logger *slog.Logger) *Jobs {
	return &Jobs{uow: uow, archiver: archiver, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (j *Jobs) WithClock(now func() time.Time) *Jobs {
	j.now = now
	return j
}

// ArchiveExpired archives every blocked account whose unblock date has
// passed. Per-account failures are counted, not returned.
func (j *Jobs) ArchiveExpired(ctx context.Context) (report Report, err error) {
	log := j.logger.With("job", JobArchive)
	log.Info("Starting archive process for expired blocked accounts")

	accounts, err := j.uow.AccountRepository()
	if err != nil {
		return report, err
	}
	expired, err := accounts.ListExpiredBlocked(ctx, j.now().UTC())
	if err != nil {
		return report, fmt.Errorf("list expired blocked accounts: %w", err)
	}
	if len(expired) == 0 {
		log.Info("No expired blocked accounts found")
		return report, nil
	}
	log.Info("Found expired blocked accounts to archive", "count", len(expired))

	for _, a := range expired {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome, err := j.archiver.Archive(ctx, a.Number)
		if err != nil {
			log.Error("Error archiving account", "numero_compte", a.Number, "error", err)
			report.Failed++
			continue
		}
		switch outcome {
		case archive.OutcomeArchived:
			report.Archived++
		case archive.OutcomePartial:
			report.Partial++
		case archive.OutcomeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}
	log.Info("Archive process completed",
		"archived", report.Archived,
		"partial", report.Partial,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// UnarchiveExpired restores archived accounts whose block has lapsed.
func (j *Jobs) UnarchiveExpired(ctx context.Context) (archive.UnarchiveReport, error) {
	j.logger.Info("Starting unarchive process for expired blocked accounts", "job", JobUnarchive)
	return j.archiver.Unarchive(ctx)
}
