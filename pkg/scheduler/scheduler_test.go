package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	infraarchive "github.com/amirasaad/bankmanager/infra/archive"
	"github.com/amirasaad/bankmanager/infra/lock"
	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/config"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/amirasaad/bankmanager/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func blockAccount(t *testing.T, uow repository.UnitOfWork, number string, at time.Time, days int) {
	t.Helper()
	c := testutil.NewClient(t, uow, "Diop Awa")
	a := testutil.NewAccount(t, uow, c, account.Epargne, number, 50000)
	require.NoError(t, a.Block(account.BlockRequest{Reason: "Contrôle", Duration: days, Unit: account.Jours}, at))
	accounts, _ := uow.AccountRepository()
	require.NoError(t, accounts.Update(context.Background(), a))
}

func TestSweepScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	store := infraarchive.NewMemoryStore()
	start := time.Now().UTC().Truncate(time.Second)
	clock := start
	now := func() time.Time { return clock }

	sync := archive.NewSynchronizer(uow, store, discard(), time.Second).WithClock(now)
	jobs := scheduler.NewJobs(uow, sync, discard()).WithClock(now)

	blockAccount(t, uow, "C00000001", start, 30)

	clock = start.AddDate(0, 0, 1)
	report, err := jobs.ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, scheduler.Report{}, report)
	assert.Equal(t, 0, store.Len())

	clock = start.AddDate(0, 0, 31)
	report, err = jobs.ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, scheduler.Report{Archived: 1}, report)
	assert.Equal(t, 1, store.Len())

	accounts, _ := uow.AccountRepository()
	_, err = accounts.GetByNumber(ctx, "C00000001", repoaccount.Scope{})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	report, err = jobs.ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, scheduler.Report{}, report, "archived accounts are not swept twice")

	restored, err := jobs.UnarchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, archive.UnarchiveReport{Restored: 1}, restored)

	a, err := accounts.GetByNumber(ctx, "C00000001", repoaccount.Scope{})
	require.NoError(t, err)
	assert.Equal(t, account.Actif, a.Status)
	assert.Equal(t, 0, store.Len())
}

type stubArchiver struct {
	outcomes map[string]archive.Outcome
	errs     map[string]error
	calls    []string
}

func (s *stubArchiver) Archive(_ context.Context, number string) (archive.Outcome, error) {
	s.calls = append(s.calls, number)
	return s.outcomes[number], s.errs[number]
}

func (s *stubArchiver) Unarchive(context.Context) (archive.UnarchiveReport, error) {
	return archive.UnarchiveReport{Skipped: 1}, nil
}

func TestArchiveExpiredCountsOutcomes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	past := time.Now().UTC().AddDate(0, -2, 0)
	for _, n := range []string{"C00000011", "C00000012", "C00000013", "C00000014"} {
		blockAccount(t, uow, n, past, 7)
	}
	blockAccount(t, uow, "C00000015", time.Now().UTC(), 7)

	stub := &stubArchiver{
		outcomes: map[string]archive.Outcome{
			"C00000011": archive.OutcomeArchived,
			"C00000012": archive.OutcomePartial,
			"C00000013": archive.OutcomeFailed,
		},
		errs: map[string]error{"C00000014": errors.New("db down")},
	}
	report, err := scheduler.NewJobs(uow, stub, discard()).ArchiveExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, scheduler.Report{Archived: 1, Partial: 1, Failed: 2}, report)
	assert.ElementsMatch(t, []string{"C00000011", "C00000012", "C00000013", "C00000014"}, stub.calls)
}

func TestRunLockedSkipsWhenHeld(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	locker := lock.NewMemory()
	release, ok, err := locker.TryLock(ctx, scheduler.JobArchive, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	called := false
	err = scheduler.RunLocked(ctx, locker, scheduler.JobArchive, time.Minute, discard(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, scheduler.ErrAlreadyRunning)
	assert.False(t, called)

	release()
	err = scheduler.RunLocked(ctx, locker, scheduler.JobArchive, time.Minute, discard(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	_, ok, _ = locker.TryLock(ctx, scheduler.JobArchive, time.Minute)
	assert.True(t, ok, "lock is released after the run")
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()
	jobs := scheduler.NewJobs(nil, &stubArchiver{}, discard())
	locker := lock.NewMemory()

	_, err := scheduler.New(jobs, locker, &config.Scheduler{ArchiveSchedule: "every day", UnarchiveSchedule: "30 2 * * *"}, discard())
	assert.Error(t, err)

	_, err = scheduler.New(jobs, locker, &config.Scheduler{
		ArchiveSchedule:   "0 2 * * *",
		UnarchiveSchedule: "30 2 * * *",
		Timezone:          "Mars/Olympus",
	}, discard())
	assert.Error(t, err)

	s, err := scheduler.New(jobs, locker, &config.Scheduler{
		ArchiveSchedule:   "0 2 * * *",
		UnarchiveSchedule: "30 2 * * *",
		Timezone:          "Africa/Dakar",
	}, discard())
	require.NoError(t, err)

	require.NoError(t, s.Run(context.Background(), scheduler.JobUnarchive))
	assert.Error(t, s.Run(context.Background(), "unknown"))

	s.Start()
	<-s.Stop().Done()
}
