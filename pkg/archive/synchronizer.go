package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds each remote call when none is configured.
const DefaultTimeout = 30 * time.Second

// Outcome is the result of archiving one account.
type Outcome string

const (
	OutcomeArchived Outcome = "archived"
	// OutcomePartial means the account was archived but its transactions
	// could not be pushed.
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
	// OutcomeSkipped means the account is not an expired blocked account.
	OutcomeSkipped Outcome = "skipped"
)

// Done reports whether the account left the local store.
func (o Outcome) Done() bool {
	return o == OutcomeArchived || o == OutcomePartial
}

// UnarchiveReport counts the records handled by one unarchive sweep.
type UnarchiveReport struct {
	Restored int `json:"restored"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

var (
	errNoLongerExpired = errors.New("account is no longer an expired blocked account")
	// errLedgerUnavailable keeps an archive record whose transactions could
	// not be pulled while no local copy of them exists.
	errLedgerUnavailable = errors.New("archived transactions unavailable")
)

// Synchronizer keeps the local store and the remote archive in step.
type Synchronizer struct {
	uow     repository.UnitOfWork
	store   Store
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
	lookups singleflight.Group
}

// NewSynchronizer creates a Synchronizer. A non-positive timeout falls back
// to DefaultTimeout.
func NewSynchronizer(
	uow repository.UnitOfWork,
	store Store,
	logger *slog.Logger,
	timeout time.Duration,
) *Synchronizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Synchronizer{
		uow:     uow,
		store:   store,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (s *Synchronizer) WithClock(now func() time.Time) *Synchronizer {
	s.now = now
	return s
}

// Archive pushes the account numbered number to the remote store and
// soft-deletes it locally. Remote failures are reported through the
// Outcome; only local store failures are returned as errors.
func (s *Synchronizer) Archive(ctx context.Context, number string) (outcome Outcome, err error) {
	log := s.logger.With("operation", "archive", "numero_compte", number)
	now := s.now().UTC()

	var (
		acc *account.Account
		txs []*account.Transaction
	)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acc, err = accounts.GetByNumber(ctx, number, repoaccount.Scope{})
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = transactions.ListByAccount(ctx, acc.ID)
		return err
	})
	if err != nil {
		return OutcomeFailed, fmt.Errorf("snapshot %s: %w", number, err)
	}
	if !acc.IsBlockExpired(now) {
		log.Info("Account is not an expired blocked account, skipping", "statut", acc.Status)
		return OutcomeSkipped, nil
	}

	rec := NewRecord(acc, account.Balance(txs), now)
	var remoteID string
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		remoteID, err = s.store.ArchiveAccount(ctx, rec)
		return err
	})
	if err != nil {
		log.Error("Failed to archive account to cloud", "error", err)
		return OutcomeFailed, nil
	}
	if remoteID == "" {
		remoteID = number
	}
	log = log.With("archive_id", remoteID)

	outcome = OutcomeArchived
	if len(txs) > 0 {
		records := NewTransactionRecords(number, txs)
		if err := s.call(ctx, func(ctx context.Context) error {
			return s.store.ArchiveTransactions(ctx, remoteID, records)
		}); err != nil {
			log.Warn("Account archived but transactions archiving failed", "error", err)
			outcome = OutcomePartial
		}
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := accounts.GetByNumber(ctx, number, repoaccount.Scope{ForUpdate: true})
		if err != nil {
			return err
		}
		if !locked.IsBlockExpired(now) {
			return errNoLongerExpired
		}
		locked.DeletedAt = &now
		return accounts.Update(ctx, locked)
	})
	if err != nil {
		s.compensate(ctx, log, remoteID)
		if errors.Is(err, errNoLongerExpired) ||
			errors.Is(err, domain.ErrNotFound) ||
			errors.Is(err, domain.ErrConcurrentModification) {
			log.Warn("Account changed while archiving, archive reverted", "error", err)
			return OutcomeFailed, nil
		}
		return OutcomeFailed, fmt.Errorf("soft delete %s: %w", number, err)
	}

	log.Info("Account successfully archived to cloud", "outcome", outcome, "transactions", len(txs))
	return outcome, nil
}

// compensate removes a record pushed for an account that stayed local.
func (s *Synchronizer) compensate(ctx context.Context, log *slog.Logger, remoteID string) {
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, remoteID)
	}); err != nil {
		log.Error("Failed to remove compensated archive record", "error", err)
	}
}

// Unarchive restores every archived blocked account whose block has lapsed.
// A failing record never stops the sweep.
func (s *Synchronizer) Unarchive(ctx context.Context) (report UnarchiveReport, err error) {
	log := s.logger.With("operation", "unarchive")
	var records []Record
	err = s.call(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.store.ListBlocked(ctx)
		return err
	})
	if err != nil {
		log.Error("Failed to list archived blocked accounts", "error", err)
		return report, nil
	}
	log.Info("Archived blocked accounts to check", "count", len(records))

	now := s.now().UTC()
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		recLog := log.With("numero_compte", rec.NumeroCompte, "archive_id", rec.Key())
		if !rec.UnblockDue(now) {
			recLog.Debug("Blocking period not yet expired, skipping")
			report.Skipped++
			continue
		}
		if err := s.restore(ctx, recLog, rec); err != nil {
			recLog.Error("Failed to unarchive account", "error", err)
			report.Failed++
			continue
		}
		report.Restored++
	}
	log.Info("Unarchive completed",
		"restored", report.Restored,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// restore brings rec back locally and then drops the remote record. When
// the account row is gone its ledger only exists remotely, so a failed pull
// leaves everything in place for the next sweep.
func (s *Synchronizer) restore(ctx context.Context, log *slog.Logger, rec Record) error {
	var remoteTxs []TransactionRecord
	pullErr := s.call(ctx, func(ctx context.Context) error {
		var err error
		remoteTxs, err = s.store.ListTransactions(ctx, rec.Key())
		return err
	})
	if pullErr != nil {
		log.Warn("Failed to pull archived transactions", "error", pullErr)
		remoteTxs = nil
	}

	inserted := 0
	recreated := false
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		acc, err := accounts.GetByNumber(ctx, rec.NumeroCompte, repoaccount.Scope{IncludeDeleted: true, ForUpdate: true})
		switch {
		case err == nil:
			acc.Restore()
			if err := accounts.Update(ctx, acc); err != nil {
				return err
			}
		case errors.Is(err, account.ErrAccountNotFound):
			if pullErr != nil {
				return fmt.Errorf("%w: %w", errLedgerUnavailable, pullErr)
			}
			recreated = true
			acc, err = recreate(rec)
			if err != nil {
				return err
			}
			if err := accounts.Create(ctx, acc); err != nil {
				return err
			}
		default:
			return err
		}

		for _, tr := range remoteTxs {
			exists, err := transactions.ExistsByNumber(ctx, tr.NumeroTransaction)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			t, err := account.NewTransaction(
				acc.ID,
				account.TransactionType(tr.Type),
				tr.Montant,
				account.TransactionStatus(tr.Statut),
				tr.Date.Time,
			)
			if err != nil {
				return fmt.Errorf("transaction %s: %w", tr.NumeroTransaction, err)
			}
			if tr.NumeroTransaction != "" {
				t.Number = tr.NumeroTransaction
			}
			if err := transactions.Create(ctx, t); err != nil {
				return err
			}
			inserted++
		}

		ledger, err := transactions.ListByAccount(ctx, acc.ID)
		if err != nil {
			return err
		}
		balance := account.Balance(ledger)
		if recreated && !balance.Equal(rec.Solde) {
			log.Warn("Restored ledger does not match archived balance",
				"archived_solde", rec.Solde.String(),
				"ledger_solde", balance.String(),
			)
		}
		return accounts.SetCachedBalance(ctx, acc.ID, balance)
	})
	if err != nil {
		return err
	}

	if err := s.call(ctx, func(ctx context.Context) error {
		return s.store.Delete(ctx, rec.Key())
	}); err != nil {
		log.Warn("Account restored but archive record could not be removed", "error", err)
	}
	log.Info("Successfully unarchived account", "transactions_restored", inserted)
	return nil
}

// recreate rebuilds a local account from its archive record.
func recreate(rec Record) (*account.Account, error) {
	clientID, err := uuid.Parse(rec.ClientID)
	if err != nil {
		return nil, domain.NewValidationError(map[string]string{"client_id": "Identifiant client invalide"})
	}
	b := account.New().
		WithNumber(rec.NumeroCompte).
		WithType(account.Type(rec.Type)).
		WithCurrency(rec.Devise).
		WithClientID(clientID).
		WithVersion(rec.Metadata.Version)
	if !rec.DateCreation.IsZero() {
		b = b.WithCreatedAt(rec.DateCreation.Time)
	}
	return b.Build()
}

// Lookup fetches an archived account by remote id or account number.
// Concurrent lookups of the same key share one remote call, which is bound
// by the synchronizer timeout rather than any single caller's context. Any
// failure is logged and reported as absent.
func (s *Synchronizer) Lookup(ctx context.Context, key string) (*Record, bool) {
	shared := context.WithoutCancel(ctx)
	ch := s.lookups.DoChan(key, func() (any, error) {
		var rec *Record
		err := s.call(shared, func(ctx context.Context) error {
			var err error
			rec, err = s.store.Get(ctx, key)
			return err
		})
		return rec, err
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		s.logger.Warn("Archived account lookup abandoned", "key", key, "error", ctx.Err())
		return nil, false
	}
	if res.Err != nil {
		s.logger.Error("Failed to retrieve archived account from cloud", "key", key, "error", res.Err)
		return nil, false
	}
	rec, _ := res.Val.(*Record)
	return rec, rec != nil
}

// ListArchived returns one page of archived savings accounts. A remote
// failure yields an empty page.
func (s *Synchronizer) ListArchived(ctx context.Context, page dto.PageRequest) dto.Page[Record] {
	var records []Record
	if err := s.call(ctx, func(ctx context.Context) error {
		var err error
		records, err = s.store.ListSavings(ctx)
		return err
	}); err != nil {
		s.logger.Error("Failed to retrieve archived accounts from cloud", "error", err)
		records = nil
	}
	return dto.Paginate(records, page)
}

func (s *Synchronizer) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return fn(ctx)
}
