// Package transaction provides ledger entry CRUD. Every write adjusts the
// cached balance of the accounts it touches in the same unit of work.
package transaction

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service provides transaction operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// CreateRequest carries the fields of a new transaction. A zero Date
// defaults to now.
type CreateRequest struct {
	AccountID uuid.UUID
	Type      account.TransactionType
	Amount    decimal.Decimal
	Status    account.TransactionStatus
	Date      time.Time
}

// Create records a transaction against an existing account.
func (s *Service) Create(ctx context.Context, req CreateRequest) (tx *account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := accounts.Get(ctx, req.AccountID, repoaccount.Scope{}); err != nil {
			return err
		}
		tx, err = account.NewTransaction(req.AccountID, req.Type, req.Amount, req.Status, req.Date)
		if err != nil {
			return err
		}
		for {
			exists, err := txs.ExistsByNumber(ctx, tx.Number)
			if err != nil {
				return err
			}
			if !exists {
				break
			}
			tx.Number = account.GenerateTransactionNumber()
		}
		if err := txs.Create(ctx, tx); err != nil {
			return err
		}
		return applyDelta(ctx, uow, account.Delta(nil, tx))
	})
	if err != nil {
		s.logger.Error("Transaction creation failed", "compte_id", req.AccountID, "error", err)
		return nil, err
	}
	s.logger.Info("Transaction created",
		"numero_transaction", tx.Number,
		"compte_id", tx.AccountID,
		"type", tx.Type,
		"montant", tx.Amount.StringFixed(2),
		"statut", tx.Status,
	)
	return tx, nil
}

// Get returns a transaction by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (tx *account.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = txs.Get(ctx, id, false)
		return err
	})
	return
}

// List returns one page of transactions, newest first.
func (s *Service) List(ctx context.Context, filter dto.TransactionFilter) (page dto.Page[*account.Transaction], err error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		items, total, err := txs.List(ctx, filter)
		if err != nil {
			return err
		}
		page = dto.Page[*account.Transaction]{Items: items, Pagination: dto.NewPagination(filter.PageRequest, total)}
		return nil
	})
	return
}

// Update applies patch and moves the cached balances by the difference
// between the old and the new effect, on the old and the new account.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch account.TransactionPatch) (tx *account.Transaction, err error) {
	log := s.logger.With("operation", "update_transaction", "transaction_id", id)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err = txs.Get(ctx, id, true)
		if err != nil {
			return err
		}
		before := *tx
		if err := tx.Apply(patch); err != nil {
			return err
		}
		if tx.AccountID != before.AccountID {
			if _, err := accounts.Get(ctx, tx.AccountID, repoaccount.Scope{}); err != nil {
				return err
			}
		}
		if err := txs.Update(ctx, tx); err != nil {
			return err
		}
		return applyDelta(ctx, uow, account.Delta(&before, tx))
	})
	if err != nil {
		log.Warn("Transaction update failed", "error", err)
		return nil, err
	}
	log.Info("Transaction updated", "statut", tx.Status)
	return tx, nil
}

// Delete removes a transaction and reverts its effect.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx, err := txs.Get(ctx, id, true)
		if err != nil {
			return err
		}
		if err := txs.Delete(ctx, id); err != nil {
			return err
		}
		return applyDelta(ctx, uow, account.Delta(tx, nil))
	})
	if err != nil {
		s.logger.Warn("Transaction deletion failed", "transaction_id", id, "error", err)
		return err
	}
	s.logger.Info("Transaction deleted", "transaction_id", id)
	return nil
}

// RecomputeBalance rewrites the cached balance of one account from its
// transactions and returns it.
func (s *Service) RecomputeBalance(ctx context.Context, accountID uuid.UUID) (balance decimal.Decimal, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		list, err := txs.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		balance = account.Balance(list)
		return accounts.SetCachedBalance(ctx, accountID, balance)
	})
	return
}

// RecomputeAll recomputes every account, archived ones included, and
// returns the number of accounts processed.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return 0, err
	}
	ids, err := accounts.IDs(ctx)
	if err != nil {
		return 0, err
	}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.RecomputeBalance(ctx, id); err != nil {
			return i, err
		}
	}
	s.logger.Info("Balances recomputed", "accounts", len(ids))
	return len(ids), nil
}

func applyDelta(ctx context.Context, uow repository.UnitOfWork, delta map[uuid.UUID]decimal.Decimal) error {
	accounts, err := uow.AccountRepository()
	if err != nil {
		return err
	}
	for id, d := range delta {
		if err := accounts.AdjustBalance(ctx, id, d); err != nil {
			return err
		}
	}
	return nil
}
