package repository

import (
	"context"
	"time"

	"github.com/amirasaad/bankmanager/infra/repository/model"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	repotransaction "github.com/amirasaad/bankmanager/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository on db.
func NewTransactionRepository(db *gorm.DB) repotransaction.Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, t *account.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.TransactionFromDomain(t)).Error
	})
}

func (r *transactionRepository) Update(ctx context.Context, t *account.Transaction) error {
	res := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"type":       string(t.Type),
			"montant":    t.Amount,
			"date":       t.Date,
			"statut":     string(t.Status),
			"compte_id":  t.AccountID,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return account.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID, forUpdate bool) (*account.Transaction, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row model.Transaction
	if err := q.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, NotFoundAs(err, account.ErrTransactionNotFound)
	}
	return row.ToDomain(), nil
}

func (r *transactionRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("numero_transaction = ?", number).Count(&count).Error
	return count > 0, MapGormErrorToDomain(err)
}

func (r *transactionRepository) List(ctx context.Context, f dto.TransactionFilter) ([]*account.Transaction, int64, error) {
	f.PageRequest = f.PageRequest.Normalize()
	scope := func(q *gorm.DB) *gorm.DB {
		if f.AccountID != nil {
			q = q.Where("compte_id = ?", *f.AccountID)
		}
		if f.Type != "" {
			q = q.Where("type = ?", string(f.Type))
		}
		if f.Status != "" {
			q = q.Where("statut = ?", string(f.Status))
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	var rows []model.Transaction
	if err := r.db.WithContext(ctx).Scopes(scope).
		Order("date DESC").Order("id").
		Offset(f.Offset()).Limit(f.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	return toTransactions(rows), total, nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error) {
	var rows []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("compte_id = ?", accountID).
		Order("date").Order("id").
		Find(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toTransactions(rows), nil
}

func toTransactions(rows []model.Transaction) []*account.Transaction {
	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out
}
