package transaction

import (
	"context"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines transaction data access.
type Repository interface {
	Create(ctx context.Context, t *account.Transaction) error
	Update(ctx context.Context, t *account.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Get optionally locks the row for the rest of the transaction.
	Get(ctx context.Context, id uuid.UUID, forUpdate bool) (*account.Transaction, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	List(ctx context.Context, filter dto.TransactionFilter) ([]*account.Transaction, int64, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*account.Transaction, error)
}
