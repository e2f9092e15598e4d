package account

import (
	"context"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope widens or narrows a single-account read.
type Scope struct {
	// IncludeDeleted also returns soft-deleted (closed or archived) rows.
	IncludeDeleted bool
	// ForUpdate locks the row until the surrounding transaction ends.
	ForUpdate bool
}

// Repository defines account data access.
type Repository interface {
	Create(ctx context.Context, a *account.Account) error

	// Update persists every mutable field of a, including DeletedAt, guarded
	// by a.Version. On success a.Version is incremented; a stale version
	// yields domain.ErrVersionConflict.
	Update(ctx context.Context, a *account.Account) error

	Get(ctx context.Context, id uuid.UUID, scope Scope) (*account.Account, error)
	GetByNumber(ctx context.Context, number string, scope Scope) (*account.Account, error)

	// ExistsByNumber checks every row, soft-deleted ones included.
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	List(ctx context.Context, filter dto.AccountFilter) ([]*account.Account, int64, error)

	// ListExpiredBlocked returns non-deleted bloque accounts whose unblock
	// date is at or before now, regardless of listing defaults.
	ListExpiredBlocked(ctx context.Context, now time.Time) ([]*account.Account, error)

	// AdjustBalance adds delta to the cached balance.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	SetCachedBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error

	// IDs lists every account id, soft-deleted ones included.
	IDs(ctx context.Context) ([]uuid.UUID, error)
}
