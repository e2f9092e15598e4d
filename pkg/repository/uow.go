package repository

import (
	"context"

	"github.com/amirasaad/bankmanager/pkg/repository/account"
	"github.com/amirasaad/bankmanager/pkg/repository/admin"
	"github.com/amirasaad/bankmanager/pkg/repository/client"
	"github.com/amirasaad/bankmanager/pkg/repository/transaction"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share the same
// database transaction; if fn returns an error everything is rolled back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (account.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	ClientRepository() (client.Repository, error)
	AdminRepository() (admin.Repository, error)
}
