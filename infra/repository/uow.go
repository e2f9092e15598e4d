package repository

import (
	"context"

	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	repoadmin "github.com/amirasaad/bankmanager/pkg/repository/admin"
	repoclient "github.com/amirasaad/bankmanager/pkg/repository/client"
	repotransaction "github.com/amirasaad/bankmanager/pkg/repository/transaction"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Outside Do, repositories run on the base connection.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a database transaction. Nested calls join the outer
// transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) AccountRepository() (repoaccount.Repository, error) {
	return NewAccountRepository(u.session()), nil
}

func (u *UoW) TransactionRepository() (repotransaction.Repository, error) {
	return NewTransactionRepository(u.session()), nil
}

func (u *UoW) ClientRepository() (repoclient.Repository, error) {
	return NewClientRepository(u.session()), nil
}

func (u *UoW) AdminRepository() (repoadmin.Repository, error) {
	return NewAdminRepository(u.session()), nil
}
