package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/repository"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewClient persists a client with unique contact details.
func NewClient(t testing.TB, uow repository.UnitOfWork, titulaire string) *client.Client {
	t.Helper()
	suffix := utils.RandomString(9, "0123456789")
	c, err := client.New(client.Profile{
		Titulaire: titulaire,
		Email:     fmt.Sprintf("client%s@example.com", suffix),
		Telephone: "+221" + suffix,
		Adresse:   "Dakar",
	}, "password123", client.GenerateNCI())
	require.NoError(t, err)
	repo, err := uow.ClientRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

// NewAccount persists an actif account for c with an optional valide
// opening deposit, keeping the cached balance in step.
func NewAccount(
	t testing.TB,
	uow repository.UnitOfWork,
	c *client.Client,
	typ account.Type,
	number string,
	deposit int64,
) *account.Account {
	t.Helper()
	ctx := context.Background()
	b := account.New().WithClientID(c.ID).WithType(typ)
	if number != "" {
		b = b.WithNumber(number)
	}
	a, err := b.Build()
	require.NoError(t, err)
	a.Holder = c.FullName()

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, a))
	if deposit > 0 {
		tx, err := account.NewTransaction(a.ID, account.Depot, decimal.NewFromInt(deposit), account.Valide, time.Time{})
		require.NoError(t, err)
		txs, err := uow.TransactionRepository()
		require.NoError(t, err)
		require.NoError(t, txs.Create(ctx, tx))
		require.NoError(t, accounts.AdjustBalance(ctx, a.ID, tx.Amount))
		a.CachedBalance = tx.Amount
	}
	return a
}
