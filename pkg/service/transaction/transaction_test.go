package transaction_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/amirasaad/bankmanager/pkg/repository"
	repoaccount "github.com/amirasaad/bankmanager/pkg/repository/account"
	txsvc "github.com/amirasaad/bankmanager/pkg/service/transaction"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (repository.UnitOfWork, *txsvc.Service) {
	t.Helper()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	return uow, txsvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func cached(t *testing.T, uow repository.UnitOfWork, id uuid.UUID) decimal.Decimal {
	t.Helper()
	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	a, err := accounts.Get(context.Background(), id, repoaccount.Scope{})
	require.NoError(t, err)
	return a.CachedBalance
}

func derived(t *testing.T, uow repository.UnitOfWork, id uuid.UUID) decimal.Decimal {
	t.Helper()
	txs, err := uow.TransactionRepository()
	require.NoError(t, err)
	list, err := txs.ListByAccount(context.Background(), id)
	require.NoError(t, err)
	return account.Balance(list)
}

func assertBalance(t *testing.T, uow repository.UnitOfWork, id uuid.UUID, want int64) {
	t.Helper()
	assert.Equal(t, decimal.NewFromInt(want).StringFixed(2), derived(t, uow, id).StringFixed(2), "derived")
	assert.Equal(t, decimal.NewFromInt(want).StringFixed(2), cached(t, uow, id).StringFixed(2), "cached")
}

func TestBalanceRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Diop Awa")
	a := testutil.NewAccount(t, uow, c, account.Courant, "", 0)

	deposit, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Depot, Amount: decimal.NewFromInt(50000), Status: account.Valide,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^TXN[A-Z0-9]{10}$`, deposit.Number)
	assertBalance(t, uow, a.ID, 50000)

	withdrawal, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Retrait, Amount: decimal.NewFromInt(20000), Status: account.Valide,
	})
	require.NoError(t, err)
	assertBalance(t, uow, a.ID, 30000)

	require.NoError(t, svc.Delete(ctx, withdrawal.ID))
	assertBalance(t, uow, a.ID, 50000)

	_, err = svc.Get(ctx, withdrawal.ID)
	assert.ErrorIs(t, err, account.ErrTransactionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, withdrawal.ID), account.ErrTransactionNotFound)
}

func TestPendingAndTransfersDoNotCount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Fall Moussa")
	a := testutil.NewAccount(t, uow, c, account.Courant, "", 10000)

	pending, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Depot, Amount: decimal.NewFromInt(5000), Status: account.EnCours,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Transfert, Amount: decimal.NewFromInt(7000), Status: account.Valide,
	})
	require.NoError(t, err)
	assertBalance(t, uow, a.ID, 10000)

	valide := account.Valide
	_, err = svc.Update(ctx, pending.ID, account.TransactionPatch{Status: &valide})
	require.NoError(t, err)
	assertBalance(t, uow, a.ID, 15000)

	annule := account.Annule
	_, err = svc.Update(ctx, pending.ID, account.TransactionPatch{Status: &annule})
	require.NoError(t, err)
	assertBalance(t, uow, a.ID, 10000)
}

func TestUpdateMovesBetweenAccounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Sow Ibrahima")
	from := testutil.NewAccount(t, uow, c, account.Courant, "", 0)
	to := testutil.NewAccount(t, uow, c, account.Courant, "", 0)

	tx, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: from.ID, Type: account.Depot, Amount: decimal.NewFromInt(8000), Status: account.EnCours,
	})
	require.NoError(t, err)

	amount := decimal.RequireFromString("12000.456")
	_, err = svc.Update(ctx, tx.ID, account.TransactionPatch{Amount: &amount})
	require.NoError(t, err)

	valide := account.Valide
	_, err = svc.Update(ctx, tx.ID, account.TransactionPatch{AccountID: &to.ID, Status: &valide})
	require.NoError(t, err)
	assertBalance(t, uow, from.ID, 0)
	assert.Equal(t, "12000.46", cached(t, uow, to.ID).StringFixed(2))
	assert.Equal(t, "12000.46", derived(t, uow, to.ID).StringFixed(2))

	unknown := uuid.New()
	_, err = svc.Update(ctx, tx.ID, account.TransactionPatch{AccountID: &unknown})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestValideTransactionIsImmutable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Ba Oumar")
	a := testutil.NewAccount(t, uow, c, account.Courant, "", 0)

	tx, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Depot, Amount: decimal.NewFromInt(1000), Status: account.Valide,
	})
	require.NoError(t, err)

	amount := decimal.NewFromInt(999999)
	_, err = svc.Update(ctx, tx.ID, account.TransactionPatch{Amount: &amount})
	assert.ErrorIs(t, err, account.ErrTransactionImmutable)

	retrait := account.Retrait
	_, err = svc.Update(ctx, tx.ID, account.TransactionPatch{Type: &retrait})
	assert.ErrorIs(t, err, account.ErrTransactionImmutable)
	assertBalance(t, uow, a.ID, 1000)
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Kane Aïssatou")
	a := testutil.NewAccount(t, uow, c, account.Courant, "", 0)

	_, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: uuid.New(), Type: account.Depot, Amount: decimal.NewFromInt(1), Status: account.Valide,
	})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	_, err = svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Depot, Amount: decimal.NewFromInt(-1), Status: account.Valide,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: "virement", Amount: decimal.NewFromInt(1), Status: account.Valide,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListAndRecompute(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, svc := setup(t)
	c := testutil.NewClient(t, uow, "Ndiaye Fatou")
	a := testutil.NewAccount(t, uow, c, account.Epargne, "", 20000)
	b := testutil.NewAccount(t, uow, c, account.Courant, "", 5000)

	_, err := svc.Create(ctx, txsvc.CreateRequest{
		AccountID: a.ID, Type: account.Retrait, Amount: decimal.NewFromInt(2500), Status: account.Valide,
	})
	require.NoError(t, err)

	page, err := svc.List(ctx, dto.TransactionFilter{AccountID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)

	page, err = svc.List(ctx, dto.TransactionFilter{Type: account.Retrait})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	accounts, err := uow.AccountRepository()
	require.NoError(t, err)
	require.NoError(t, accounts.SetCachedBalance(ctx, a.ID, decimal.NewFromInt(1)))
	require.NoError(t, accounts.SetCachedBalance(ctx, b.ID, decimal.NewFromInt(2)))

	balance, err := svc.RecomputeBalance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "17500.00", balance.StringFixed(2))

	n, err := svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assertBalance(t, uow, a.ID, 17500)
	assertBalance(t, uow, b.ID, 5000)
}
