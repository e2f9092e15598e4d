package repository

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(testutil.NewDB(t))
	repo, _ := uow.ClientRepository()

	awa := testutil.NewClient(t, uow, "Diop Awa Marie")
	other := testutil.NewClient(t, uow, "Sow Cheikh")

	got, err := repo.Get(ctx, awa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diop", got.Nom)
	assert.Equal(t, "Awa Marie", got.Prenom)
	assert.Equal(t, 1, got.Version)

	taken, err := repo.EmailTaken(ctx, awa.Email, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.EmailTaken(ctx, awa.Email, awa.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = repo.PhoneTaken(ctx, other.Telephone, awa.ID)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.NCITaken(ctx, "ZZZZZZZZZ", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, got.Rename("Diop Awa"))
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, 2, got.Version)
	awa.Nom = "stale"
	assert.ErrorIs(t, repo.Update(ctx, awa), domain.ErrVersionConflict)

	found, total, err := repo.List(ctx, dto.ClientFilter{Search: "cheikh"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, other.ID, found[0].ID)

	dup, err := client.New(client.Profile{Titulaire: "X Y", Email: awa.Email, Telephone: "+221700000001"}, "secret", "NCI")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrAlreadyExists)

	require.NoError(t, repo.Delete(ctx, other.ID))
	_, err = repo.Get(ctx, other.ID)
	assert.ErrorIs(t, err, client.ErrClientNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, other.ID), client.ErrClientNotFound)
}

func TestTransactionRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(testutil.NewDB(t))
	repo, _ := uow.TransactionRepository()
	c := testutil.NewClient(t, uow, "Faye Aminata")
	a := testutil.NewAccount(t, uow, c, account.Courant, "", 50000)
	b := testutil.NewAccount(t, uow, c, account.Epargne, "", 0)

	older := time.Now().UTC().AddDate(0, 0, -2).Truncate(time.Second)
	w, err := account.NewTransaction(a.ID, account.Retrait, decimal.NewFromInt(20000), account.EnCours, older)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, w))

	exists, err := repo.ExistsByNumber(ctx, w.Number)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.Get(ctx, w.ID, true)
	require.NoError(t, err)
	assert.Equal(t, older, got.Date)
	assert.True(t, decimal.NewFromInt(20000).Equal(got.Amount))

	require.NoError(t, got.Apply(account.TransactionPatch{Status: ptr(account.Valide), AccountID: &b.ID}))
	require.NoError(t, repo.Update(ctx, got))

	byB, err := repo.ListByAccount(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, byB, 1)
	assert.Equal(t, account.Valide, byB[0].Status)

	byA, err := repo.ListByAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(account.Balance(byA)))

	all, total, err := repo.List(ctx, dto.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, account.Depot, all[0].Type, "newest first")

	withdrawals, total, err := repo.List(ctx, dto.TransactionFilter{Type: account.Retrait, AccountID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, w.ID, withdrawals[0].ID)

	require.NoError(t, repo.Delete(ctx, w.ID))
	_, err = repo.Get(ctx, w.ID, false)
	assert.ErrorIs(t, err, account.ErrTransactionNotFound)
	assert.ErrorIs(t, repo.Update(ctx, w), account.ErrTransactionNotFound)
}

func TestAdminRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := NewUoW(testutil.NewDB(t))
	repo, _ := uow.AdminRepository()

	a, err := admin.New("Root", "Admin@Bank.sn", "password123")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByEmail(ctx, "ADMIN@bank.sn")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.True(t, got.CheckPassword("password123"))

	again, err := admin.New("Other", "admin@bank.sn", "password123")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, again), admin.ErrEmailTaken)

	require.NoError(t, got.SetPassword("new-password"))
	require.NoError(t, repo.Update(ctx, got))
	reloaded, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CheckPassword("new-password"))

	list, total, err := repo.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByEmail(ctx, "admin@bank.sn")
	assert.ErrorIs(t, err, admin.ErrAdminNotFound)
}

func ptr[T any](v T) *T {
	return &v
}
