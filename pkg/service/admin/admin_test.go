package admin_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/dto"
	adminsvc "github.com/amirasaad/bankmanager/pkg/service/admin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	svc := adminsvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))

	created, err := svc.EnsureDefault(ctx, "Admin", "admin@bankmanager.sn", "password123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = svc.EnsureDefault(ctx, "Admin", "admin@bankmanager.sn", "password123")
	require.NoError(t, err)
	assert.False(t, created)

	a, err := svc.Create(ctx, "Diop", "diop@bankmanager.sn", "password123")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Autre", "DIOP@bankmanager.sn", "password123")
	assert.ErrorIs(t, err, admin.ErrEmailTaken)
	_, err = svc.Create(ctx, "", "x", "court")
	assert.ErrorIs(t, err, domain.ErrValidation)

	nom := "Diop Awa"
	password := "nouveau-mdp"
	updated, err := svc.Update(ctx, a.ID, adminsvc.Patch{Nom: &nom, Password: &password})
	require.NoError(t, err)
	assert.Equal(t, "Diop Awa", updated.Nom)
	assert.True(t, updated.CheckPassword("nouveau-mdp"))

	bad := "invalid"
	_, err = svc.Update(ctx, a.ID, adminsvc.Patch{Email: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	page, err := svc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.TotalItems)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Get(ctx, a.ID)
	assert.ErrorIs(t, err, admin.ErrAdminNotFound)
}
