package client_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrarepo "github.com/amirasaad/bankmanager/infra/repository"
	"github.com/amirasaad/bankmanager/internal/testutil"
	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"github.com/amirasaad/bankmanager/pkg/dto"
	clientsvc "github.com/amirasaad/bankmanager/pkg/service/client"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *clientsvc.Service {
	t.Helper()
	uow := infrarepo.NewUoW(testutil.NewDB(t))
	return clientsvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func profile(email, phone string) client.Profile {
	return client.Profile{Titulaire: "Diop Awa", Email: email, Telephone: phone, Adresse: "Dakar"}
}

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)

	c, err := svc.Create(ctx, clientsvc.CreateRequest{
		Profile:  profile("awa@example.com", "+221770000001"),
		Password: "secret-pass",
		NCI:      "ABCDEFGH",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	assert.True(t, utils.CheckPasswordHash("secret-pass", c.PasswordHash))

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diop Awa", got.FullName())
	assert.Equal(t, "ABCDEFGH", got.NCI)

	_, err = svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, client.ErrClientNotFound)

	generated, err := svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("fatou@example.com", "+221770000002")})
	require.NoError(t, err)
	assert.Len(t, generated.NCI, 8)
	assert.NotEmpty(t, generated.PasswordHash)
}

func TestCreateRejectsDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("awa@example.com", "+221770000001"), NCI: "AAAAAAAA"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("AWA@example.com", "+221770000009")})
	assert.ErrorIs(t, err, client.ErrEmailTaken)

	_, err = svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("other@example.com", "+221770000001")})
	assert.ErrorIs(t, err, client.ErrPhoneTaken)

	_, err = svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("third@example.com", "+221770000003"), NCI: "AAAAAAAA"})
	assert.ErrorIs(t, err, client.ErrNCITaken)

	_, err = svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("not-an-email", "+221770000004")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateListDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("awa@example.com", "+221770000001")})
	require.NoError(t, err)
	b, err := svc.Create(ctx, clientsvc.CreateRequest{Profile: profile("moussa@example.com", "+221770000002")})
	require.NoError(t, err)

	titulaire := "Fall Moussa Ndiaye"
	active := true
	updated, err := svc.Update(ctx, b.ID, clientsvc.Patch{Titulaire: &titulaire, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "Moussa Ndiaye", updated.Prenom)
	assert.True(t, updated.IsActive)

	_, err = svc.Update(ctx, b.ID, clientsvc.Patch{Email: &a.Email})
	assert.ErrorIs(t, err, client.ErrEmailTaken)

	bad := "0102"
	_, err = svc.Update(ctx, b.ID, clientsvc.Patch{Telephone: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	page, err := svc.List(ctx, dto.ClientFilter{Search: "ndiaye"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), client.ErrClientNotFound)

	page, err = svc.List(ctx, dto.ClientFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Pagination.TotalItems)
}
