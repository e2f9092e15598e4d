package account

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavings(t *testing.T) *Account {
	t.Helper()
	a, err := New().WithClientID(uuid.New()).WithType(Epargne).Build()
	require.NoError(t, err)
	return a
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	a, err := New().WithClientID(uuid.New()).WithType(Courant).WithCurrency("").Build()
	require.NoError(t, err)
	assert.Equal(t, Actif, a.Status)
	assert.Equal(t, DefaultCurrency, a.Currency)
	assert.Equal(t, 1, a.Version)
	assert.Regexp(t, regexp.MustCompile(`^C\d{8}$`), a.Number)

	_, err = New().WithClientID(uuid.New()).WithType("cheque").Build()
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = New().WithType(Epargne).Build()
	assert.Error(t, err)
}

func TestBlock(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("savings account is blocked until computed date", func(t *testing.T) {
		t.Parallel()
		a := newSavings(t)
		require.NoError(t, a.Block(BlockRequest{Reason: "Suspicion de fraude", Duration: 30, Unit: Jours}, now))

		assert.Equal(t, Bloque, a.Status)
		assert.Equal(t, "Suspicion de fraude", a.BlockReason)
		require.NotNil(t, a.BlockedAt)
		require.NotNil(t, a.UnblockAt)
		assert.True(t, a.UnblockAt.After(*a.BlockedAt))
		assert.Equal(t, now.AddDate(0, 0, 30), *a.UnblockAt)
	})

	t.Run("current account cannot be blocked", func(t *testing.T) {
		t.Parallel()
		a, err := New().WithClientID(uuid.New()).WithType(Courant).Build()
		require.NoError(t, err)

		err = a.Block(BlockRequest{Reason: "x", Duration: 1, Unit: Jours}, now)
		assert.ErrorIs(t, err, ErrInvalidAccountType)
		assert.Equal(t, Actif, a.Status)
	})

	t.Run("second block is rejected", func(t *testing.T) {
		t.Parallel()
		a := newSavings(t)
		req := BlockRequest{Reason: "contrôle", Duration: 2, Unit: Mois}
		require.NoError(t, a.Block(req, now))

		err := a.Block(req, now)
		assert.ErrorIs(t, err, ErrAccountNotActive)
		var derr *domain.Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "ACCOUNT_NOT_ACTIVE", derr.Code)
	})

	t.Run("invalid request", func(t *testing.T) {
		t.Parallel()
		a := newSavings(t)
		err := a.Block(BlockRequest{Reason: " ", Duration: 0, Unit: "semaines"}, now)
		var derr *domain.Error
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "VALIDATION_ERROR", derr.Code)
		assert.Contains(t, derr.Details, "motif")
		assert.Contains(t, derr.Details, "duree")
		assert.Contains(t, derr.Details, "unite")
	})
}

func TestUnblockDate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		from time.Time
		d    int
		unit DurationUnit
		want time.Time
	}{
		{"days", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 30, Jours, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"months", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), 2, Mois, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"month overflow", time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, Mois, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"month overflow leap year", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, Mois, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := UnblockDate(tt.from, tt.d, tt.unit)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.After(tt.from))
		})
	}
}

func TestUnblock(t *testing.T) {
	t.Parallel()
	a := newSavings(t)

	err := a.Unblock("levée")
	assert.ErrorIs(t, err, ErrAccountNotBlocked)

	require.NoError(t, a.Block(BlockRequest{Reason: "contrôle", Duration: 1, Unit: Jours}, time.Now()))
	assert.ErrorIs(t, a.Unblock(""), domain.ErrValidation)
	require.NoError(t, a.Unblock("Vérification terminée"))
	assert.Equal(t, Actif, a.Status)
	assert.Empty(t, a.BlockReason)
	assert.Nil(t, a.BlockedAt)
	assert.Nil(t, a.UnblockAt)
}

func TestClose(t *testing.T) {
	t.Parallel()
	now := time.Now()

	t.Run("closed is terminal", func(t *testing.T) {
		t.Parallel()
		a := newSavings(t)
		require.NoError(t, a.Close(now))
		assert.Equal(t, Ferme, a.Status)
		require.NotNil(t, a.ClosedAt)

		assert.ErrorIs(t, a.Close(now), ErrAccountAlreadyClosed)
		assert.ErrorIs(t, a.Block(BlockRequest{Reason: "x", Duration: 1, Unit: Jours}, now), ErrAccountNotActive)
		assert.ErrorIs(t, a.Unblock("x"), ErrAccountNotBlocked)
		assert.Equal(t, Ferme, a.Status)
	})

	t.Run("blocked account cannot be closed", func(t *testing.T) {
		t.Parallel()
		a := newSavings(t)
		require.NoError(t, a.Block(BlockRequest{Reason: "x", Duration: 1, Unit: Jours}, now))
		assert.ErrorIs(t, a.Close(now), ErrAccountNotActive)
	})
}

func TestIsBlockExpiredAndRestore(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := newSavings(t)
	require.NoError(t, a.Block(BlockRequest{Reason: "x", Duration: 30, Unit: Jours}, now))

	assert.False(t, a.IsBlockExpired(now))
	assert.True(t, a.IsBlockExpired(now.AddDate(0, 0, 30)))
	assert.True(t, a.IsBlockExpired(now.AddDate(0, 0, 31)))

	deleted := now
	a.DeletedAt = &deleted
	assert.True(t, a.IsArchived())
	a.Restore()
	assert.Equal(t, Actif, a.Status)
	assert.False(t, a.IsArchived())
	assert.Nil(t, a.UnblockAt)
}

func TestErrorCodesMatchAcrossDetails(t *testing.T) {
	t.Parallel()
	err := ErrInvalidAccountType.WithDetails(map[string]any{"numeroCompte": "C00000001"})
	assert.ErrorIs(t, err, ErrInvalidAccountType)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, ErrAccountNotActive)
	assert.Empty(t, ErrInvalidAccountType.Details)
}
