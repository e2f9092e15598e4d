package account

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amirasaad/bankmanager/pkg/domain"
)

// DurationUnit is the calendar unit of a block duration.
type DurationUnit string

const (
	Jours DurationUnit = "jours"
	Mois  DurationUnit = "mois"
)

const maxReasonLength = 255

// BlockRequest carries the inputs of a block transition.
type BlockRequest struct {
	Reason   string
	Duration int
	Unit     DurationUnit
}

func (r BlockRequest) validate() error {
	fields := map[string]string{}
	switch reason := strings.TrimSpace(r.Reason); {
	case reason == "":
		fields["motif"] = "Le motif de blocage est requis"
	case utf8.RuneCountInString(reason) > maxReasonLength:
		fields["motif"] = "Le motif ne doit pas dépasser 255 caractères"
	}
	if r.Duration < 1 {
		fields["duree"] = "La durée doit être d'au moins 1"
	}
	if r.Unit != Jours && r.Unit != Mois {
		fields["unite"] = "L'unité doit être jours ou mois"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}

// UnblockDate adds duration units to from using calendar arithmetic.
// Month overflow is normalized the way time.AddDate does it:
// 31 January + 1 mois is 3 March (2 March in a leap year).
func UnblockDate(from time.Time, duration int, unit DurationUnit) time.Time {
	if unit == Mois {
		return from.AddDate(0, duration, 0)
	}
	return from.AddDate(0, 0, duration)
}

// Block moves an active savings account to bloque until the computed
// unblock date.
func (a *Account) Block(req BlockRequest, now time.Time) error {
	if err := req.validate(); err != nil {
		return err
	}
	if a.Type != Epargne {
		return ErrInvalidAccountType.WithDetails(map[string]any{
			"numeroCompte": a.Number,
			"type":         a.Type,
		})
	}
	if a.Status != Actif {
		return ErrAccountNotActive.WithDetails(map[string]any{
			"numeroCompte": a.Number,
			"statut":       a.Status,
		})
	}
	blockedAt := now.UTC()
	unblockAt := UnblockDate(blockedAt, req.Duration, req.Unit)
	a.Status = Bloque
	a.BlockReason = strings.TrimSpace(req.Reason)
	a.BlockedAt = &blockedAt
	a.UnblockAt = &unblockAt
	return nil
}

// Unblock returns a blocked account to actif and clears the block fields.
func (a *Account) Unblock(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.NewValidationError(map[string]string{
			"motif": "Le motif de déblocage est requis",
		})
	}
	if a.Status != Bloque {
		return ErrAccountNotBlocked.WithDetails(map[string]any{
			"numeroCompte": a.Number,
			"statut":       a.Status,
		})
	}
	a.clearBlock()
	a.Status = Actif
	return nil
}

// Close moves an active account to the terminal ferme state.
func (a *Account) Close(now time.Time) error {
	if a.Status == Ferme {
		return ErrAccountAlreadyClosed.WithDetails(map[string]any{
			"numeroCompte": a.Number,
		})
	}
	if a.Status != Actif {
		return ErrAccountNotActive.WithDetails(map[string]any{
			"numeroCompte": a.Number,
			"statut":       a.Status,
		})
	}
	closedAt := now.UTC()
	a.Status = Ferme
	a.ClosedAt = &closedAt
	return nil
}

// Restore brings an account back from the archive as actif.
func (a *Account) Restore() {
	a.clearBlock()
	a.Status = Actif
	a.DeletedAt = nil
}

// IsBlockExpired reports whether a blocked account reached its unblock date.
func (a *Account) IsBlockExpired(now time.Time) bool {
	return a.Status == Bloque && a.UnblockAt != nil && !a.UnblockAt.After(now)
}

func (a *Account) clearBlock() {
	a.BlockReason = ""
	a.BlockedAt = nil
	a.UnblockAt = nil
}
