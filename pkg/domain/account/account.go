package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the product kind of an account.
type Type string

const (
	Courant Type = "courant"
	Epargne Type = "epargne"
)

func (t Type) Valid() bool {
	return t == Courant || t == Epargne
}

// Status is the lifecycle state of an account.
//
//	actif --Block--> bloque --Unblock--> actif
//	actif --Close--> ferme (terminal)
type Status string

const (
	Actif  Status = "actif"
	Bloque Status = "bloque"
	Ferme  Status = "ferme"
)

func (s Status) Valid() bool {
	return s == Actif || s == Bloque || s == Ferme
}

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "FCFA"

var (
	ErrAccountNotFound = domain.NewError(
		domain.ErrNotFound, "COMPTE_NOT_FOUND", "Le compte avec l'ID spécifié n'existe pas")
	ErrInvalidAccountType = domain.NewError(
		domain.ErrConflict, "INVALID_ACCOUNT_TYPE", "Seuls les comptes épargne peuvent être bloqués")
	ErrAccountNotActive = domain.NewError(
		domain.ErrConflict, "ACCOUNT_NOT_ACTIVE", "Le compte n'est pas actif")
	ErrAccountNotBlocked = domain.NewError(
		domain.ErrConflict, "ACCOUNT_NOT_BLOCKED", "Le compte n'est pas bloqué")
	ErrAccountAlreadyClosed = domain.NewError(
		domain.ErrConflict, "ACCOUNT_ALREADY_CLOSED", "Le compte est déjà fermé")
)

// Account is the aggregate root for a client's bank account.
//
// The authoritative balance is derived from the account's transactions
// (see Balance). CachedBalance is a materialized copy kept for listing and
// sorting; it is maintained through Delta and may be recomputed at any time.
type Account struct {
	ID            uuid.UUID
	Number        string
	Type          Type
	Status        Status
	Currency      string
	ClientID      uuid.UUID
	Holder        string // owning client's "nom prenom", read-only
	BlockReason   string
	BlockedAt     *time.Time
	UnblockAt     *time.Time
	ClosedAt      *time.Time
	CachedBalance decimal.Decimal
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	number    string
	typ       Type
	status    Status
	currency  string
	clientID  uuid.UUID
	version   int
	createdAt time.Time
}

// New creates a new Builder for an active account with a generated number.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		number:    GenerateNumber(),
		status:    Actif,
		currency:  DefaultCurrency,
		version:   1,
		createdAt: now,
	}
}

func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

func (b *Builder) WithNumber(number string) *Builder {
	b.number = number
	return b
}

func (b *Builder) WithType(t Type) *Builder {
	b.typ = t
	return b
}

// WithStatus is used when hydrating an account from an archive record.
func (b *Builder) WithStatus(s Status) *Builder {
	b.status = s
	return b
}

// WithCurrency sets the currency. An empty value keeps the default.
func (b *Builder) WithCurrency(c string) *Builder {
	if c != "" {
		b.currency = c
	}
	return b
}

func (b *Builder) WithClientID(id uuid.UUID) *Builder {
	b.clientID = id
	return b
}

func (b *Builder) WithVersion(v int) *Builder {
	if v > 0 {
		b.version = v
	}
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	if !t.IsZero() {
		b.createdAt = t
	}
	return b
}

// Build validates the collected fields and returns the account.
func (b *Builder) Build() (*Account, error) {
	if !b.typ.Valid() {
		return nil, domain.NewValidationError(map[string]string{
			"type": "Le type doit être courant ou epargne",
		})
	}
	if !b.status.Valid() {
		return nil, fmt.Errorf("invalid status %q", b.status)
	}
	if b.clientID == uuid.Nil {
		return nil, errors.New("clientID is required")
	}
	if b.number == "" {
		return nil, errors.New("account number is required")
	}
	return &Account{
		ID:            b.id,
		Number:        b.number,
		Type:          b.typ,
		Status:        b.status,
		Currency:      b.currency,
		ClientID:      b.clientID,
		CachedBalance: decimal.Zero,
		Version:       b.version,
		CreatedAt:     b.createdAt,
		UpdatedAt:     b.createdAt,
	}, nil
}

// GenerateNumber returns a candidate account number: "C" followed by
// 8 zero-padded digits. Uniqueness is checked by the caller.
func GenerateNumber() string {
	return fmt.Sprintf("C%08d", utils.RandomInt(1, 99999999))
}

// IsArchived reports whether the account has been soft-deleted locally.
func (a *Account) IsArchived() bool {
	return a.DeletedAt != nil
}
