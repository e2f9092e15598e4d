package account

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Depot     TransactionType = "depot"
	Retrait   TransactionType = "retrait"
	Transfert TransactionType = "transfert"
)

func (t TransactionType) Valid() bool {
	return t == Depot || t == Retrait || t == Transfert
}

type TransactionStatus string

const (
	EnCours TransactionStatus = "en_cours"
	Valide  TransactionStatus = "valide"
	Annule  TransactionStatus = "annule"
)

func (s TransactionStatus) Valid() bool {
	return s == EnCours || s == Valide || s == Annule
}

var (
	ErrTransactionNotFound = domain.NewError(
		domain.ErrNotFound, "TRANSACTION_NOT_FOUND", "La transaction spécifiée n'existe pas")
	ErrTransactionImmutable = domain.NewError(
		domain.ErrConflict, "TRANSACTION_IMMUTABLE",
		"Le montant et le type d'une transaction validée ne peuvent pas être modifiés")
)

// Transaction is a single ledger entry against an account.
type Transaction struct {
	ID        uuid.UUID
	Number    string
	Type      TransactionType
	Amount    decimal.Decimal
	Date      time.Time
	Status    TransactionStatus
	AccountID uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTransaction validates the inputs and returns a transaction with a
// generated number. A zero date defaults to now.
func NewTransaction(
	accountID uuid.UUID,
	typ TransactionType,
	amount decimal.Decimal,
	status TransactionStatus,
	date time.Time,
) (*Transaction, error) {
	if err := validateTransaction(typ, amount, status); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if date.IsZero() {
		date = now
	}
	return &Transaction{
		ID:        uuid.New(),
		Number:    GenerateTransactionNumber(),
		Type:      typ,
		Amount:    amount.Round(2),
		Date:      date.UTC(),
		Status:    status,
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GenerateTransactionNumber returns "TXN" followed by 10 upper-case
// alphanumerics.
func GenerateTransactionNumber() string {
	return "TXN" + utils.RandomString(10, utils.UpperDigits)
}

// TransactionPatch lists the fields an update may change. Nil means unchanged.
type TransactionPatch struct {
	Type      *TransactionType
	Amount    *decimal.Decimal
	Date      *time.Time
	Status    *TransactionStatus
	AccountID *uuid.UUID
}

// Apply mutates t according to p. Amount and type are frozen once the
// transaction is valide, and cannot be changed in the same update that
// validates it.
func (t *Transaction) Apply(p TransactionPatch) error {
	next := *t
	if p.Type != nil {
		next.Type = *p.Type
	}
	if p.Amount != nil {
		next.Amount = p.Amount.Round(2)
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Date != nil {
		next.Date = p.Date.UTC()
	}
	if p.AccountID != nil {
		next.AccountID = *p.AccountID
	}
	if err := validateTransaction(next.Type, next.Amount, next.Status); err != nil {
		return err
	}

	economicChange := next.Type != t.Type || !next.Amount.Equal(t.Amount)
	if economicChange && (t.Status == Valide || next.Status == Valide) {
		return ErrTransactionImmutable.WithDetails(map[string]any{
			"numeroTransaction": t.Number,
		})
	}
	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}

func validateTransaction(typ TransactionType, amount decimal.Decimal, status TransactionStatus) error {
	fields := map[string]string{}
	if !typ.Valid() {
		fields["type"] = "Le type doit être depot, retrait ou transfert"
	}
	if amount.IsNegative() {
		fields["montant"] = "Le montant doit être positif"
	}
	if !status.Valid() {
		fields["statut"] = "Le statut doit être en_cours, valide ou annule"
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields)
	}
	return nil
}
