package transaction

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/shopspring/decimal"
)

//revive:disable

// CreateTransactionRequest is the body of POST /transactions.
type CreateTransactionRequest struct {
	CompteID string          `json:"compteId" validate:"required,uuid"`
	Type     string          `json:"type" validate:"required,oneof=depot retrait transfert"`
	Montant  decimal.Decimal `json:"montant"`
	Statut   string          `json:"statut" validate:"required,oneof=en_cours valide annule"`
	Date     *time.Time      `json:"date"`
}

// UpdateTransactionRequest is the body of PUT/PATCH /transactions/:id.
// Absent fields are left unchanged.
type UpdateTransactionRequest struct {
	CompteID *string          `json:"compteId" validate:"omitempty,uuid"`
	Type     *string          `json:"type" validate:"omitempty,oneof=depot retrait transfert"`
	Montant  *decimal.Decimal `json:"montant"`
	Statut   *string          `json:"statut" validate:"omitempty,oneof=en_cours valide annule"`
	Date     *time.Time       `json:"date"`
}

// TransactionResponse is the API representation of a ledger entry.
type TransactionResponse struct {
	ID                string          `json:"id"`
	NumeroTransaction string          `json:"numeroTransaction"`
	Type              string          `json:"type"`
	Montant           decimal.Decimal `json:"montant"`
	Date              time.Time       `json:"date"`
	Statut            string          `json:"statut"`
	CompteID          string          `json:"compteId"`
	DateCreation      time.Time       `json:"dateCreation"`
}

func ToTransactionResponse(t *account.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                t.ID.String(),
		NumeroTransaction: t.Number,
		Type:              string(t.Type),
		Montant:           t.Amount,
		Date:              t.Date,
		Statut:            string(t.Status),
		CompteID:          t.AccountID.String(),
		DateCreation:      t.CreatedAt,
	}
}
