package dto

import (
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/google/uuid"
)

// Account listing sort keys.
const (
	SortDateCreation = "dateCreation"
	SortSolde        = "solde"
	SortTitulaire    = "titulaire"
)

// AccountFilter drives account listings. When Status is empty the
// listing only returns actif accounts; blocked and closed ones must be
// asked for explicitly.
type AccountFilter struct {
	PageRequest
	Type   account.Type
	Status account.Status
	Search string
	Sort   string
	Order  string
}

// Descending reports the sort direction; anything but "asc" is descending.
func (f AccountFilter) Descending() bool {
	return f.Order != "asc"
}

type TransactionFilter struct {
	PageRequest
	AccountID *uuid.UUID
	Type      account.TransactionType
	Status    account.TransactionStatus
}

type ClientFilter struct {
	PageRequest
	Search string
}
