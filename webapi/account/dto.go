package account

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/shopspring/decimal"
)

//revive:disable

// ClientInput references an existing client by id or describes the client
// to create with the account.
type ClientInput struct {
	ID        string `json:"id" validate:"omitempty,uuid"`
	Titulaire string `json:"titulaire" validate:"max=255"`
	Email     string `json:"email" validate:"omitempty,email"`
	Telephone string `json:"telephone"`
	Adresse   string `json:"adresse" validate:"max=500"`
}

// OpenAccountRequest is the body of POST /comptes.
type OpenAccountRequest struct {
	Type         string          `json:"type" validate:"required,oneof=courant epargne"`
	SoldeInitial decimal.Decimal `json:"soldeInitial"`
	Devise       string          `json:"devise" validate:"max=10"`
	Client       *ClientInput    `json:"client" validate:"required"`
}

// ClientInfo lists the client fields an account update may change.
type ClientInfo struct {
	Telephone *string `json:"telephone"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8"`
	NCI       *string `json:"nci" validate:"omitempty,max=255"`
}

// UpdateAccountRequest is the body of PUT/PATCH /comptes/:numero.
type UpdateAccountRequest struct {
	Titulaire          *string     `json:"titulaire" validate:"omitempty,max=255"`
	InformationsClient *ClientInfo `json:"informationsClient"`
}

// BlockRequest is the body of POST /comptes/:numero/bloquer.
type BlockRequest struct {
	Motif string `json:"motif" validate:"required,max=255"`
	Duree int    `json:"duree" validate:"required,min=1"`
	Unite string `json:"unite" validate:"required,oneof=jours mois"`
}

// UnblockRequest is the body of POST /comptes/:numero/debloquer.
type UnblockRequest struct {
	Motif string `json:"motif" validate:"required,max=255"`
}

type Metadata struct {
	DerniereModification *time.Time `json:"derniereModification"`
	Version              int        `json:"version"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	ID                  string          `json:"id,omitempty"`
	NumeroCompte        string          `json:"numeroCompte"`
	Titulaire           string          `json:"titulaire"`
	Type                string          `json:"type"`
	Solde               decimal.Decimal `json:"solde"`
	Devise              string          `json:"devise"`
	DateCreation        *time.Time      `json:"dateCreation"`
	Statut              string          `json:"statut"`
	MotifBlocage        string          `json:"motifBlocage,omitempty"`
	DateBlocage         *time.Time      `json:"dateBlocage,omitempty"`
	DateDeblocagePrevue *time.Time      `json:"dateDeblocagePrevue,omitempty"`
	DateFermeture       *time.Time      `json:"dateFermeture,omitempty"`
	DateArchivage       *time.Time      `json:"dateArchivage,omitempty"`
	ClientID            string          `json:"clientId"`
	Archive             bool            `json:"archive,omitempty"`
	Metadata            Metadata        `json:"metadata"`
}

// ToAccountResponse maps a live account. Block dates are only shown for
// savings accounts.
func ToAccountResponse(a *account.Account, solde decimal.Decimal) AccountResponse {
	updated := a.UpdatedAt
	created := a.CreatedAt
	resp := AccountResponse{
		ID:            a.ID.String(),
		NumeroCompte:  a.Number,
		Titulaire:     a.Holder,
		Type:          string(a.Type),
		Solde:         solde,
		Devise:        a.Currency,
		DateCreation:  &created,
		Statut:        string(a.Status),
		MotifBlocage:  a.BlockReason,
		DateFermeture: a.ClosedAt,
		ClientID:      a.ClientID.String(),
		Metadata:      Metadata{DerniereModification: &updated, Version: a.Version},
	}
	if a.Type == account.Epargne {
		resp.DateBlocage = a.BlockedAt
		resp.DateDeblocagePrevue = a.UnblockAt
	}
	return resp
}

// ToArchivedResponse maps a record held by the remote archive.
func ToArchivedResponse(r archive.Record) AccountResponse {
	return AccountResponse{
		ID:                  r.ID,
		NumeroCompte:        r.NumeroCompte,
		Titulaire:           r.Titulaire,
		Type:                r.Type,
		Solde:               r.Solde,
		Devise:              r.Devise,
		DateCreation:        r.DateCreation.Ptr(),
		Statut:              r.Statut,
		MotifBlocage:        r.MotifBlocage,
		DateBlocage:         r.DateBlocage.Ptr(),
		DateDeblocagePrevue: r.DateDeblocagePrevue.Ptr(),
		DateArchivage:       r.DateArchivage.Ptr(),
		ClientID:            r.ClientID,
		Archive:             true,
		Metadata: Metadata{
			DerniereModification: r.Metadata.DerniereModification.Ptr(),
			Version:              r.Metadata.Version,
		},
	}
}

// BalanceResponse is the body of GET /comptes/:numero/solde.
type BalanceResponse struct {
	NumeroCompte string          `json:"numeroCompte"`
	Solde        decimal.Decimal `json:"solde"`
	Devise       string          `json:"devise"`
}

// OpenedResponse adds the provisioned client to the opened account.
type OpenedResponse struct {
	AccountResponse
	NouveauClient bool `json:"nouveauClient"`
}
