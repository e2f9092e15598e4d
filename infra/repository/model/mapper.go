package model

import (
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/amirasaad/bankmanager/pkg/domain/admin"
	"github.com/amirasaad/bankmanager/pkg/domain/client"
	"gorm.io/gorm"
)

func CompteFromDomain(a *account.Account) *Compte {
	m := &Compte{
		ID:                  a.ID,
		NumeroCompte:        a.Number,
		Type:                string(a.Type),
		Solde:               a.CachedBalance,
		Devise:              a.Currency,
		Statut:              string(a.Status),
		MotifBlocage:        nullableString(a.BlockReason),
		DateBlocage:         a.BlockedAt,
		DateDeblocagePrevue: a.UnblockAt,
		DateFermeture:       a.ClosedAt,
		ClientID:            a.ClientID,
		Version:             a.Version,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
	if a.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	}
	return m
}

// ToDomain maps the row back; holder is the owning client's full name.
func (m *Compte) ToDomain(holder string) *account.Account {
	a := &account.Account{
		ID:            m.ID,
		Number:        m.NumeroCompte,
		Type:          account.Type(m.Type),
		Status:        account.Status(m.Statut),
		Currency:      m.Devise,
		ClientID:      m.ClientID,
		Holder:        holder,
		BlockedAt:     utc(m.DateBlocage),
		UnblockAt:     utc(m.DateDeblocagePrevue),
		ClosedAt:      utc(m.DateFermeture),
		CachedBalance: m.Solde,
		Version:       m.Version,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if m.MotifBlocage != nil {
		a.BlockReason = *m.MotifBlocage
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time.UTC()
		a.DeletedAt = &t
	}
	return a
}

func TransactionFromDomain(t *account.Transaction) *Transaction {
	return &Transaction{
		ID:                t.ID,
		NumeroTransaction: t.Number,
		Type:              string(t.Type),
		Montant:           t.Amount,
		Date:              t.Date,
		Statut:            string(t.Status),
		CompteID:          t.AccountID,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (m *Transaction) ToDomain() *account.Transaction {
	return &account.Transaction{
		ID:        m.ID,
		Number:    m.NumeroTransaction,
		Type:      account.TransactionType(m.Type),
		Amount:    m.Montant,
		Date:      m.Date.UTC(),
		Status:    account.TransactionStatus(m.Statut),
		AccountID: m.CompteID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func ClientFromDomain(c *client.Client) *Client {
	return &Client{
		ID:        c.ID,
		Nom:       c.Nom,
		Prenom:    c.Prenom,
		Email:     c.Email,
		Telephone: c.Telephone,
		Adresse:   c.Adresse,
		Password:  c.PasswordHash,
		NCI:       c.NCI,
		IsActive:  c.IsActive,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *Client) ToDomain() *client.Client {
	return &client.Client{
		ID:           m.ID,
		Nom:          m.Nom,
		Prenom:       m.Prenom,
		Email:        m.Email,
		Telephone:    m.Telephone,
		Adresse:      m.Adresse,
		PasswordHash: m.Password,
		NCI:          m.NCI,
		IsActive:     m.IsActive,
		Version:      m.Version,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// FullName mirrors client.Client.FullName for holder projections.
func (m *Client) FullName() string {
	return strings.TrimSpace(m.Nom + " " + m.Prenom)
}

func AdminFromDomain(a *admin.Admin) *Admin {
	return &Admin{
		ID:         a.ID,
		Nom:        a.Nom,
		Email:      a.Email,
		MotDePasse: a.PasswordHash,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (m *Admin) ToDomain() *admin.Admin {
	return &admin.Admin{
		ID:           m.ID,
		Nom:          m.Nom,
		Email:        m.Email,
		PasswordHash: m.MotDePasse,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
