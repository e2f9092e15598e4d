package client

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/client"
)

//revive:disable

// CreateClientRequest is the body of POST /clients. Password and NCI are
// generated when absent.
type CreateClientRequest struct {
	Titulaire string `json:"titulaire" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Telephone string `json:"telephone" validate:"required"`
	Adresse   string `json:"adresse" validate:"max=500"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	NCI       string `json:"nci" validate:"omitempty,max=20"`
}

// UpdateClientRequest is the body of PUT/PATCH /clients/:id.
// Absent fields are left unchanged.
type UpdateClientRequest struct {
	Titulaire *string `json:"titulaire" validate:"omitempty,max=255"`
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Telephone *string `json:"telephone"`
	Adresse   *string `json:"adresse" validate:"omitempty,max=500"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	IsActive  *bool   `json:"isActive"`
}

// ClientResponse never carries the password hash.
type ClientResponse struct {
	ID           string    `json:"id"`
	Nom          string    `json:"nom"`
	Prenom       string    `json:"prenom"`
	Email        string    `json:"email"`
	Telephone    string    `json:"telephone"`
	Adresse      string    `json:"adresse"`
	NCI          string    `json:"nci"`
	IsActive     bool      `json:"isActive"`
	Version      int       `json:"version"`
	DateCreation time.Time `json:"dateCreation"`
}

func ToClientResponse(c *client.Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID.String(),
		Nom:          c.Nom,
		Prenom:       c.Prenom,
		Email:        c.Email,
		Telephone:    c.Telephone,
		Adresse:      c.Adresse,
		NCI:          c.NCI,
		IsActive:     c.IsActive,
		Version:      c.Version,
		DateCreation: c.CreatedAt,
	}
}
