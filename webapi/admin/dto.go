package admin

import (
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/admin"
)

//revive:disable

type CreateAdminRequest struct {
	Nom        string `json:"nom" validate:"required,max=255"`
	Email      string `json:"email" validate:"required,email"`
	MotDePasse string `json:"mot_de_passe" validate:"required,min=8"`
}

type UpdateAdminRequest struct {
	Nom        *string `json:"nom" validate:"omitempty,max=255"`
	Email      *string `json:"email" validate:"omitempty,email"`
	MotDePasse *string `json:"mot_de_passe" validate:"omitempty,min=8"`
}

type AdminResponse struct {
	ID           string    `json:"id"`
	Nom          string    `json:"nom"`
	Email        string    `json:"email"`
	DateCreation time.Time `json:"dateCreation"`
}

func ToAdminResponse(a *admin.Admin) AdminResponse {
	return AdminResponse{
		ID:           a.ID.String(),
		Nom:          a.Nom,
		Email:        a.Email,
		DateCreation: a.CreatedAt,
	}
}
