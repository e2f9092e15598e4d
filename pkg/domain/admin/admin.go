package admin

import (
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrAdminNotFound is returned when an admin cannot be found in the
	// repository.
	ErrAdminNotFound = domain.NewError(domain.ErrNotFound, "ADMIN_NOT_FOUND", "Administrateur introuvable")
	// ErrInvalidCredentials is returned by login on a bad email/password pair.
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "INVALID_CREDENTIALS", "Identifiants invalides")
	// ErrEmailTaken is returned when the email already belongs to an admin.
	ErrEmailTaken = domain.NewError(domain.ErrAlreadyExists, "EMAIL_ALREADY_EXISTS", "Cet email est déjà utilisé")
)

const minPasswordLength = 8

// Admin is a back-office operator allowed to close accounts.
type Admin struct {
	ID           uuid.UUID
	Nom          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates an Admin with a hashed password and current timestamps.
func New(nom, email, password string) (*Admin, error) {
	fields := map[string]string{}
	if strings.TrimSpace(nom) == "" {
		fields["nom"] = "Le nom est requis"
	}
	if !utils.IsEmail(email) {
		fields["email"] = "L'email doit être valide"
	}
	if len(password) < minPasswordLength {
		fields["mot_de_passe"] = "Le mot de passe doit contenir au moins 8 caractères"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Admin{
		ID:           uuid.New(),
		Nom:          strings.TrimSpace(nom),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetPassword replaces the stored hash.
func (a *Admin) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.NewValidationError(map[string]string{
			"mot_de_passe": "Le mot de passe doit contenir au moins 8 caractères",
		})
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Admin) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, a.PasswordHash)
}
