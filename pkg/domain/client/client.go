package client

import (
	"regexp"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain"
	"github.com/amirasaad/bankmanager/pkg/utils"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound = domain.NewError(domain.ErrNotFound, "CLIENT_NOT_FOUND", "Le client spécifié n'existe pas")
	ErrEmailTaken     = domain.NewError(domain.ErrAlreadyExists, "EMAIL_ALREADY_EXISTS", "Cet email est déjà utilisé")
	ErrPhoneTaken     = domain.NewError(domain.ErrAlreadyExists, "TELEPHONE_ALREADY_EXISTS", "Ce numéro de téléphone est déjà utilisé")
	ErrNCITaken       = domain.NewError(domain.ErrAlreadyExists, "NCI_ALREADY_EXISTS", "Ce NCI est déjà utilisé")
)

var senegalPhone = regexp.MustCompile(`^\+221[0-9]{9}$`)

const (
	generatedPasswordLength = 12
	generatedNCILength      = 8
)

// Client is the holder of one or more accounts.
type Client struct {
	ID           uuid.UUID
	Nom          string
	Prenom       string
	Email        string
	Telephone    string
	Adresse      string
	PasswordHash string
	NCI          string
	IsActive     bool
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the titulaire shown on accounts.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.Nom + " " + c.Prenom)
}

// SplitTitulaire splits a holder name: the first whitespace-delimited token
// is the nom, the remaining tokens joined by single spaces are the prenom.
//
//	"Diop Awa Marie" -> ("Diop", "Awa Marie")
//	"Diop"           -> ("Diop", "")
//	"  "             -> ("", "")
func SplitTitulaire(titulaire string) (nom, prenom string) {
	parts := strings.Fields(titulaire)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ValidPhone reports whether phone is a +221 number with 9 digits.
func ValidPhone(phone string) bool {
	return senegalPhone.MatchString(phone)
}

// GeneratePassword returns a random 12 character password.
func GeneratePassword() string {
	return utils.RandomString(generatedPasswordLength, utils.Alphanumeric)
}

// GenerateNCI returns a random 8 letter upper-case identity code.
func GenerateNCI() string {
	return utils.RandomString(generatedNCILength, utils.Uppercase)
}

// Profile holds the editable identity fields of a client.
type Profile struct {
	Titulaire string
	Email     string
	Telephone string
	Adresse   string
}

// New builds an inactive client from a titulaire-style profile with the
// given plain password and NCI. The password is hashed.
func New(p Profile, password, nci string) (*Client, error) {
	fields := map[string]string{}
	nom, prenom := SplitTitulaire(p.Titulaire)
	if nom == "" {
		fields["client.titulaire"] = "Le titulaire est requis"
	}
	if !utils.IsEmail(p.Email) {
		fields["client.email"] = "L'email doit être valide"
	}
	if !ValidPhone(p.Telephone) {
		fields["client.telephone"] = "Le téléphone doit être au format +221XXXXXXXXX"
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Client{
		ID:           uuid.New(),
		Nom:          nom,
		Prenom:       prenom,
		Email:        strings.ToLower(p.Email),
		Telephone:    p.Telephone,
		Adresse:      p.Adresse,
		PasswordHash: hash,
		NCI:          nci,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Rename applies a new titulaire.
func (c *Client) Rename(titulaire string) error {
	nom, prenom := SplitTitulaire(titulaire)
	if nom == "" {
		return domain.NewValidationError(map[string]string{"titulaire": "Le titulaire est requis"})
	}
	c.Nom, c.Prenom = nom, prenom
	return nil
}

// SetPassword hashes and stores a new password.
func (c *Client) SetPassword(password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	return nil
}
