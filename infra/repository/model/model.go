// Package model holds the GORM persistence models and their mapping to
// domain types.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client represents a client record in the database.
type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nom       string    `gorm:"size:255;not null"`
	Prenom    string    `gorm:"size:255"`
	Email     string    `gorm:"size:255;uniqueIndex;not null"`
	Telephone string    `gorm:"size:20;uniqueIndex;not null"`
	Adresse   string    `gorm:"size:500"`
	Password  string    `gorm:"not null"`
	NCI       string    `gorm:"column:nci;size:20;uniqueIndex"`
	IsActive  bool      `gorm:"not null"`
	Version   int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Client) TableName() string {
	return "clients"
}

// Compte represents an account record in the database. Solde is the
// cached balance; the ledger in transactions is authoritative.
type Compte struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NumeroCompte        string          `gorm:"size:20;uniqueIndex;not null"`
	Type                string          `gorm:"size:20;not null;index"`
	Solde               decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Devise              string          `gorm:"size:10;not null"`
	Statut              string          `gorm:"size:20;not null;index"`
	MotifBlocage        *string         `gorm:"size:255"`
	DateBlocage         *time.Time
	DateDeblocagePrevue *time.Time `gorm:"index"`
	DateFermeture       *time.Time
	ClientID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Version             int       `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (Compte) TableName() string {
	return "comptes"
}

// Transaction represents a persisted ledger entry.
type Transaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	NumeroTransaction string          `gorm:"size:20;uniqueIndex;not null"`
	Type              string          `gorm:"size:20;not null"`
	Montant           decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Date              time.Time       `gorm:"not null"`
	Statut            string          `gorm:"size:20;not null;index"`
	CompteID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (Transaction) TableName() string {
	return "transactions"
}

// Admin represents a back-office operator.
type Admin struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Nom        string    `gorm:"size:255;not null"`
	Email      string    `gorm:"size:255;uniqueIndex;not null"`
	MotDePasse string    `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Admin) TableName() string {
	return "admins"
}

// All lists the models managed by AutoMigrate, parents first.
func All() []any {
	return []any{&Client{}, &Admin{}, &Compte{}, &Transaction{}}
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
