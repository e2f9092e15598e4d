package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/shopspring/decimal"
)

// Layouts accepted when decoding remote dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a remote date. It encodes as RFC 3339 and decodes RFC 3339
// or "2006-01-02 15:04:05" (UTC). The zero value encodes as null.
type Timestamp struct {
	time.Time
}

// At wraps t; nil becomes the zero Timestamp.
func At(t *time.Time) Timestamp {
	if t == nil {
		return Timestamp{}
	}
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp parses s with the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("archive: unrecognized date %q", s)
}

// Ptr returns nil for the zero Timestamp.
func (t Timestamp) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Metadata carries the local revision of an archived account.
type Metadata struct {
	DerniereModification Timestamp `json:"derniereModification"`
	Version              int       `json:"version"`
}

// Record is an account snapshot held by the remote archive.
type Record struct {
	ID                  string          `json:"id,omitempty"`
	NumeroCompte        string          `json:"numero_compte"`
	Titulaire           string          `json:"titulaire"`
	Type                string          `json:"type"`
	Solde               decimal.Decimal `json:"solde"`
	Devise              string          `json:"devise"`
	DateCreation        Timestamp       `json:"date_creation"`
	DateArchivage       Timestamp       `json:"date_archivage"`
	Statut              string          `json:"statut"`
	MotifBlocage        string          `json:"motifBlocage,omitempty"`
	DateBlocage         Timestamp       `json:"dateBlocage"`
	DateDeblocagePrevue Timestamp       `json:"dateDeblocagePrevue"`
	ClientID            string          `json:"client_id"`
	Metadata            Metadata        `json:"metadata"`
}

// TransactionRecord is a ledger entry archived with its account.
type TransactionRecord struct {
	NumeroTransaction string          `json:"numero_transaction"`
	Type              string          `json:"type"`
	Montant           decimal.Decimal `json:"montant"`
	Date              Timestamp       `json:"date"`
	Statut            string          `json:"statut"`
	NumeroCompte      string          `json:"numero_compte"`
}

// NewRecord snapshots a with its derived balance.
func NewRecord(a *account.Account, balance decimal.Decimal, archivedAt time.Time) Record {
	return Record{
		NumeroCompte:        a.Number,
		Titulaire:           a.Holder,
		Type:                string(a.Type),
		Solde:               balance,
		Devise:              a.Currency,
		DateCreation:        At(&a.CreatedAt),
		DateArchivage:       At(&archivedAt),
		Statut:              string(a.Status),
		MotifBlocage:        a.BlockReason,
		DateBlocage:         At(a.BlockedAt),
		DateDeblocagePrevue: At(a.UnblockAt),
		ClientID:            a.ClientID.String(),
		Metadata: Metadata{
			DerniereModification: At(&a.UpdatedAt),
			Version:              a.Version,
		},
	}
}

// NewTransactionRecords converts the ledger of the account numbered number.
func NewTransactionRecords(number string, txs []*account.Transaction) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionRecord{
			NumeroTransaction: t.Number,
			Type:              string(t.Type),
			Montant:           t.Amount,
			Date:              At(&t.Date),
			Statut:            string(t.Status),
			NumeroCompte:      number,
		})
	}
	return out
}

// Key identifies the record remotely; the account number until the store
// assigned an id.
func (r Record) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.NumeroCompte
}

// UnblockDue reports whether the block recorded in r has lapsed at now.
// Records without an unblock date are never due.
func (r Record) UnblockDue(now time.Time) bool {
	return !r.DateDeblocagePrevue.IsZero() && !r.DateDeblocagePrevue.After(now)
}
