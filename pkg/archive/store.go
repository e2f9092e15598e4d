// Package archive moves expired blocked savings accounts to a remote
// archive store and brings them back once their block has lapsed.
package archive

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by stores when the remote archive cannot be
// reached or answers with a server error.
var ErrUnavailable = errors.New("archive store unavailable")

// Store is the remote archive.
type Store interface {
	// ListSavings returns every archived savings account.
	ListSavings(ctx context.Context) ([]Record, error)
	// Get returns nil, nil when key is unknown remotely.
	Get(ctx context.Context, key string) (*Record, error)
	// ArchiveAccount stores rec and returns its remote id. Repeating the
	// call for the same account number must not create a second record.
	ArchiveAccount(ctx context.Context, rec Record) (string, error)
	ArchiveTransactions(ctx context.Context, id string, txs []TransactionRecord) error
	// ListBlocked returns archived accounts that were blocked when archived.
	ListBlocked(ctx context.Context) ([]Record, error)
	ListTransactions(ctx context.Context, id string) ([]TransactionRecord, error)
	Delete(ctx context.Context, id string) error
}
