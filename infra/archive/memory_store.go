package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/amirasaad/bankmanager/pkg/archive"
	"github.com/amirasaad/bankmanager/pkg/domain/account"
	"github.com/google/uuid"
)

// MemoryStore is an in-process archive used when no remote archive is
// configured, and in tests.
type MemoryStore struct {
	mu           sync.RWMutex
	records      map[string]archive.Record
	transactions map[string][]archive.TransactionRecord
}

var _ archive.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:      make(map[string]archive.Record),
		transactions: make(map[string][]archive.TransactionRecord),
	}
}

func (m *MemoryStore) ListSavings(_ context.Context) ([]archive.Record, error) {
	return m.filter(func(r archive.Record) bool {
		return r.Type == string(account.Epargne)
	}), nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (*archive.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.resolve(key)
	if !ok {
		return nil, nil
	}
	rec := m.records[id]
	return &rec, nil
}

// ArchiveAccount replaces any record with the same account number.
func (m *MemoryStore) ArchiveAccount(_ context.Context, rec archive.Record) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.resolve(rec.NumeroCompte)
	if !ok {
		id = uuid.NewString()
	}
	rec.ID = id
	m.records[id] = rec
	return id, nil
}

func (m *MemoryStore) ArchiveTransactions(_ context.Context, id string, txs []archive.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.resolve(id)
	if !ok {
		return archive.ErrUnavailable
	}
	m.transactions[id] = append([]archive.TransactionRecord(nil), txs...)
	return nil
}

func (m *MemoryStore) ListBlocked(_ context.Context) ([]archive.Record, error) {
	return m.filter(func(r archive.Record) bool {
		return r.Statut == string(account.Bloque)
	}), nil
}

func (m *MemoryStore) ListTransactions(_ context.Context, id string) ([]archive.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, _ = m.resolve(id)
	return append([]archive.TransactionRecord(nil), m.transactions[id]...), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.resolve(id); ok {
		delete(m.records, id)
		delete(m.transactions, id)
	}
	return nil
}

// Len returns the number of archived accounts.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// resolve maps a remote id or an account number to a remote id.
func (m *MemoryStore) resolve(key string) (string, bool) {
	if _, ok := m.records[key]; ok {
		return key, true
	}
	for id, r := range m.records {
		if r.NumeroCompte == key {
			return id, true
		}
	}
	return "", false
}

func (m *MemoryStore) filter(keep func(archive.Record) bool) []archive.Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]archive.Record, 0, len(m.records))
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NumeroCompte < out[j].NumeroCompte
	})
	return out
}
