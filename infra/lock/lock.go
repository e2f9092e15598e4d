// Package lock provides named, expiring locks that keep scheduled jobs from
// running twice at the same time.
package lock

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/bankmanager/pkg/scheduler"
)

var (
	_ scheduler.Locker = (*Memory)(nil)
	_ scheduler.Locker = (*Redis)(nil)
)

// Memory is an in-process lock. TryLock never blocks and leases expire
// after their ttl.
type Memory struct {
	mu   sync.Mutex
	held map[string]memoryLease
	now  func() time.Time
	seq  uint64
}

type memoryLease struct {
	id      uint64
	expires time.Time
}

func NewMemory() *Memory {
	return &Memory{held: make(map[string]memoryLease), now: time.Now}
}

func (m *Memory) TryLock(_ context.Context, name string, ttl time.Duration) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if l, ok := m.held[name]; ok && now.Before(l.expires) {
		return nil, false, nil
	}
	m.seq++
	id := m.seq
	m.held[name] = memoryLease{id: id, expires: now.Add(ttl)}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if l, ok := m.held[name]; ok && l.id == id {
			delete(m.held, name)
		}
	}, true, nil
}
