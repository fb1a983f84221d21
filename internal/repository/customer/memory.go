package customer

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Memory is an in-process Repository for tests. It ignores the querier.
type Memory struct {
	mu   sync.Mutex
	byID map[string]domain.Customer
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.Customer)}
}

// Snapshot captures the current rows and returns a func restoring them.
func (m *Memory) Snapshot() func() {
	m.mu.Lock()
	saved := maps.Clone(m.byID)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.byID = saved
		m.mu.Unlock()
	}
}

func (m *Memory) Create(ctx context.Context, q db.Querier, c domain.Customer) (*domain.Customer, error) {
	exists, _ := m.ExistsAny(ctx, q, c.Username, c.Email, c.Phone)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byID[c.ID]; dup || exists {
		return nil, domain.ErrAlreadyExists
	}
	if c.Email != nil {
		lower := strings.ToLower(*c.Email)
		c.Email = &lower
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	m.byID[c.ID] = c
	return &c, nil
}

func (m *Memory) GetByID(_ context.Context, _ db.Querier, id string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *Memory) GetByUsername(_ context.Context, _ db.Querier, username string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) ExistsAny(_ context.Context, _ db.Querier, username string, email *string, phone string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Username == username || c.Phone == phone {
			return true, nil
		}
		if email != nil && c.Email != nil && strings.EqualFold(*c.Email, *email) {
			return true, nil
		}
	}
	return false, nil
}

var _ Repository = (*Memory)(nil)
