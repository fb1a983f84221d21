package address

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Memory is an in-process Repository for tests. It ignores the querier.
type Memory struct {
	mu   sync.Mutex
	byID map[string]domain.Address
	seq  int
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.Address)}
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

// All returns every stored address.
func (m *Memory) All() []domain.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Address, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sortAddresses(out)
	return out
}

func (m *Memory) Create(_ context.Context, _ db.Querier, a domain.Address) (*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byID[a.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}
	if a.IsDefault && a.CustomerID != nil {
		for _, other := range m.byID {
			if other.IsDefault && other.OwnedBy(a.CustomerID) {
				return nil, domain.ErrAlreadyExists
			}
		}
	}
	m.seq++
	now := time.Unix(int64(m.seq), 0).UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	m.byID[a.ID] = a
	return &a, nil
}

func (m *Memory) GetByID(_ context.Context, _ db.Querier, id string) (*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) GetForCustomer(ctx context.Context, q db.Querier, customerID, id string) (*domain.Address, error) {
	a, err := m.GetByID(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if !a.OwnedBy(&customerID) {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (m *Memory) GetDefault(_ context.Context, _ db.Querier, customerID string) (*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.IsDefault && a.OwnedBy(&customerID) {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) Update(_ context.Context, _ db.Querier, a domain.Address) (*domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[a.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.IsDefault && cur.CustomerID != nil {
		for id, other := range m.byID {
			if id != a.ID && other.IsDefault && other.OwnedBy(cur.CustomerID) {
				return nil, domain.ErrAlreadyExists
			}
		}
	}
	a.CustomerID = cur.CustomerID
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	m.byID[a.ID] = a
	return &a, nil
}

func (m *Memory) ClearDefault(_ context.Context, _ db.Querier, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.byID {
		if a.IsDefault && a.OwnedBy(&customerID) {
			a.IsDefault = false
			m.byID[id] = a
		}
	}
	return nil
}

func (m *Memory) MarkDefault(_ context.Context, _ db.Querier, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if a.CustomerID != nil {
		for otherID, other := range m.byID {
			if otherID != id && other.IsDefault && other.OwnedBy(a.CustomerID) {
				return domain.ErrAlreadyExists
			}
		}
	}
	a.IsDefault = true
	m.byID[id] = a
	return nil
}

func (m *Memory) ListByCustomer(_ context.Context, _ db.Querier, customerID string, limit, offset int) ([]domain.Address, int, error) {
	m.mu.Lock()
	var owned []domain.Address
	for _, a := range m.byID {
		if a.OwnedBy(&customerID) {
			owned = append(owned, a)
		}
	}
	m.mu.Unlock()

	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return owned[i].ID < owned[j].ID
	})
	total := len(owned)
	if offset >= total {
		return []domain.Address{}, total, nil
	}
	end := min(offset+limit, total)
	return owned[offset:end], total, nil
}

func sortAddresses(a []domain.Address) {
	sort.Slice(a, func(i, j int) bool { return a[i].CreatedAt.Before(a[j].CreatedAt) })
}

var _ Repository = (*Memory)(nil)
