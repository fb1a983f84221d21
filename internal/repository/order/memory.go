package order

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
	byID map[string]domain.CleaningOrder
	seq  int
	// FailCreate, when set, is returned by Create.
	FailCreate error
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.CleaningOrder)}
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

// Len returns the number of stored orders.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// Put stores o as is.
func (m *Memory) Put(o domain.CleaningOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[o.ID] = o
}

func (m *Memory) Create(_ context.Context, _ db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreate != nil {
		return nil, m.FailCreate
	}
	if _, exists := m.byID[o.ID]; exists {
		return nil, domain.ErrAlreadyExists
	}
	m.seq++
	now := time.Unix(int64(m.seq), 0).UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	m.byID[o.ID] = o
	return &o, nil
}

func (m *Memory) GetByID(_ context.Context, _ db.Querier, id string) (*domain.CleaningOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m *Memory) Update(_ context.Context, _ db.Querier, o domain.CleaningOrder) (*domain.CleaningOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[o.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	o.CreatedAt = cur.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	m.byID[o.ID] = o
	return &o, nil
}

func (m *Memory) Delete(_ context.Context, _ db.Querier, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *Memory) List(_ context.Context, _ db.Querier, f ListFilter) ([]domain.CleaningOrder, int, error) {
	m.mu.Lock()
	var out []domain.CleaningOrder
	for _, o := range m.byID {
		if f.CustomerID != nil && (o.CustomerID == nil || *o.CustomerID != *f.CustomerID) {
			continue
		}
		if f.Status != "" && o.OrderStatus != f.Status {
			continue
		}
		out = append(out, o)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if f.Descending {
			return lessBy(f.SortField, out[j], out[i])
		}
		return lessBy(f.SortField, out[i], out[j])
	})
	total := len(out)
	if f.Offset >= total {
		return []domain.CleaningOrder{}, total, nil
	}
	end := min(f.Offset+f.Limit, total)
	return out[f.Offset:end], total, nil
}

func (m *Memory) HasActiveForAddress(_ context.Context, _ db.Querier, addressID string, customerID *string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.byID {
		if o.AddressID != addressID || o.OrderStatus.Terminal() {
			continue
		}
		sameCustomer := (o.CustomerID == nil && customerID == nil) ||
			(o.CustomerID != nil && customerID != nil && *o.CustomerID == *customerID)
		if sameCustomer {
			return true, nil
		}
	}
	return false, nil
}

func lessBy(field SortField, a, b domain.CleaningOrder) bool {
	switch field {
	case SortStartTime:
		return a.StartTime.Before(b.StartTime)
	case SortEndTime:
		return timeOrZero(a.EndTime).Before(timeOrZero(b.EndTime))
	case SortPrice:
		return a.Price.LessThan(b.Price)
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

var _ Repository = (*Memory)(nil)
