package user

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Memory is an in-process Repository for tests. It ignores the querier.
type Memory struct {
	mu   sync.Mutex
	byID map[string]domain.User
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.User)}
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

func (m *Memory) Create(_ context.Context, _ db.Querier, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	for _, other := range m.byID {
		if other.ID == u.ID || other.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = u
	return &u, nil
}

func (m *Memory) GetByID(_ context.Context, _ db.Querier, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetByEmail(_ context.Context, _ db.Querier, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) Update(_ context.Context, _ db.Querier, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[u.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Email = strings.ToLower(u.Email)
	for id, other := range m.byID {
		if id != u.ID && other.Email == u.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	u.CreatedAt = cur.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	m.byID[u.ID] = u
	return &u, nil
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

func (m *Memory) List(_ context.Context, _ db.Querier, limit, offset int) ([]domain.User, int, error) {
	m.mu.Lock()
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset >= total {
		return []domain.User{}, total, nil
	}
	return out[offset:min(offset+limit, total)], total, nil
}

var _ Repository = (*Memory)(nil)
