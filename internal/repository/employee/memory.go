package employee

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
	mu        sync.Mutex
	employees map[string]domain.Employee
	schedules map[string]domain.WorkSchedule
	// FailSchedule, when set, is returned by CreateSchedule.
	FailSchedule error
}

// NewMemory returns an empty Memory repository.
func NewMemory() *Memory {
	return &Memory{
		employees: make(map[string]domain.Employee),
		schedules: make(map[string]domain.WorkSchedule),
	}
}

// Snapshot captures the current rows and returns a func restoring them.
func (m *Memory) Snapshot() func() {
	m.mu.Lock()
	savedEmployees := maps.Clone(m.employees)
	savedSchedules := maps.Clone(m.schedules)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.employees = savedEmployees
		m.schedules = savedSchedules
		m.mu.Unlock()
	}
}

func (m *Memory) Create(_ context.Context, _ db.Querier, e domain.Employee) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[e.ID]; ok {
		return nil, domain.ErrAlreadyExists
	}
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	e.Schedules = []domain.WorkSchedule{}
	m.employees[e.ID] = e
	return &e, nil
}

func (m *Memory) GetByID(_ context.Context, _ db.Querier, id string) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Schedules = m.schedulesOf(id)
	return &e, nil
}

func (m *Memory) Update(_ context.Context, _ db.Querier, e domain.Employee) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.employees[e.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	e.Schedules = []domain.WorkSchedule{}
	m.employees[e.ID] = e
	return &e, nil
}

func (m *Memory) Delete(_ context.Context, _ db.Querier, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.employees, id)
	for sid, s := range m.schedules {
		if s.EmployeeID == id {
			delete(m.schedules, sid)
		}
	}
	return nil
}

func (m *Memory) List(_ context.Context, _ db.Querier, limit, offset int) ([]domain.Employee, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		e.Schedules = m.schedulesOf(e.ID)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset >= total {
		return []domain.Employee{}, total, nil
	}
	return out[offset:min(offset+limit, total)], total, nil
}

func (m *Memory) ReplaceSchedules(ctx context.Context, q db.Querier, employeeID string, schedules []domain.WorkSchedule) ([]domain.WorkSchedule, error) {
	m.mu.Lock()
	for id, s := range m.schedules {
		if s.EmployeeID == employeeID {
			delete(m.schedules, id)
		}
	}
	m.mu.Unlock()
	out := make([]domain.WorkSchedule, 0, len(schedules))
	for _, s := range schedules {
		s.EmployeeID = employeeID
		created, err := m.CreateSchedule(ctx, q, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

func (m *Memory) CreateSchedule(_ context.Context, _ db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSchedule != nil {
		return nil, m.FailSchedule
	}
	if _, ok := m.employees[s.EmployeeID]; !ok {
		return nil, domain.NotFound("employee not found")
	}
	now := time.Now().UTC()
	s.CreatedAt, s.UpdatedAt = now, now
	m.schedules[s.ID] = s
	return &s, nil
}

func (m *Memory) GetSchedule(_ context.Context, _ db.Querier, id string) (*domain.WorkSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *Memory) UpdateSchedule(_ context.Context, _ db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.schedules[s.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, ok := m.employees[s.EmployeeID]; !ok {
		return nil, domain.NotFound("employee not found")
	}
	s.CreatedAt = cur.CreatedAt
	s.UpdatedAt = time.Now().UTC()
	m.schedules[s.ID] = s
	return &s, nil
}

func (m *Memory) DeleteSchedule(_ context.Context, _ db.Querier, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.schedules, id)
	return nil
}

func (m *Memory) ListSchedules(_ context.Context, _ db.Querier, employeeID *string, limit, offset int) ([]domain.WorkSchedule, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WorkSchedule
	if employeeID != nil {
		out = m.schedulesOf(*employeeID)
	} else {
		for _, s := range m.schedules {
			out = append(out, s)
		}
		sortSchedules(out)
	}
	total := len(out)
	if offset >= total {
		return []domain.WorkSchedule{}, total, nil
	}
	return out[offset:min(offset+limit, total)], total, nil
}

// schedulesOf expects m.mu to be held.
func (m *Memory) schedulesOf(employeeID string) []domain.WorkSchedule {
	out := []domain.WorkSchedule{}
	for _, s := range m.schedules {
		if s.EmployeeID == employeeID {
			out = append(out, s)
		}
	}
	sortSchedules(out)
	return out
}

var dayOrder = map[domain.Workday]int{
	domain.Monday: 0, domain.Tuesday: 1, domain.Wednesday: 2, domain.Thursday: 3,
	domain.Friday: 4, domain.Saturday: 5, domain.Sunday: 6,
}

func sortSchedules(s []domain.WorkSchedule) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].EmployeeID != s[j].EmployeeID {
			return s[i].EmployeeID < s[j].EmployeeID
		}
		if dayOrder[s[i].Workday] != dayOrder[s[j].Workday] {
			return dayOrder[s[i].Workday] < dayOrder[s[j].Workday]
		}
		return s[i].WorkStartTime < s[j].WorkStartTime
	})
}

var _ Repository = (*Memory)(nil)
