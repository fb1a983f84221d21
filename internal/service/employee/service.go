package employee

import (
	"context"
	"errors"
	"strings"
	"time"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	employeerepo "cleaning-crm/internal/repository/employee"
	"cleaning-crm/internal/validate"
)

const clockLayout = "15:04"

// Service manages employees and their weekly schedules.
type Service struct {
	db   db.DB
	repo employeerepo.Repository
}

// New creates a Service.
func New(database db.DB, repo employeerepo.Repository) *Service {
	return &Service{db: database, repo: repo}
}

// ScheduleInput is one weekly working window.
type ScheduleInput struct {
	Workday       domain.Workday `json:"workday" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	WorkStartTime string         `json:"workStartTime" validate:"required,datetime=15:04"`
	WorkEndTime   string         `json:"workEndTime" validate:"required,datetime=15:04"`
}

// Input describes an employee. Schedules replace any stored ones.
type Input struct {
	Name      string          `json:"name" validate:"required"`
	Phone     string          `json:"phone" validate:"required,e164"`
	Email     *string         `json:"email" validate:"omitempty,email"`
	Salary    float64         `json:"salary" validate:"gte=0"`
	Schedules []ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}

// UpdateInput is a partial employee update. A non-nil Schedules replaces
// every stored schedule of the employee.
type UpdateInput struct {
	Name      *string         `json:"name" validate:"omitempty,min=1"`
	Phone     *string         `json:"phone" validate:"omitempty,e164"`
	Email     *string         `json:"email" validate:"omitempty,email"`
	Salary    *float64        `json:"salary" validate:"omitempty,gte=0"`
	Schedules []ScheduleInput `json:"schedules" validate:"omitempty,dive"`
}

// Create stores an employee together with its schedules.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Employee, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := checkWindows(in.Schedules); err != nil {
		return nil, err
	}
	e := domain.Employee{
		ID:     domain.NewID(domain.EmployeeIDPrefix),
		Name:   strings.TrimSpace(in.Name),
		Phone:  in.Phone,
		Email:  in.Email,
		Salary: in.Salary,
	}

	var out *domain.Employee
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		created, err := s.repo.Create(ctx, q, e)
		if err != nil {
			return err
		}
		created.Schedules, err = s.repo.ReplaceSchedules(ctx, q, created.ID, toSchedules(in.Schedules))
		out = created
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns an employee with schedules.
func (s *Service) Get(ctx context.Context, id string) (*domain.Employee, error) {
	return s.get(ctx, s.db, id)
}

// List returns a page of employees with schedules.
func (s *Service) List(ctx context.Context, page, limit int) (*domain.Page[domain.Employee], error) {
	rows, total, err := s.repo.List(ctx, s.db, limit, domain.Offset(page, limit))
	if err != nil {
		return nil, err
	}
	return &domain.Page[domain.Employee]{Page: page, Limit: limit, Total: total, Data: rows}, nil
}

// Update changes an employee. Schedules, when given, are replaced in the
// same transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Employee, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := checkWindows(in.Schedules); err != nil {
		return nil, err
	}

	var out *domain.Employee
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		e, err := s.get(ctx, q, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			e.Name = strings.TrimSpace(*in.Name)
		}
		if in.Phone != nil {
			e.Phone = *in.Phone
		}
		if in.Email != nil {
			e.Email = in.Email
		}
		if in.Salary != nil {
			e.Salary = *in.Salary
		}
		if _, err := s.repo.Update(ctx, q, *e); err != nil {
			return err
		}
		if in.Schedules != nil {
			if _, err := s.repo.ReplaceSchedules(ctx, q, id, toSchedules(in.Schedules)); err != nil {
				return err
			}
		}
		out, err = s.get(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an employee and its schedules.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, s.db, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Employee not found")
	}
	return err
}

func (s *Service) get(ctx context.Context, q db.Querier, id string) (*domain.Employee, error) {
	e, err := s.repo.GetByID(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Employee not found")
	}
	return e, err
}

func toSchedules(in []ScheduleInput) []domain.WorkSchedule {
	out := make([]domain.WorkSchedule, 0, len(in))
	for _, s := range in {
		out = append(out, domain.WorkSchedule{
			ID:            domain.NewID(domain.ScheduleIDPrefix),
			Workday:       s.Workday,
			WorkStartTime: s.WorkStartTime,
			WorkEndTime:   s.WorkEndTime,
		})
	}
	return out
}

func checkWindows(in []ScheduleInput) error {
	for _, s := range in {
		if err := checkWindow(s.WorkStartTime, s.WorkEndTime); err != nil {
			return err
		}
	}
	return nil
}

// checkWindow expects both values to have passed the HH:MM format check.
func checkWindow(start, end string) error {
	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return domain.Validation("workStartTime must be formatted as HH:MM")
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return domain.Validation("workEndTime must be formatted as HH:MM")
	}
	if !to.After(from) {
		return domain.Validation("workEndTime must be after workStartTime")
	}
	return nil
}
