package employee

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	"cleaning-crm/internal/validate"
)

// ScheduleCreateInput adds one schedule entry to an employee.
type ScheduleCreateInput struct {
	EmployeeID    string         `json:"employeeId" validate:"required"`
	Workday       domain.Workday `json:"workday" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	WorkStartTime string         `json:"workStartTime" validate:"required,datetime=15:04"`
	WorkEndTime   string         `json:"workEndTime" validate:"required,datetime=15:04"`
}

// ScheduleUpdateInput is a partial schedule update.
type ScheduleUpdateInput struct {
	EmployeeID    *string         `json:"employeeId" validate:"omitempty,min=1"`
	Workday       *domain.Workday `json:"workday" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	WorkStartTime *string         `json:"workStartTime" validate:"omitempty,datetime=15:04"`
	WorkEndTime   *string         `json:"workEndTime" validate:"omitempty,datetime=15:04"`
}

// CreateSchedule stores a schedule entry for an existing employee.
func (s *Service) CreateSchedule(ctx context.Context, in ScheduleCreateInput) (*domain.WorkSchedule, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := checkWindow(in.WorkStartTime, in.WorkEndTime); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, s.db, in.EmployeeID); err != nil {
		return nil, err
	}
	return s.repo.CreateSchedule(ctx, s.db, domain.WorkSchedule{
		ID:            domain.NewID(domain.ScheduleIDPrefix),
		EmployeeID:    in.EmployeeID,
		Workday:       in.Workday,
		WorkStartTime: in.WorkStartTime,
		WorkEndTime:   in.WorkEndTime,
	})
}

// GetSchedule returns one schedule entry.
func (s *Service) GetSchedule(ctx context.Context, id string) (*domain.WorkSchedule, error) {
	return s.getSchedule(ctx, s.db, id)
}

// ListSchedules returns schedule entries, optionally for one employee.
func (s *Service) ListSchedules(ctx context.Context, employeeID *string, page, limit int) (*domain.Page[domain.WorkSchedule], error) {
	rows, total, err := s.repo.ListSchedules(ctx, s.db, employeeID, limit, domain.Offset(page, limit))
	if err != nil {
		return nil, err
	}
	return &domain.Page[domain.WorkSchedule]{Page: page, Limit: limit, Total: total, Data: rows}, nil
}

// UpdateSchedule changes a schedule entry. The resulting window must still
// end after it starts.
func (s *Service) UpdateSchedule(ctx context.Context, id string, in ScheduleUpdateInput) (*domain.WorkSchedule, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	var out *domain.WorkSchedule
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		cur, err := s.getSchedule(ctx, q, id)
		if err != nil {
			return err
		}
		if in.EmployeeID != nil {
			if _, err := s.get(ctx, q, *in.EmployeeID); err != nil {
				return err
			}
			cur.EmployeeID = *in.EmployeeID
		}
		if in.Workday != nil {
			cur.Workday = *in.Workday
		}
		if in.WorkStartTime != nil {
			cur.WorkStartTime = *in.WorkStartTime
		}
		if in.WorkEndTime != nil {
			cur.WorkEndTime = *in.WorkEndTime
		}
		if err := checkWindow(cur.WorkStartTime, cur.WorkEndTime); err != nil {
			return err
		}
		out, err = s.repo.UpdateSchedule(ctx, q, *cur)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteSchedule removes a schedule entry.
func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	err := s.repo.DeleteSchedule(ctx, s.db, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("Work schedule not found")
	}
	return err
}

func (s *Service) getSchedule(ctx context.Context, q db.Querier, id string) (*domain.WorkSchedule, error) {
	ws, err := s.repo.GetSchedule(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Work schedule not found")
	}
	return ws, err
}
