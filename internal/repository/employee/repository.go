package employee

import (
	"context"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
)

// Repository persists employees and their work schedules.
type Repository interface {
	Create(ctx context.Context, q db.Querier, e domain.Employee) (*domain.Employee, error)
	GetByID(ctx context.Context, q db.Querier, id string) (*domain.Employee, error)
	Update(ctx context.Context, q db.Querier, e domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, q db.Querier, id string) error
	List(ctx context.Context, q db.Querier, limit, offset int) ([]domain.Employee, int, error)

	// ReplaceSchedules deletes every schedule of the employee and inserts
	// the given ones. Callers run it inside a transaction.
	ReplaceSchedules(ctx context.Context, q db.Querier, employeeID string, schedules []domain.WorkSchedule) ([]domain.WorkSchedule, error)
	CreateSchedule(ctx context.Context, q db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error)
	GetSchedule(ctx context.Context, q db.Querier, id string) (*domain.WorkSchedule, error)
	UpdateSchedule(ctx context.Context, q db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error)
	DeleteSchedule(ctx context.Context, q db.Querier, id string) error
	ListSchedules(ctx context.Context, q db.Querier, employeeID *string, limit, offset int) ([]domain.WorkSchedule, int, error)
}
