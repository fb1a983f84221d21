package employee

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type postgresRepo struct {
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{logger: logger}
}

const (
	employeeColumns = `id, name, phone, email, salary, created_at, updated_at`
	scheduleColumns = `id, employee_id, workday, work_start_time, work_end_time, created_at, updated_at`
)

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, e domain.Employee) (*domain.Employee, error) {
	const stmt = `
INSERT INTO employees (id, name, phone, email, salary)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + employeeColumns
	return r.scanEmployee(q.QueryRow(ctx, stmt, e.ID, e.Name, e.Phone, e.Email, e.Salary))
}

func (r *postgresRepo) GetByID(ctx context.Context, q db.Querier, id string) (*domain.Employee, error) {
	e, err := r.scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	e.Schedules, _, err = r.ListSchedules(ctx, q, &e.ID, 7*24, 0)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *postgresRepo) Update(ctx context.Context, q db.Querier, e domain.Employee) (*domain.Employee, error) {
	const stmt = `
UPDATE employees SET name = $2, phone = $3, email = $4, salary = $5, updated_at = now()
WHERE id = $1
RETURNING ` + employeeColumns
	return r.scanEmployee(q.QueryRow(ctx, stmt, e.ID, e.Name, e.Phone, e.Email, e.Salary))
}

func (r *postgresRepo) Delete(ctx context.Context, q db.Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, q db.Querier, limit, offset int) ([]domain.Employee, int, error) {
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM employees`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]domain.Employee, 0, limit)
	for rows.Next() {
		e, err := r.scanEmployee(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		out = append(out, *e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range out {
		out[i].Schedules, _, err = r.ListSchedules(ctx, q, &out[i].ID, 7*24, 0)
		if err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (r *postgresRepo) ReplaceSchedules(ctx context.Context, q db.Querier, employeeID string, schedules []domain.WorkSchedule) ([]domain.WorkSchedule, error) {
	if _, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE employee_id = $1`, employeeID); err != nil {
		return nil, err
	}
	out := make([]domain.WorkSchedule, 0, len(schedules))
	for _, s := range schedules {
		s.EmployeeID = employeeID
		created, err := r.CreateSchedule(ctx, q, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}
	return out, nil
}

func (r *postgresRepo) CreateSchedule(ctx context.Context, q db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error) {
	const stmt = `
INSERT INTO work_schedules (id, employee_id, workday, work_start_time, work_end_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + scheduleColumns
	return r.scanSchedule(q.QueryRow(ctx, stmt, s.ID, s.EmployeeID, s.Workday, s.WorkStartTime, s.WorkEndTime))
}

func (r *postgresRepo) GetSchedule(ctx context.Context, q db.Querier, id string) (*domain.WorkSchedule, error) {
	return r.scanSchedule(q.QueryRow(ctx, `SELECT `+scheduleColumns+` FROM work_schedules WHERE id = $1`, id))
}

func (r *postgresRepo) UpdateSchedule(ctx context.Context, q db.Querier, s domain.WorkSchedule) (*domain.WorkSchedule, error) {
	const stmt = `
UPDATE work_schedules SET employee_id = $2, workday = $3, work_start_time = $4, work_end_time = $5, updated_at = now()
WHERE id = $1
RETURNING ` + scheduleColumns
	return r.scanSchedule(q.QueryRow(ctx, stmt, s.ID, s.EmployeeID, s.Workday, s.WorkStartTime, s.WorkEndTime))
}

func (r *postgresRepo) DeleteSchedule(ctx context.Context, q db.Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM work_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListSchedules(ctx context.Context, q db.Querier, employeeID *string, limit, offset int) ([]domain.WorkSchedule, int, error) {
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM work_schedules WHERE $1::text IS NULL OR employee_id = $1::text`, employeeID).Scan(&total); err != nil {
		return nil, 0, err
	}
	const stmt = `SELECT ` + scheduleColumns + `
FROM work_schedules
WHERE $1::text IS NULL OR employee_id = $1::text
ORDER BY employee_id,
         array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY','SATURDAY','SUNDAY'], workday),
         work_start_time, id
LIMIT $2 OFFSET $3`
	rows, err := q.Query(ctx, stmt, employeeID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.WorkSchedule, 0)
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

func (r *postgresRepo) scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	if err := row.Scan(&e.ID, &e.Name, &e.Phone, &e.Email, &e.Salary, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, r.mapError("scan employee", err)
	}
	e.Schedules = []domain.WorkSchedule{}
	return &e, nil
}

func (r *postgresRepo) scanSchedule(row pgx.Row) (*domain.WorkSchedule, error) {
	var s domain.WorkSchedule
	if err := row.Scan(&s.ID, &s.EmployeeID, &s.Workday, &s.WorkStartTime, &s.WorkEndTime, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, r.mapError("scan schedule", err)
	}
	return &s, nil
}

func (r *postgresRepo) mapError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23503":
			return domain.NotFound("employee not found")
		}
	}
	r.logger.Error("employee repo: "+op, zap.Error(err))
	return err
}
