package address

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

const addressColumns = `id, street, city, country, postal_code, latitude, longitude, is_default, customer_id, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, a domain.Address) (*domain.Address, error) {
	const stmt = `
INSERT INTO addresses (id, street, city, country, postal_code, latitude, longitude, is_default, customer_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + addressColumns
	return r.scanAddress(q.QueryRow(ctx, stmt,
		a.ID, a.Street, a.City, a.Country, a.PostalCode,
		a.Latitude, a.Longitude, a.IsDefault, a.CustomerID,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, q db.Querier, id string) (*domain.Address, error) {
	const stmt = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`
	return r.scanAddress(q.QueryRow(ctx, stmt, id))
}

func (r *postgresRepo) GetForCustomer(ctx context.Context, q db.Querier, customerID, id string) (*domain.Address, error) {
	const stmt = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND customer_id = $2`
	return r.scanAddress(q.QueryRow(ctx, stmt, id, customerID))
}

func (r *postgresRepo) GetDefault(ctx context.Context, q db.Querier, customerID string) (*domain.Address, error) {
	const stmt = `SELECT ` + addressColumns + ` FROM addresses WHERE customer_id = $1 AND is_default LIMIT 1`
	return r.scanAddress(q.QueryRow(ctx, stmt, customerID))
}

func (r *postgresRepo) Update(ctx context.Context, q db.Querier, a domain.Address) (*domain.Address, error) {
	const stmt = `
UPDATE addresses
SET street = $2, city = $3, country = $4, postal_code = $5, latitude = $6, longitude = $7,
    is_default = $8, updated_at = now()
WHERE id = $1
RETURNING ` + addressColumns
	return r.scanAddress(q.QueryRow(ctx, stmt,
		a.ID, a.Street, a.City, a.Country, a.PostalCode, a.Latitude, a.Longitude, a.IsDefault,
	))
}

func (r *postgresRepo) ClearDefault(ctx context.Context, q db.Querier, customerID string) error {
	_, err := q.Exec(ctx, `UPDATE addresses SET is_default = FALSE, updated_at = now() WHERE customer_id = $1 AND is_default`, customerID)
	return err
}

func (r *postgresRepo) MarkDefault(ctx context.Context, q db.Querier, id string) error {
	tag, err := q.Exec(ctx, `UPDATE addresses SET is_default = TRUE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, q db.Querier, customerID string, limit, offset int) ([]domain.Address, int, error) {
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM addresses WHERE customer_id = $1`, customerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const stmt = `SELECT ` + addressColumns + `
FROM addresses
WHERE customer_id = $1
ORDER BY created_at DESC, id
LIMIT $2 OFFSET $3`
	rows, err := q.Query(ctx, stmt, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Address, 0, limit)
	for rows.Next() {
		a, err := r.scanAddress(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *a)
	}
	return out, total, rows.Err()
}

func (r *postgresRepo) scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID,
		&a.Street,
		&a.City,
		&a.Country,
		&a.PostalCode,
		&a.Latitude,
		&a.Longitude,
		&a.IsDefault,
		&a.CustomerID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		mapped := mapError(err)
		if mapped == err {
			r.logger.Error("address repo: scan", zap.Error(err))
		}
		return nil, mapped
	}
	return &a, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return domain.ErrAlreadyExists
		case "23503":
			return domain.NotFound("Customer not found")
		}
	}
	return err
}
