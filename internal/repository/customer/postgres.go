package customer

import (
	"context"
	"errors"
	"strings"

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

const customerColumns = `id, username, name, lastname, email, phone, password_hash, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, c domain.Customer) (*domain.Customer, error) {
	var email *string
	if c.Email != nil {
		lower := strings.ToLower(*c.Email)
		email = &lower
	}
	const stmt = `
INSERT INTO customers (id, username, name, lastname, email, phone, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + customerColumns
	return r.scanCustomer(q.QueryRow(ctx, stmt,
		c.ID, c.Username, c.Name, c.Lastname, email, c.Phone, c.PasswordHash,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, q db.Querier, id string) (*domain.Customer, error) {
	const stmt = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(q.QueryRow(ctx, stmt, id))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, q db.Querier, username string) (*domain.Customer, error) {
	const stmt = `SELECT ` + customerColumns + ` FROM customers WHERE username = $1 LIMIT 1`
	return r.scanCustomer(q.QueryRow(ctx, stmt, username))
}

func (r *postgresRepo) ExistsAny(ctx context.Context, q db.Querier, username string, email *string, phone string) (bool, error) {
	const stmt = `
SELECT EXISTS (
    SELECT 1 FROM customers
    WHERE username = $1 OR phone = $3 OR ($2::text IS NOT NULL AND lower(email) = lower($2::text))
)`
	var exists bool
	if err := q.QueryRow(ctx, stmt, username, email, phone).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Username,
		&c.Name,
		&c.Lastname,
		&c.Email,
		&c.Phone,
		&c.PasswordHash,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("customer repo: scan", zap.Error(err))
		return nil, err
	}
	return &c, nil
}
