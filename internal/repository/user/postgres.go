package user

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

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, q db.Querier, u domain.User) (*domain.User, error) {
	const stmt = `
INSERT INTO users (id, name, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns
	return r.scanUser(q.QueryRow(ctx, stmt, u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role))
}

func (r *postgresRepo) GetByID(ctx context.Context, q db.Querier, id string) (*domain.User, error) {
	return r.scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, q db.Querier, email string) (*domain.User, error) {
	return r.scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email))
}

func (r *postgresRepo) Update(ctx context.Context, q db.Querier, u domain.User) (*domain.User, error) {
	const stmt = `
UPDATE users SET name = $2, email = $3, password_hash = $4, role = $5, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	return r.scanUser(q.QueryRow(ctx, stmt, u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role))
}

func (r *postgresRepo) Delete(ctx context.Context, q db.Querier, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context, q db.Querier, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("user repo: scan", zap.Error(err))
		return nil, err
	}
	return &u, nil
}
