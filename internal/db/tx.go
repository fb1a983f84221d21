package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by a pool and an open transaction.
// Repositories accept it so callers decide the transaction scope.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB runs statements directly or inside a scoped transaction.
type DB interface {
	Querier
	// WithTx runs fn inside a transaction. The transaction commits only
	// when fn returns nil and is rolled back otherwise.
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// Pool adapts a pgxpool.Pool to DB.
type Pool struct {
	*pgxpool.Pool
}

// NewPool wraps pool.
func NewPool(pool *pgxpool.Pool) *Pool {
	return &Pool{Pool: pool}
}

func (p *Pool) WithTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := p.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
