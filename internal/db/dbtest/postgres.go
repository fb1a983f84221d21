package dbtest

import (
	"context"
	"os"
	"testing"

	"cleaning-crm/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres connects to TEST_DB_DSN, applies migrations and empties every
// table. The test is skipped when TEST_DB_DSN is unset.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE work_schedules, employees, users, cleaning_orders, addresses, customers CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return pool
}

// InsertCustomer adds a bare customer row so addresses and orders have an
// owner to reference. The id doubles as username and phone.
func InsertCustomer(t *testing.T, pool *pgxpool.Pool, id string) {
	t.Helper()
	const stmt = `INSERT INTO customers (id, username, name, lastname, phone, password_hash) VALUES ($1, $1, 'Test', 'Customer', $1, 'x')`
	if _, err := pool.Exec(context.Background(), stmt, id); err != nil {
		t.Fatalf("insert customer %s: %v", id, err)
	}
}
