// Package dbtest provides an in-memory stand-in for db.DB so services can
// be tested against memory repositories with transaction semantics.
package dbtest

import (
	"context"
	"errors"

	"cleaning-crm/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoSQL is returned when code under test issues raw SQL on the fake.
var ErrNoSQL = errors.New("dbtest: raw SQL is not supported")

// Snapshotter is implemented by memory repositories. Snapshot captures the
// current state and returns a func that restores it.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Fake implements db.DB. WithTx snapshots every registered repository and
// restores them when the callback fails.
type Fake struct {
	repos     []Snapshotter
	Commits   int
	Rollbacks int
}

// New returns a Fake tracking the given repositories.
func New(repos ...Snapshotter) *Fake {
	return &Fake{repos: repos}
}

func (f *Fake) WithTx(ctx context.Context, fn func(q db.Querier) error) error {
	restores := make([]func(), 0, len(f.repos))
	for _, r := range f.repos {
		restores = append(restores, r.Snapshot())
	}
	if err := fn(f); err != nil {
		for _, restore := range restores {
			restore()
		}
		f.Rollbacks++
		return err
	}
	f.Commits++
	return nil
}

func (f *Fake) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, ErrNoSQL
}

func (f *Fake) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, ErrNoSQL
}

func (f *Fake) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return ErrNoSQL }
