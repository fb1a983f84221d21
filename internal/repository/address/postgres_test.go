package address

import (
	"context"
	"errors"
	"testing"

	"cleaning-crm/internal/db/dbtest"
	"cleaning-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAddress(customerID *string, isDefault bool) domain.Address {
	return domain.Address{
		ID:         domain.NewID(domain.AddressIDPrefix),
		Street:     "1 Main St",
		City:       "Tallinn",
		Country:    "EE",
		PostalCode: "10111",
		IsDefault:  isDefault,
		CustomerID: customerID,
	}
}

func TestPostgres_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Postgres(t)
	repo := NewPostgres(zap.NewNop())
	dbtest.InsertCustomer(t, pool, "CUSTOMER-1")
	owner := "CUSTOMER-1"

	in := newAddress(&owner, false)
	lat, lng := "59.437", "24.7536"
	in.Latitude, in.Longitude = &lat, &lng
	created, err := repo.Create(ctx, pool, in)
	require.NoError(t, err)
	assert.Equal(t, in.ID, created.ID)
	require.NotNil(t, created.Latitude)
	assert.Equal(t, lat, *created.Latitude)
	require.NotNil(t, created.CustomerID)
	assert.Equal(t, owner, *created.CustomerID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetForCustomer(ctx, pool, owner, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tallinn", got.City)

	_, err = repo.GetForCustomer(ctx, pool, "CUSTOMER-other", in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.GetByID(ctx, pool, "ADDRESS-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got.Street = "2 Side St"
	got.Latitude, got.Longitude = nil, nil
	updated, err := repo.Update(ctx, pool, *got)
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", updated.Street)
	assert.Nil(t, updated.Latitude)
	assert.Nil(t, updated.Longitude)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestPostgres_GuestAddress(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Postgres(t)
	repo := NewPostgres(zap.NewNop())

	created, err := repo.Create(ctx, pool, newAddress(nil, false))
	require.NoError(t, err)
	assert.Nil(t, created.CustomerID)

	got, err := repo.GetByID(ctx, pool, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerID)
}

func TestPostgres_UnknownCustomer(t *testing.T) {
	pool := dbtest.Postgres(t)
	repo := NewPostgres(zap.NewNop())
	missing := "CUSTOMER-missing"

	_, err := repo.Create(context.Background(), pool, newAddress(&missing, false))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "Customer not found", derr.Message)
}

func TestPostgres_OneDefaultPerCustomer(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Postgres(t)
	repo := NewPostgres(zap.NewNop())
	dbtest.InsertCustomer(t, pool, "CUSTOMER-1")
	dbtest.InsertCustomer(t, pool, "CUSTOMER-2")
	owner, other := "CUSTOMER-1", "CUSTOMER-2"

	first, err := repo.Create(ctx, pool, newAddress(&owner, true))
	require.NoError(t, err)
	second, err := repo.Create(ctx, pool, newAddress(&owner, false))
	require.NoError(t, err)
	_, err = repo.Create(ctx, pool, newAddress(&other, true))
	require.NoError(t, err, "defaults are per customer")

	_, err = repo.Create(ctx, pool, newAddress(&owner, true))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	err = repo.MarkDefault(ctx, pool, second.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists, "index rejects a second default")

	require.NoError(t, repo.ClearDefault(ctx, pool, owner))
	_, err = repo.GetDefault(ctx, pool, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.MarkDefault(ctx, pool, second.ID))
	def, err := repo.GetDefault(ctx, pool, owner)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	stale, err := repo.GetByID(ctx, pool, first.ID)
	require.NoError(t, err)
	assert.False(t, stale.IsDefault)

	otherDefault, err := repo.GetDefault(ctx, pool, other)
	require.NoError(t, err)
	assert.True(t, otherDefault.IsDefault)

	assert.ErrorIs(t, repo.MarkDefault(ctx, pool, "ADDRESS-missing"), domain.ErrNotFound)
}

func TestPostgres_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Postgres(t)
	repo := NewPostgres(zap.NewNop())
	dbtest.InsertCustomer(t, pool, "CUSTOMER-1")
	owner := "CUSTOMER-1"

	for range 3 {
		_, err := repo.Create(ctx, pool, newAddress(&owner, false))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, pool, newAddress(nil, false))
	require.NoError(t, err)

	rows, total, err := repo.ListByCustomer(ctx, pool, owner, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, rows, 2)

	rows, total, err = repo.ListByCustomer(ctx, pool, owner, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, rows, 1)

	rows, _, err = repo.ListByCustomer(ctx, pool, owner, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
