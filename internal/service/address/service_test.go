package address

import (
	"context"
	"testing"

	"cleaning-crm/internal/db/dbtest"
	"cleaning-crm/internal/domain"
	addressrepo "cleaning-crm/internal/repository/address"
	orderrepo "cleaning-crm/internal/repository/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc       *Service
	addresses *addressrepo.Memory
	orders    *orderrepo.Memory
	db        *dbtest.Fake
}

func newFixture() fixture {
	addresses := addressrepo.NewMemory()
	orders := orderrepo.NewMemory()
	fake := dbtest.New(addresses, orders)
	return fixture{
		svc:       New(fake, addresses, orders),
		addresses: addresses,
		orders:    orders,
		db:        fake,
	}
}

func ptr[T any](v T) *T { return &v }

func validInput() Input {
	return Input{Street: "1 Main St", City: "X", Country: "Y", PostalCode: "00000"}
}

func defaults(all []domain.Address, customerID string) int {
	n := 0
	for _, a := range all {
		if a.IsDefault && a.OwnedBy(&customerID) {
			n++
		}
	}
	return n
}

func TestResolveOrCreate_RequiresExactlyOneSource(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.ResolveOrCreate(ctx, f.db, Source{}, nil, true)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in := validInput()
	_, err = f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: ptr("ADDRESS-1"), Address: &in}, nil, true)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.addresses.All())
}

func TestResolveOrCreate_CreatesOwnedAddress(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.IsDefault = true

	a, err := f.svc.ResolveOrCreate(context.Background(), f.db, Source{Address: &in}, ptr("CUSTOMER-1"), true)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", a.Street)
	assert.True(t, a.IsDefault)
	require.NotNil(t, a.CustomerID)
	assert.Equal(t, "CUSTOMER-1", *a.CustomerID)
}

func TestResolveOrCreate_OwnerlessAddressIsNeverDefault(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.IsDefault = true

	a, err := f.svc.ResolveOrCreate(context.Background(), f.db, Source{Address: &in}, nil, false)
	require.NoError(t, err)
	assert.False(t, a.IsDefault)
	assert.Nil(t, a.CustomerID)
}

func TestResolveOrCreate_ExistingAddressOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owned, err := f.svc.Create(ctx, "CUSTOMER-1", validInput())
	require.NoError(t, err)

	got, err := f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: &owned.ID}, ptr("CUSTOMER-1"), true)
	require.NoError(t, err)
	assert.Equal(t, owned.ID, got.ID)

	_, err = f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: &owned.ID}, ptr("CUSTOMER-2"), true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: &owned.ID}, nil, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err = f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: &owned.ID}, ptr("CUSTOMER-2"), false)
	require.NoError(t, err)
	assert.Equal(t, owned.ID, got.ID)

	_, err = f.svc.ResolveOrCreate(ctx, f.db, Source{AddressID: ptr("ADDRESS-missing")}, nil, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveOrCreate_ValidatesInlineFields(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Street = ""
	_, err := f.svc.ResolveOrCreate(context.Background(), f.db, Source{Address: &in}, nil, false)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "street is required", err.Error())

	in = validInput()
	in.Latitude = ptr("52.1")
	_, err = f.svc.ResolveOrCreate(context.Background(), f.db, Source{Address: &in}, nil, false)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDefaultFlip_AtMostOneDefault(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := "CUSTOMER-1"

	var ids []string
	for i := 0; i < 3; i++ {
		in := validInput()
		in.IsDefault = true
		a, err := f.svc.Create(ctx, customer, in)
		require.NoError(t, err)
		ids = append(ids, a.ID)
		assert.Equal(t, 1, defaults(f.addresses.All(), customer))
	}

	require.NoError(t, f.svc.SetDefault(ctx, customer, ids[0]))
	assert.Equal(t, 1, defaults(f.addresses.All(), customer))
	require.NoError(t, f.svc.SetDefault(ctx, customer, ids[0]))
	assert.Equal(t, 1, defaults(f.addresses.All(), customer))

	_, err := f.svc.Update(ctx, customer, ids[2], UpdateInput{IsDefault: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, defaults(f.addresses.All(), customer))

	res, err := f.svc.List(ctx, customer, 0, 10)
	require.NoError(t, err)
	require.NotNil(t, res.DefaultAddress)
	assert.Equal(t, ids[2], res.DefaultAddress.ID)
	assert.Equal(t, 3, res.PaginationResult.Total)
}

func TestSetDefault_NotOwned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, "CUSTOMER-1", validInput())
	require.NoError(t, err)

	err = f.svc.SetDefault(ctx, "CUSTOMER-2", a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.db.Rollbacks)
}

func TestUpdate_BlockedWhileOrderActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := "CUSTOMER-1"
	a, err := f.svc.Create(ctx, customer, validInput())
	require.NoError(t, err)

	f.orders.Put(domain.CleaningOrder{ID: "ORDER-1", AddressID: a.ID, CustomerID: &customer, OrderStatus: domain.OrderInProgress})

	_, err = f.svc.Update(ctx, customer, a.ID, UpdateInput{Street: ptr("2 Side St")})
	require.ErrorIs(t, err, domain.ErrConflict)

	f.orders.Put(domain.CleaningOrder{ID: "ORDER-1", AddressID: a.ID, CustomerID: &customer, OrderStatus: domain.OrderCompleted})

	updated, err := f.svc.Update(ctx, customer, a.ID, UpdateInput{Street: ptr("2 Side St")})
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", updated.Street)
	assert.Equal(t, "X", updated.City)
}

func TestUpdate_NotFoundForOtherCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, err := f.svc.Create(ctx, "CUSTOMER-1", validInput())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "CUSTOMER-2", a.ID, UpdateInput{City: ptr("Z")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlockMutationIfInUse_NilCustomerMatchesGuestOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.orders.Put(domain.CleaningOrder{ID: "ORDER-1", AddressID: "ADDRESS-1", OrderStatus: domain.OrderPending})

	assert.ErrorIs(t, f.svc.BlockMutationIfInUse(ctx, f.db, "ADDRESS-1", nil), domain.ErrConflict)
	assert.NoError(t, f.svc.BlockMutationIfInUse(ctx, f.db, "ADDRESS-1", ptr("CUSTOMER-1")))
}
