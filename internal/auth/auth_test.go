package auth

import (
	"testing"
	"time"

	"cleaning-crm/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", AudienceStaff, time.Hour)
	raw, err := m.Issue("USER-1", string(domain.RoleAdmin))
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "USER-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestTokenManager_RejectsOtherContext(t *testing.T) {
	staff := NewTokenManager("staff-secret", AudienceStaff, time.Hour)
	customer := NewTokenManager("customer-secret", AudienceCustomer, time.Hour)

	raw, err := customer.Issue("CUSTOMER-1", "")
	require.NoError(t, err)
	_, err = staff.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	sameSecret := NewTokenManager("customer-secret", AudienceStaff, time.Hour)
	_, err = sameSecret.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", AudienceCustomer, time.Minute)
	base := time.Now()
	m.now = func() time.Time { return base }
	raw, err := m.Issue("CUSTOMER-1", "")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	m := NewTokenManager("secret", AudienceCustomer, time.Minute)
	_, err := m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorizer(t *testing.T) {
	a, err := NewAuthorizer()
	require.NoError(t, err)

	cases := []struct {
		role domain.Role
		obj  string
		act  string
		want bool
	}{
		{domain.RoleUser, ResourceOrders, ActionRead, true},
		{domain.RoleUser, ResourceOrders, ActionWrite, false},
		{domain.RoleUser, ResourceAddresses, ActionWrite, true},
		{domain.RoleUser, ResourceEmployees, ActionWrite, false},
		{domain.RoleAdmin, ResourceOrders, ActionWrite, true},
		{domain.RoleAdmin, ResourceUsers, ActionWrite, true},
		{domain.Role("GUEST"), ResourceOrders, ActionRead, false},
	}
	for _, tc := range cases {
		got, err := a.Allowed(tc.role, tc.obj, tc.act)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s %s", tc.role, tc.obj, tc.act)
	}
}
