package customer

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/db/dbtest"
	"cleaning-crm/internal/domain"
	custrepo "cleaning-crm/internal/repository/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*Service, *auth.TokenManager) {
	repo := custrepo.NewMemory()
	tokens := auth.NewTokenManager("customer-secret", auth.AudienceCustomer, time.Hour)
	return New(dbtest.New(repo), repo, tokens), tokens
}

func strPtr(s string) *string { return &s }

func registerInput() RegisterInput {
	return RegisterInput{
		Username: "jdoe",
		Name:     "Jo",
		Lastname: "Doe",
		Email:    strPtr("Jo@Example.com"),
		Phone:    "+15551234567",
		Password: "Abcdefg1!",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, tokens := newService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	require.NotNil(t, sess.Customer)
	assert.Equal(t, "jdoe", sess.Customer.Username)
	require.NotNil(t, sess.Customer.Email)
	assert.Equal(t, "jo@example.com", *sess.Customer.Email)
	assert.NotEqual(t, "Abcdefg1!", sess.Customer.PasswordHash)

	claims, err := tokens.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Customer.ID, claims.Subject)

	logged, err := svc.Login(ctx, "jdoe", "Abcdefg1!")
	require.NoError(t, err)
	assert.Equal(t, sess.Customer.ID, logged.Customer.ID)

	got, err := svc.Get(ctx, sess.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doe", got.Lastname)
}

func TestRegister_Uniqueness(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	cases := map[string]func(in *RegisterInput){
		"same username": func(in *RegisterInput) { in.Email = nil; in.Phone = "+15550000000" },
		"same email":    func(in *RegisterInput) { in.Username = "other"; in.Phone = "+15550000000" },
		"same phone":    func(in *RegisterInput) { in.Username = "other"; in.Email = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := registerInput()
			mutate(&in)
			_, err := svc.Register(ctx, in)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), "already exists")
		})
	}
}

func TestRegister_FieldRules(t *testing.T) {
	svc, _ := newService()
	cases := map[string]func(in *RegisterInput){
		"no username": func(in *RegisterInput) { in.Username = "  " },
		"bad email":   func(in *RegisterInput) { in.Email = strPtr("nope") },
		"bad phone":   func(in *RegisterInput) { in.Phone = "555" },
		"no name":     func(in *RegisterInput) { in.Name = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := registerInput()
			mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestValidatePassword_FailsOnWeakValues(t *testing.T) {
	cases := []struct {
		name string
		pass string
	}{
		{"too short", "Ab1!"},
		{"no upper", "abcdefg1!"},
		{"no lower", "ABCDEFG1!"},
		{"no digit", "Abcdefgh!"},
		{"no special", "Abcdefg12"},
	}
	for _, tc := range cases {
		if err := validatePassword(tc.pass); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for case %s, got %v", tc.name, err)
		}
	}
	if err := validatePassword("Abcdefg1!"); err != nil {
		t.Fatalf("expected strong password to pass: %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	if _, err := svc.Login(ctx, "jdoe", "wrongpass"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "missing", "Abcdefg1!"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for missing user, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Get(context.Background(), "CUSTOMER-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
