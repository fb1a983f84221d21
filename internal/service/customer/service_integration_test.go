package customer

import (
	"context"
	"testing"
	"time"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/db/dbtest"
	customerrepo "cleaning-crm/internal/repository/customer"
	"go.uber.org/zap"
)

func TestRegisterAndLogin_Integration(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Postgres(t)

	repo := customerrepo.NewPostgres(zap.NewNop())
	tokens := auth.NewTokenManager("customer-secret", auth.AudienceCustomer, time.Hour)
	svc := New(db.NewPool(pool), repo, tokens)

	sess, err := svc.Register(ctx, RegisterInput{
		Username: "integration",
		Name:     "Int",
		Lastname: "User",
		Email:    strPtr("integration@example.com"),
		Phone:    "+15557654321",
		Password: "Abcdefg1!",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Customer == nil || sess.Customer.ID == "" {
		t.Fatalf("expected created customer, got %+v", sess.Customer)
	}

	logged, err := svc.Login(ctx, "integration", "Abcdefg1!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.Token == "" {
		t.Fatalf("expected token")
	}

	if _, err := svc.Register(ctx, RegisterInput{
		Username: "someoneelse",
		Name:     "Int",
		Lastname: "User",
		Phone:    "+15557654321",
		Password: "Abcdefg1!",
	}); err == nil {
		t.Fatalf("expected duplicate phone to be rejected")
	}
}
