package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// AdminEnsurer creates the admin account when it is missing.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

// Admin is the bootstrap CRM account.
type Admin struct {
	Name     string
	Email    string
	Password string
}

// Apply ensures the bootstrap admin exists. It is idempotent: an existing
// account with the same email is left untouched.
func Apply(ctx context.Context, users AdminEnsurer, admin Admin, logger *zap.Logger) error {
	if strings.TrimSpace(admin.Email) == "" || admin.Password == "" {
		return errors.New("admin email and password are required")
	}
	name := strings.TrimSpace(admin.Name)
	if name == "" {
		name = "Admin"
	}

	created, err := users.EnsureAdmin(ctx, name, admin.Email, admin.Password)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", admin.Email, err)
	}
	if created {
		logger.Info("admin account created", zap.String("email", admin.Email))
	} else {
		logger.Info("admin account already present", zap.String("email", admin.Email))
	}
	return nil
}
