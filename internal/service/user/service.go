package user

import (
	"context"
	"errors"
	"strings"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	userrepo "cleaning-crm/internal/repository/user"
	"cleaning-crm/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Actor is the authenticated staff user performing a request.
type Actor struct {
	ID   string
	Role domain.Role
}

// Service manages CRM staff accounts.
type Service struct {
	db     db.DB
	repo   userrepo.Repository
	tokens *auth.TokenManager
}

// New creates a Service issuing staff tokens with tokens.
func New(database db.DB, repo userrepo.Repository, tokens *auth.TokenManager) *Service {
	return &Service{db: database, repo: repo, tokens: tokens}
}

// CreateInput describes a new staff user.
type CreateInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"required,oneof=ADMIN USER"`
}

// UpdateInput is a partial staff user update.
type UpdateInput struct {
	Name     *string      `json:"name" validate:"omitempty,min=1"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=8"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=ADMIN USER"`
}

// Session is a staff user together with a freshly issued token.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login authenticates by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetByEmail(ctx, s.db, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token}, nil
}

// Create adds a staff user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Create(ctx, s.db, domain.User{
		ID:           domain.NewID(domain.UserIDPrefix),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hashed,
		Role:         in.Role,
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, domain.Validation("User with this email already exists")
	}
	return u, err
}

// EnsureAdmin creates an ADMIN user with the given email unless one
// already exists. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, s.db, normalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := s.Create(ctx, CreateInput{Name: name, Email: email, Password: password, Role: domain.RoleAdmin}); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns a staff user by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, s.db, id)
}

// List returns a page of staff users.
func (s *Service) List(ctx context.Context, page, limit int) (*domain.Page[domain.User], error) {
	rows, total, err := s.repo.List(ctx, s.db, limit, domain.Offset(page, limit))
	if err != nil {
		return nil, err
	}
	return &domain.Page[domain.User]{Page: page, Limit: limit, Total: total, Data: rows}, nil
}

// Update changes a staff user. Users may edit themselves; admins may edit
// anyone. Only admins may change a role.
func (s *Service) Update(ctx context.Context, actor Actor, id string, in UpdateInput) (*domain.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	isAdmin := actor.Role == domain.RoleAdmin
	if !isAdmin && actor.ID != id {
		return nil, domain.Forbidden("Users may only update their own account")
	}
	if in.Role != nil && !isAdmin {
		return nil, domain.Forbidden("Only admins may change roles")
	}

	var out *domain.User
	err := s.db.WithTx(ctx, func(q db.Querier) error {
		u, err := s.get(ctx, q, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			u.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		if in.Password != nil {
			hashed, err := hashPassword(*in.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hashed
		}
		out, err = s.repo.Update(ctx, q, *u)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.Validation("User with this email already exists")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a staff user.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, s.db, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("User not found")
	}
	return err
}

func (s *Service) get(ctx context.Context, q db.Querier, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, q, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("User not found")
	}
	return u, err
}

func hashPassword(p string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
