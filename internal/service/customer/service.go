package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"cleaning-crm/internal/auth"
	"cleaning-crm/internal/db"
	"cleaning-crm/internal/domain"
	custrepo "cleaning-crm/internal/repository/customer"
	"cleaning-crm/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when username/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

const passwordMin = 8

// Service handles customer registration and login.
type Service struct {
	db     db.DB
	repo   custrepo.Repository
	tokens *auth.TokenManager
}

// New creates a Service issuing customer tokens with tokens.
func New(database db.DB, repo custrepo.Repository, tokens *auth.TokenManager) *Service {
	return &Service{db: database, repo: repo, tokens: tokens}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Name     string  `json:"name" validate:"required"`
	Lastname string  `json:"lastname" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    string  `json:"phone" validate:"required,e164"`
	Password string  `json:"password" validate:"required"`
}

// Session is a customer together with a freshly issued token.
type Session struct {
	Customer *domain.Customer `json:"customer"`
	Token    string           `json:"token"`
}

// Register creates a customer account and logs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var created *domain.Customer
	err = s.db.WithTx(ctx, func(q db.Querier) error {
		exists, err := s.repo.ExistsAny(ctx, q, in.Username, in.Email, in.Phone)
		if err != nil {
			return err
		}
		if exists {
			return domain.Validation("Username or email or phone already exists")
		}
		created, err = s.repo.Create(ctx, q, domain.Customer{
			ID:           domain.NewID(domain.CustomerIDPrefix),
			Username:     in.Username,
			Name:         strings.TrimSpace(in.Name),
			Lastname:     strings.TrimSpace(in.Lastname),
			Email:        in.Email,
			Phone:        in.Phone,
			PasswordHash: string(hashed),
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			return domain.Validation("Username or email or phone already exists")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.session(created)
}

// Login validates credentials and returns the customer with a token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	c, err := s.repo.GetByUsername(ctx, s.db, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(c)
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.GetByID(ctx, s.db, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Customer not found")
	}
	return c, err
}

func (s *Service) session(c *domain.Customer) (*Session, error) {
	token, err := s.tokens.Issue(c.ID, "")
	if err != nil {
		return nil, err
	}
	return &Session{Customer: c, Token: token}, nil
}

func validatePassword(p string) error {
	if len(p) < passwordMin {
		return domain.Validation(fmt.Sprintf("password must be at least %d characters", passwordMin))
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return domain.Validation("password must contain at least 1 uppercase letter, 1 lowercase letter, 1 number and 1 special character")
	}
	return nil
}
