package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/directed/course-backend/internal/model"
	"github.com/directed/course-backend/internal/repository"
)

// Account errors.
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidOldPassword = errors.New("old password is incorrect")
)

// AccountStore looks up and persists account aggregates.
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Save(ctx context.Context, u *model.User) error
}

// AccountRegistry is an AccountStore that can also register new accounts.
type AccountRegistry interface {
	AccountStore
	Create(ctx context.Context, u *model.User) error
}

// CredentialHasher hashes and verifies passwords.
type CredentialHasher interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
}

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateToken(u *model.User) (string, error)
}

// AccountService handles signup, login and password changes.
type AccountService struct {
	accounts AccountRegistry
	hasher   CredentialHasher
	tokens   TokenIssuer
}

// NewAccountService creates a new AccountService.
func NewAccountService(accounts AccountRegistry, hasher CredentialHasher, tokens TokenIssuer) *AccountService {
	return &AccountService{accounts: accounts, hasher: hasher, tokens: tokens}
}

// normalizeEmail makes email lookups case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup registers an account and returns it with a fresh token.
func (s *AccountService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, string, error) {
	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}
	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load account: %w", err)
	}
	if err := s.hasher.CheckPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetByID returns the account with the given ID.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return u, nil
}

// ChangePassword replaces the password of a signed-in account after
// checking the old one.
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.CheckPassword(u.PasswordHash, oldPassword); err != nil {
		return ErrInvalidOldPassword
	}
	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.accounts.Save(ctx, u)
}
