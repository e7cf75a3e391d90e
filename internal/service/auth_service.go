package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/token"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 10

var (
	ErrInvalidUserType  = domain.NewValidationError("invalid user type")
	ErrEmailAlreadyUsed = domain.NewConflictError("email is already used for this user type")
	ErrNoUserFound      = domain.NewNotFoundError("no user found")

	// A failed credential check on login is an input failure on the wire
	// (400), not a bearer-token failure; 401 stays reserved for
	// missing/invalid/stale tokens.
	ErrPasswordMismatch = domain.NewValidationError("password mismatch")
)

// AuthService handles account registration and the session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password, userType string) (*domain.User, error)
	Login(ctx context.Context, email, password, userType string) (string, error)
	Logout(ctx context.Context, userID int64, tokenString string) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	issuer   *token.Issuer
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	issuer *token.Issuer,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		issuer:   issuer,
	}
}

// Register creates a new account with a hashed password. The same email may
// register once per role; a second account of the same (email, type) pair
// is a conflict.
func (s *authService) Register(ctx context.Context, username, email, password, userType string) (*domain.User, error) {
	role, err := domain.ParseRole(userType)
	if err != nil {
		return nil, ErrInvalidUserType
	}

	existing, err := s.users.FindByEmailAndType(ctx, email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrEmailAlreadyUsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		Type:      role,
		CreatedAt: time.Now(),
		Catalog:   []int64{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A racing request may have inserted the same pair between the
		// check and the write; the unique constraint is the backstop.
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user, mints a bearer token and records the session.
// Matching on (email, type) must yield exactly one row; anything else is
// treated as no user.
func (s *authService) Login(ctx context.Context, email, password, userType string) (string, error) {
	role, err := domain.ParseRole(userType)
	if err != nil {
		return "", ErrInvalidUserType
	}

	matches, err := s.users.FindByEmailAndType(ctx, email, role)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}
	if len(matches) != 1 {
		return "", ErrNoUserFound
	}
	user := matches[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrPasswordMismatch
	}

	tokenString, err := s.issuer.Issue(user.ID, user.Type)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	session := &domain.Session{
		UserID:     user.ID,
		Token:      tokenString,
		LoggedInAt: time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	return tokenString, nil
}

// Logout revokes the presented session. The auth gate has already verified
// the session is active, which is the precondition Revoke relies on.
func (s *authService) Logout(ctx context.Context, userID int64, tokenString string) error {
	if err := s.sessions.Revoke(ctx, userID, tokenString, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
