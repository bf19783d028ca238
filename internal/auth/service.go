package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jkubik/user-admin-api/internal/logging"
	"github.com/jkubik/user-admin-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// SanitizedUser is the projection of a user safe to return from auth
// endpoints: no password hash, no blocked flag.
type SanitizedUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResult carries the issued bearer token and the sanitized user.
type LoginResult struct {
	Token string        `json:"token"`
	User  SanitizedUser `json:"user"`
}

// Service handles authentication business logic
type Service struct {
	userStore     UserStore
	hasher        PasswordHasher
	tokenService  TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
}

func NewService(
	userStore UserStore,
	hasher PasswordHasher,
	tokenService TokenService,
	logger *logging.Logger,
	tokenDuration time.Duration,
) *Service {
	return &Service{
		userStore:     userStore,
		hasher:        hasher,
		tokenService:  tokenService,
		logger:        logger,
		tokenDuration: tokenDuration,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, name, email, password string) (*SanitizedUser, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	// Friendly-path existence check. The unique index on email is the real
	// guard; a concurrent registration slipping past this lookup surfaces as
	// ErrDuplicateEmail from Create.
	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrDuplicateEmail
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userStore.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &SanitizedUser{
		ID:    newUser.ID,
		Name:  newUser.Name,
		Email: newUser.Email,
	}, nil
}

// Login authenticates a user and issues a bearer token.
//
// The blocked check runs before password verification so a blocked user
// never learns whether their password is still valid.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Same error as a wrong password; do not leak existence.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.IsBlocked {
		return nil, ErrAccountBlocked
	}

	if !s.hasher.Compare(password, existingUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// Best-effort: a failed stamp must not fail the login.
	if err := s.userStore.UpdateLastLogin(ctx, existingUser.ID); err != nil {
		s.logger.Warn("failed to update last login", "user_id", existingUser.ID, "error", err)
	}

	token, err := s.tokenService.CreateToken(existingUser.ID, s.tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User: SanitizedUser{
			ID:    existingUser.ID,
			Name:  existingUser.Name,
			Email: existingUser.Email,
		},
	}, nil
}
