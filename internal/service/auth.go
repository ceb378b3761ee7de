// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/cloudtask/cloudtask/internal/auth"
	"github.com/cloudtask/cloudtask/internal/metrics"
	"github.com/cloudtask/cloudtask/internal/model"
	"github.com/cloudtask/cloudtask/internal/repository"
)

// Auth service errors.
var (
	ErrValidation         = errors.New("missing or malformed field")
	ErrDuplicateUser      = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// emailRegex accepts the common local@domain shape. Full RFC 5322 validation
// is not worth the false negatives.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the persistence surface AuthService needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration, login, and logout.
type AuthService struct {
	users   UserStore
	tokens  *auth.TokenManager
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *auth.TokenManager, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		metrics: recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a salted password hash.
// The plaintext password is never persisted or logged.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if !emailRegex.MatchString(input.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a signed access token.
// Unknown email and wrong password are distinct failures so the handler can
// surface 404 vs 401.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin("failure")
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !match {
		s.metrics.IncLogin("failure")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email, user.Name)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin("success")

	return token, nil
}

// Logout revokes the presented token for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *model.Claims) error {
	return s.tokens.Revoke(ctx, claims)
}
