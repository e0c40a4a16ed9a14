package service

import (
	"context"
	"errors"

	"github.com/taskflow/taskflow-go/internal/crypto"
	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 6

// AuthService handles registration and login.
type AuthService struct {
	users store.UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new user account and returns its public fields. The raw
// password is hashed before it reaches the store and is never persisted.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.UserResponse{}, ErrMissingCredentials
	}
	if len(req.Password) < minPasswordLength {
		return model.UserResponse{}, ErrPasswordTooShort
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return model.PublicUser(user), nil
}

// Login verifies the credentials and returns the user's public fields.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.UserResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.UserResponse{}, ErrMissingCredentials
	}

	user, err := s.users.UserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return model.UserResponse{}, ErrInvalidCredentials
		}
		return model.UserResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.UserResponse{}, err
	}
	if !match {
		return model.UserResponse{}, ErrInvalidCredentials
	}

	return model.PublicUser(user), nil
}

// CurrentUser resolves a user id to its public fields.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return model.PublicUser(user), nil
}
