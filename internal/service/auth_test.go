package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/store"
	"github.com/taskflow/taskflow-go/internal/store/memstore"
)

func newTestAuthService() *AuthService {
	return NewAuthService(memstore.New())
}

func TestRegister_MissingFields(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "", Password: "secret123"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: ""})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "a@example.com",
		Password: "12345",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_ReturnsPublicFields(t *testing.T) {
	svc := newTestAuthService()

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "a@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Positive(t, user.ID)
	assert.Equal(t, "a@example.com", user.Email)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	first, err := svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "different1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// The first account is intact: its original password still logs in.
	user, err := svc.Login(ctx, model.LoginRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, user.ID)
}

func TestLogin_EnumerationSafe(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, model.LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	_, unknownEmail := svc.Login(ctx, model.LoginRequest{Email: "ghost@example.com", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error(),
		"unknown email and wrong password must be indistinguishable")
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLogin_Success(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, model.LoginRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "a@example.com", user.Email)
}

func TestCurrentUser(t *testing.T) {
	svc := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, model.RegisterRequest{Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = svc.CurrentUser(ctx, registered.ID+99)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
