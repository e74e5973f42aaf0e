package service_test

import (
	"context"
	"testing"
	"time"

	security "github.com/linemk/storefront/internal/jwt-new"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

func TestAuth_RegisterAndLogin(t *testing.T) {
	store := memory.New()
	svc := service.NewAuthService(newTestLogger(), store.Users(), testSecret, time.Hour)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, service.RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		FullName: "Alice",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, []byte("password123"), user.PassHash, "password must be hashed")

	userID, err := security.ParseUserID(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	logged, token, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestAuth_RegisterConflict(t *testing.T) {
	store := memory.New()
	svc := service.NewAuthService(newTestLogger(), store.Users(), testSecret, time.Hour)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, service.RegisterInput{Username: "alice", Email: "b@example.com", Password: "password123"})
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, "Username already exists", service.MessageOf(err))

	_, _, err = svc.Register(ctx, service.RegisterInput{Username: "bob", Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.Equal(t, "Email already exists", service.MessageOf(err))
}

func TestAuth_LoginInvalidCredentials(t *testing.T) {
	store := memory.New()
	svc := service.NewAuthService(newTestLogger(), store.Users(), testSecret, time.Hour)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, service.RegisterInput{Username: "alice", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Me(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
