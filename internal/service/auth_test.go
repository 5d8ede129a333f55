package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoihub/recipeops/internal/service"
	"github.com/rasoihub/recipeops/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	token, err := svc.Register(ctx, "Cook", "cook@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)

	loginToken, err := svc.Login(ctx, "cook@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "Cook", "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "cook@example.com", "different")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "Cook", "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()

	token, err := service.NewAuthService(db, "secret-a").Register(ctx, "Cook", "cook@example.com", "password123")
	require.NoError(t, err)

	_, err = service.NewAuthService(db, "secret-b").ValidateToken(token)
	assert.Error(t, err)
}

func TestAdminFlagCarriedInToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret")
	ctx := context.Background()

	testhelpers.CreateUser(t, db, "ops@example.com", "password123", true)

	token, err := svc.Login(ctx, "ops@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}
