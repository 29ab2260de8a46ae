package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/testhelpers"
)

const testSecret = "test-secret-key-for-auth-tests"

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash, "password must never be stored in clear")

	loggedIn, loginToken, err := svc.Login(ctx, "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password-one")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other Alice", "alice@example.com", "password-two")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "the real password")
	require.NoError(t, err)

	_, _, wrongPass := svc.Login(ctx, "alice@example.com", "not the password")
	_, _, noUser := svc.Login(ctx, "nobody@example.com", "anything")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestAuthenticateToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "some password")
	require.NoError(t, err)

	claims, err := svc.AuthenticateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthenticateTokenRejectsGarbage(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)

	_, err := svc.AuthenticateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateTokenRejectsWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()

	_, token, err := NewAuthService(db, "other-secret").Register(ctx, "Alice", "alice@example.com", "some password")
	require.NoError(t, err)

	_, err = NewAuthService(db, testSecret).AuthenticateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateTokenRejectsDeletedUser(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewAuthService(db, testSecret)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "some password")
	require.NoError(t, err)

	require.NoError(t, db.Delete(user).Error)

	_, err = svc.AuthenticateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "a valid token for a removed user must not authenticate")
}
