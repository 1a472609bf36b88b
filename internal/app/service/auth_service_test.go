package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/db"
	"github.com/nvolkov/brewhub-backend/pkg/mailer"
	"github.com/nvolkov/brewhub-backend/pkg/util"
)

func setupAuthTest(t *testing.T) AuthService {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	jwtCfg := &config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	}
	return NewAuthService(userRepo, mailer.New(&config.SMTPConfig{}), jwtCfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register("new@example.com", "password123", "newbie", "0123456789")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, tokens, err := svc.Login("new@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register("dup@example.com", "password123", "first", "")
	require.NoError(t, err)

	_, err = svc.Register("dup@example.com", "password456", "second", "")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestReRegisterAfterAccountDeletion(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register("comeback@example.com", "password123", "first", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(user.ID))

	// A deleted account frees its email
	again, err := svc.Register("comeback@example.com", "password456", "second", "")
	require.NoError(t, err)
	assert.NotEqual(t, user.ID, again.ID)
}

func TestLoginFailures(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register("login@example.com", "password123", "user", "")
	require.NoError(t, err)

	_, _, err = svc.Login("login@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register("inactive@example.com", "password123", "user", "")
	require.NoError(t, err)

	_, err = svc.UpdateProfile(user.ID, map[string]interface{}{"is_active": false})
	require.NoError(t, err)

	_, _, err = svc.Login("inactive@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDeletedAccount(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register("deleted@example.com", "password123", "user", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(user.ID))

	_, _, err = svc.Login("deleted@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshToken(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register("refresh@example.com", "password123", "user", "")
	require.NoError(t, err)
	_, tokens, err := svc.Login("refresh@example.com", "password123")
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
	assert.NotEmpty(t, fresh.RefreshToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.Register("strict@example.com", "password123", "user", "")
	require.NoError(t, err)
	_, tokens, err := svc.Login("strict@example.com", "password123")
	require.NoError(t, err)

	// An access token is valid but the wrong kind
	_, err = svc.RefreshToken(tokens.AccessToken)
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.RefreshToken("not.a.token")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register("profile@example.com", "password123", "before", "111")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, map[string]interface{}{"username": "after"})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Username)
	assert.Equal(t, "111", updated.Phone)
}

func TestGetUserByIDNotFound(t *testing.T) {
	svc := setupAuthTest(t)

	_, err := svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
