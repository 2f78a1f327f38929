package service

import (
	"testing"
	"time"

	"textbook_backend/internal/config"
	"textbook_backend/internal/model"
	"textbook_backend/internal/repository"
	"textbook_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-for-tests-only"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{Username: "brad@test.user", Email: "brad@test.user", Password: "grouplens"}
	require.NoError(t, svc.Register(user))
	assert.Equal(t, model.TrueChar(true), user.Active)
	assert.NotEqual(t, "grouplens", user.Password)

	token, err := svc.Login("brad@test.user", "grouplens")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "test-secret-key-for-tests-only")
	require.NoError(t, err)
	assert.Equal(t, "brad@test.user", claims.Username)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)

	require.NoError(t, svc.Register(&model.User{Username: "brad@test.user", Email: "brad@test.user", Password: "grouplens"}))
	err := svc.Register(&model.User{Username: "brad@test.user", Email: "other@test.user", Password: "x"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t)
	require.NoError(t, svc.Register(&model.User{Username: "brad@test.user", Email: "brad@test.user", Password: "grouplens"}))

	_, err := svc.Login("brad@test.user", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, err = svc.Login("nobody@test.user", "grouplens")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
