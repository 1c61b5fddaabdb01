package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("creates service from valid config", func(t *testing.T) {
		t.Parallel()

		svc, err := NewTokenService(testConfig())
		require.NoError(t, err)
		require.NotNil(t, svc)
		assert.Equal(t, 168*time.Hour, svc.RefreshTTL())
	})

	t.Run("rejects shared secrets", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.RefreshTokenSecret = cfg.AccessTokenSecret
		_, err := NewTokenService(cfg)
		require.Error(t, err)
	})

	t.Run("rejects missing secret", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.AccessTokenSecret = ""
		_, err := NewTokenService(cfg)
		require.Error(t, err)
	})
}

func TestTokenService_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService(testConfig())
	require.NoError(t, err)
	userID := uuid.New()

	t.Run("access token round trip", func(t *testing.T) {
		t.Parallel()

		token, err := svc.IssueAccessToken(userID)
		require.NoError(t, err)

		got, err := svc.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		t.Parallel()

		token, err := svc.IssueRefreshToken(userID)
		require.NoError(t, err)

		got, err := svc.VerifyRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("access token is not a valid refresh token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.IssueAccessToken(userID)
		require.NoError(t, err)

		_, err = svc.VerifyRefreshToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("refresh token is not a valid access token", func(t *testing.T) {
		t.Parallel()

		token, err := svc.IssueRefreshToken(userID)
		require.NoError(t, err)

		_, err = svc.VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.VerifyAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenService_Expiry(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.AccessTokenTTL = -time.Minute
	svc, err := NewTokenService(cfg)
	require.NoError(t, err)

	token, err := svc.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
