package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/backend/pkg/jwt"
)

const testKey = "test-signing-key-at-least-32-bytes!"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("empty key rejected", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

		_, err = jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})

	t.Run("valid key", func(t *testing.T) {
		t.Parallel()

		svc, err := jwt.NewFromString(testKey)
		require.NoError(t, err)
		require.NotNil(t, svc)
	})
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString(testKey)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		claims := jwt.StandardClaims{
			Subject:   "user-123",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Minute).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		var parsed jwt.StandardClaims
		require.NoError(t, svc.Parse(token, &parsed))
		assert.Equal(t, "user-123", parsed.Subject)
	})

	t.Run("nil claims rejected", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		claims := jwt.StandardClaims{
			Subject:   "user-123",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("not yet valid token", func(t *testing.T) {
		t.Parallel()

		claims := jwt.StandardClaims{
			Subject:   "user-123",
			NotBefore: time.Now().Add(time.Hour).Unix(),
		}

		token, err := svc.Generate(claims)
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(token, &parsed), jwt.ErrInvalidToken)
	})

	t.Run("wrong key fails signature check", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{Subject: "user-123"})
		require.NoError(t, err)

		other, err := jwt.NewFromString("another-signing-key-32-bytes-long!!")
		require.NoError(t, err)

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, other.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()

		token, err := svc.Generate(jwt.StandardClaims{Subject: "user-123"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse(tampered, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.StandardClaims
		assert.ErrorIs(t, svc.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
	})
}
