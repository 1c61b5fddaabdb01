package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/backend/internal/auth"
)

func newUser(username, email string) *auth.User {
	now := time.Now()
	return &auth.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      email,
		Role:       auth.RoleUser,
		AuthMethod: auth.MethodLocal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	user := newUser("jdoe", "jdoe@example.com")
	require.NoError(t, store.Create(ctx, user))

	t.Run("find by id, email, and username", func(t *testing.T) {
		t.Parallel()

		byID, err := store.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)

		byEmail, err := store.FindByEmail(ctx, "jdoe@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)

		byUsername, err := store.FindByUsername(ctx, "jdoe")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byUsername.ID)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		_, err := store.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		_, err = store.FindByEmail(ctx, "other@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("returned records do not alias stored state", func(t *testing.T) {
		t.Parallel()

		got, err := store.FindByID(ctx, user.ID)
		require.NoError(t, err)
		got.Email = "mutated@example.com"

		again, err := store.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "jdoe@example.com", again.Email)
	})

	t.Run("password hash bytes are not shared", func(t *testing.T) {
		t.Parallel()

		hashed := newUser("hasher", "hasher@example.com")
		hashed.PasswordHash = []byte("bcrypt-hash-bytes")
		require.NoError(t, store.Create(ctx, hashed))

		// Mutating the caller's slice after Create must not reach the store.
		hashed.PasswordHash[0] = 'X'

		got, err := store.FindByID(ctx, hashed.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("bcrypt-hash-bytes"), got.PasswordHash)

		// Nor may a fetched record's slice write back into the store.
		got.PasswordHash[0] = 'Y'
		again, err := store.FindByID(ctx, hashed.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("bcrypt-hash-bytes"), again.PasswordHash)
	})
}

func TestMemoryStore_Uniqueness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Create(ctx, newUser("jdoe", "jdoe@example.com")))

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		err := store.Create(ctx, newUser("other", "jdoe@example.com"))
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()

		err := store.Create(ctx, newUser("jdoe", "other@example.com"))
		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	})

	t.Run("update cannot steal a taken email", func(t *testing.T) {
		t.Parallel()

		second := newUser("second", "second@example.com")
		require.NoError(t, store.Create(ctx, second))

		second.Email = "jdoe@example.com"
		assert.ErrorIs(t, store.Update(ctx, second), auth.ErrEmailTaken)
	})
}

func TestMemoryStore_DigestLookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()

	t.Run("live reset digest is found", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		user := newUser("jdoe", "jdoe@example.com")
		user.ResetPasswordDigest = "digest-1"
		user.ResetPasswordExpire = now.Add(time.Hour)
		require.NoError(t, store.Create(ctx, user))

		got, err := store.FindByResetDigest(ctx, "digest-1", now)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("expired digest is treated as absent", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		user := newUser("jdoe", "jdoe@example.com")
		user.ResetPasswordDigest = "digest-2"
		user.ResetPasswordExpire = now.Add(-time.Minute)
		require.NoError(t, store.Create(ctx, user))

		_, err := store.FindByResetDigest(ctx, "digest-2", now)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("cleared verification digest no longer matches", func(t *testing.T) {
		t.Parallel()

		store := NewMemoryStore()
		user := newUser("jdoe", "jdoe@example.com")
		user.EmailVerificationDigest = "digest-3"
		user.EmailVerificationExpire = now.Add(time.Hour)
		require.NoError(t, store.Create(ctx, user))

		got, err := store.FindByVerificationDigest(ctx, "digest-3", now)
		require.NoError(t, err)

		got.EmailVerificationDigest = ""
		got.EmailVerificationExpire = time.Time{}
		require.NoError(t, store.Update(ctx, got))

		_, err = store.FindByVerificationDigest(ctx, "digest-3", now)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
