package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines the credential store operations required by the auth
// services. Implementations must enforce username and email uniqueness on
// Create (the application-level duplicate checks are a fast-path UX
// improvement only, two concurrent registrations can both pass them), and
// must treat digests whose expiry is in the past as absent.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByResetDigest and FindByVerificationDigest match the stored digest
	// AND require the corresponding expiry to be after now.
	FindByResetDigest(ctx context.Context, digest string, now time.Time) (*User, error)
	FindByVerificationDigest(ctx context.Context, digest string, now time.Time) (*User, error)

	// Create inserts a new user, returning ErrEmailTaken or ErrUsernameTaken
	// when a unique index rejects the write.
	Create(ctx context.Context, user *User) error

	// Update persists the full user record as a single document write.
	Update(ctx context.Context, user *User) error
}
