package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/melodia-app/backend/pkg/logger"
	"github.com/melodia-app/backend/pkg/sanitizer"
)

// usernameAttempts bounds the suffixed retries when deriving a unique
// username from a provider profile.
const usernameAttempts = 5

// Profile is the normalized identity returned by a provider after verifying
// the client-supplied credential.
type Profile struct {
	ExternalID string
	Email      string
	Username   string
	Name       string
	AvatarURL  string
}

// IdentityProvider verifies a provider credential (an ID token or an
// authorization code, depending on the provider) and returns the profile it
// attests to.
type IdentityProvider interface {
	Name() string
	Authenticate(ctx context.Context, credential string) (*Profile, error)
}

// Bridge reconciles verified provider identities against the credential
// store: it creates accounts on first login, rejects cross-method email
// collisions, and logs in returning users.
type Bridge struct {
	store     UserStore
	log       *slog.Logger
	providers map[string]IdentityProvider
}

// NewBridge builds a Bridge over the given providers.
func NewBridge(store UserStore, log *slog.Logger, providers ...IdentityProvider) *Bridge {
	if log == nil {
		log = slog.Default()
	}
	byName := make(map[string]IdentityProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Bridge{store: store, log: log, providers: byName}
}

// Login verifies the credential with the named provider and returns the
// matching account, creating it when the email is unseen. An email already
// owned by a different auth method fails with ErrAuthMethodConflict naming
// the method the account actually uses.
func (b *Bridge) Login(ctx context.Context, provider, credential string) (*User, error) {
	p, ok := b.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	profile, err := p.Authenticate(ctx, credential)
	if err != nil {
		return nil, err
	}

	email := sanitizer.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, ErrNoPrimaryEmail
	}

	user, err := b.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user, err = b.register(ctx, p.Name(), email, profile)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("oauth login: %w", err)
	}

	if user.AuthMethod != p.Name() {
		return nil, fmt.Errorf("%w: this email is registered via %s", ErrAuthMethodConflict, user.AuthMethod)
	}

	user.LastLogin = time.Now()
	user.UpdatedAt = time.Now()
	if err := b.store.Update(ctx, user); err != nil {
		b.log.ErrorContext(ctx, "failed to record oauth login",
			logger.UserID(user.ID.String()), logger.Error(err))
	}

	return user, nil
}

func (b *Bridge) register(ctx context.Context, method, email string, profile *Profile) (*User, error) {
	username, err := b.deriveUsername(ctx, email, profile)
	if err != nil {
		return nil, err
	}

	avatar := profile.AvatarURL
	if avatar == "" {
		avatar = DefaultProfileImage
	}

	now := time.Now()
	user := &User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		ProfileImage:    avatar,
		Role:            RoleUser,
		AuthMethod:      method,
		AuthProviderID:  profile.ExternalID,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := b.store.Create(ctx, user); err != nil {
		// A concurrent first login for the same email can win the insert.
		// Re-fetch and let the caller run the method check against it.
		if errors.Is(err, ErrEmailTaken) {
			return b.store.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("oauth register: %w", err)
	}

	b.log.InfoContext(ctx, "oauth account created",
		logger.UserID(user.ID.String()), logger.Provider(method))
	return user, nil
}

// deriveUsername picks the provider login when available, otherwise the
// email local part, then resolves collisions with a random 4-digit suffix.
func (b *Bridge) deriveUsername(ctx context.Context, email string, profile *Profile) (string, error) {
	base := sanitizer.Username(profile.Username)
	if base == "" {
		base = sanitizer.Username(sanitizer.EmailLocalPart(email))
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		_, err := b.store.FindByUsername(ctx, candidate)
		if errors.Is(err, ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("derive username: %w", err)
		}
		candidate = fmt.Sprintf("%s%04d", base, rand.Intn(10000))
	}

	return "", ErrUsernameExhausted
}
