package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserStore is a mock implementation of UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*User, error) {
	args := m.Called(ctx, digest, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) FindByVerificationDigest(ctx context.Context, digest string, now time.Time) (*User, error) {
	args := m.Called(ctx, digest, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	args := m.Called(ctx, email, resetURL)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordResetSuccess(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordChanged(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockNotifier) SendEmailVerification(ctx context.Context, email, verificationURL string) error {
	args := m.Called(ctx, email, verificationURL)
	return args.Error(0)
}

// stubProvider is a canned IdentityProvider for bridge tests.
type stubProvider struct {
	name    string
	profile *Profile
	err     error
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Authenticate(_ context.Context, _ string) (*Profile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profile, nil
}

func testConfig() Config {
	return Config{
		AccessTokenSecret:    "access-secret-32-chars-long-0001",
		RefreshTokenSecret:   "refresh-secret-32-chars-long-001",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      168 * time.Hour,
		BcryptCost:           4,
		ResetTokenTTL:        time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
		FrontendURL:          "http://localhost:3000",
	}
}
