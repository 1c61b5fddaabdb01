package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia-app/backend/pkg/logger"
	"github.com/melodia-app/backend/pkg/validator"
)

// lifecycleTokenBytes is the entropy of reset and verification tokens. The
// raw token goes into the email link; only its SHA-256 digest is stored.
const lifecycleTokenBytes = 32

// PasswordManager owns the password lifecycle: hashing, the forgot/reset
// flow, authenticated password change, and email verification tokens.
type PasswordManager struct {
	store    UserStore
	notifier Notifier
	log      *slog.Logger

	bcryptCost      int
	resetTTL        time.Duration
	verificationTTL time.Duration
	frontendURL     string

	strength validator.PasswordStrengthConfig
}

// NewPasswordManager wires a PasswordManager from the config.
func NewPasswordManager(store UserStore, notifier Notifier, log *slog.Logger, cfg Config) *PasswordManager {
	if log == nil {
		log = slog.Default()
	}
	return &PasswordManager{
		store:           store,
		notifier:        notifier,
		log:             log,
		bcryptCost:      cfg.BcryptCost,
		resetTTL:        cfg.ResetTokenTTL,
		verificationTTL: cfg.VerificationTokenTTL,
		frontendURL:     cfg.FrontendURL,
		strength:        validator.DefaultPasswordStrength(),
	}
}

// Hash derives a bcrypt hash of the password.
func (m *PasswordManager) Hash(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify compares a stored hash against a candidate password.
func (m *PasswordManager) Verify(hash []byte, password string) error {
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// ValidateStrength applies the password strength policy.
func (m *PasswordManager) ValidateStrength(password string) error {
	return validator.Apply(
		validator.StrongPassword("password", password, m.strength),
		validator.NotCommonPassword("password", password),
	)
}

// InitiateReset starts the forgot-password flow. It is a silent no-op for
// unknown emails and non-password accounts so the endpoint never reveals
// account existence. When the email cannot be delivered the half-applied
// token fields are rolled back and the error is returned.
func (m *PasswordManager) InitiateReset(ctx context.Context, email string) error {
	user, err := m.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			m.log.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("initiate reset: %w", err)
	}
	if !user.IsLocal() {
		m.log.InfoContext(ctx, "password reset requested for oauth account",
			logger.UserID(user.ID.String()))
		return nil
	}

	token, digest, err := newLifecycleToken()
	if err != nil {
		return fmt.Errorf("initiate reset: %w", err)
	}

	user.ResetPasswordDigest = digest
	user.ResetPasswordExpire = time.Now().Add(m.resetTTL)
	user.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, user); err != nil {
		return fmt.Errorf("initiate reset: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", m.frontendURL, token)
	if err := m.notifier.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		user.ResetPasswordDigest = ""
		user.ResetPasswordExpire = time.Time{}
		user.UpdatedAt = time.Now()
		if rbErr := m.store.Update(ctx, user); rbErr != nil {
			m.log.ErrorContext(ctx, "failed to roll back reset token",
				logger.UserID(user.ID.String()), logger.Error(rbErr))
		}
		return fmt.Errorf("initiate reset: %w", err)
	}

	return nil
}

// CompleteReset consumes a reset token and sets the new password. All token
// failure shapes collapse into ErrInvalidOrExpiredToken.
func (m *PasswordManager) CompleteReset(ctx context.Context, token, newPassword string) error {
	if err := m.ValidateStrength(newPassword); err != nil {
		return err
	}

	user, err := m.store.FindByResetDigest(ctx, digestOf(token), time.Now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("complete reset: %w", err)
	}

	hash, err := m.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetPasswordDigest = ""
	user.ResetPasswordExpire = time.Time{}
	user.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, user); err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}

	if err := m.notifier.SendPasswordResetSuccess(ctx, user.Email); err != nil {
		m.log.ErrorContext(ctx, "failed to send reset confirmation",
			logger.UserID(user.ID.String()), logger.Error(err))
	}

	return nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one. Non-password accounts are rejected before the
// hash comparison with an error naming their actual method.
func (m *PasswordManager) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	user, err := m.store.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !user.IsLocal() {
		return fmt.Errorf("%w: this account uses %s authentication", ErrWrongAuthMethod, user.AuthMethod)
	}
	if err := m.Verify(user.PasswordHash, current); err != nil {
		return err
	}
	if err := m.ValidateStrength(newPassword); err != nil {
		return err
	}

	hash, err := m.Hash(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if err := m.notifier.SendPasswordChanged(ctx, user.Email); err != nil {
		m.log.ErrorContext(ctx, "failed to send password change notice",
			logger.UserID(user.ID.String()), logger.Error(err))
	}

	return nil
}

// BeginVerification issues a fresh email verification token for the user and
// sends the verification email. A delivery failure rolls the token back.
func (m *PasswordManager) BeginVerification(ctx context.Context, user *User) error {
	token, digest, err := newLifecycleToken()
	if err != nil {
		return fmt.Errorf("begin verification: %w", err)
	}

	prevDigest, prevExpire := user.EmailVerificationDigest, user.EmailVerificationExpire
	user.EmailVerificationDigest = digest
	user.EmailVerificationExpire = time.Now().Add(m.verificationTTL)
	user.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, user); err != nil {
		return fmt.Errorf("begin verification: %w", err)
	}

	verificationURL := fmt.Sprintf("%s/verify-email/%s", m.frontendURL, token)
	if err := m.notifier.SendEmailVerification(ctx, user.Email, verificationURL); err != nil {
		user.EmailVerificationDigest = prevDigest
		user.EmailVerificationExpire = prevExpire
		user.UpdatedAt = time.Now()
		if rbErr := m.store.Update(ctx, user); rbErr != nil {
			m.log.ErrorContext(ctx, "failed to roll back verification token",
				logger.UserID(user.ID.String()), logger.Error(rbErr))
		}
		return fmt.Errorf("begin verification: %w", err)
	}

	return nil
}

// ConfirmEmail consumes a verification token and marks the email verified.
func (m *PasswordManager) ConfirmEmail(ctx context.Context, token string) (*User, error) {
	user, err := m.store.FindByVerificationDigest(ctx, digestOf(token), time.Now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("confirm email: %w", err)
	}

	user.IsEmailVerified = true
	user.EmailVerificationDigest = ""
	user.EmailVerificationExpire = time.Time{}
	user.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("confirm email: %w", err)
	}

	return user, nil
}

// newLifecycleToken returns a random token and its stored digest.
func newLifecycleToken() (token, digest string, err error) {
	buf := make([]byte, lifecycleTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, digestOf(token), nil
}

func digestOf(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
