package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/melodia-app/backend/pkg/logger"
	"github.com/melodia-app/backend/pkg/sanitizer"
	"github.com/melodia-app/backend/pkg/validator"
)

// Service orchestrates the auth flows. Each method is a linear sequence of
// store calls; cross-request safety comes from the store's uniqueness
// guarantees, not from in-process state.
type Service struct {
	store     UserStore
	tokens    *TokenService
	passwords *PasswordManager
	bridge    *Bridge
	log       *slog.Logger
}

// NewService wires the session controller from its collaborators.
func NewService(store UserStore, tokens *TokenService, passwords *PasswordManager, bridge *Bridge, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     store,
		tokens:    tokens,
		passwords: passwords,
		bridge:    bridge,
		log:       log,
	}
}

// RegisterParams is the input of Register. Role defaults to RoleUser.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a password-backed account. Duplicates are checked email
// first so the email error surfaces when both collide; the store's unique
// indexes remain the real guarantee under concurrent registration. The
// initial verification email is sent best-effort.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	email := sanitizer.NormalizeEmail(params.Email)
	username := sanitizer.Username(params.Username)
	role := params.Role
	if role == "" {
		role = RoleUser
	}

	if err := validator.Apply(
		validator.ValidEmail("email", email),
		validator.RequiredString("username", username),
		validator.LenString("username", username, 3, 30),
		validator.OneOf("role", role, []string{RoleUser, RoleArtist, RoleAdmin}),
	); err != nil {
		return nil, err
	}
	if err := s.passwords.ValidateStrength(params.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		ProfileImage: DefaultProfileImage,
		Role:         role,
		AuthMethod:   MethodLocal,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.passwords.BeginVerification(ctx, user); err != nil {
		s.log.ErrorContext(ctx, "failed to send initial verification email",
			logger.UserID(user.ID.String()), logger.Error(err))
	}

	s.log.InfoContext(ctx, "user registered", logger.UserID(user.ID.String()))
	return user, nil
}

// Login authenticates a password-backed account. Unknown emails and hash
// mismatches fail identically; accounts owned by an OAuth provider fail with
// an error naming the method they use.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.store.FindByEmail(ctx, sanitizer.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !user.IsLocal() {
		return nil, fmt.Errorf("%w: this account uses %s authentication", ErrWrongAuthMethod, user.AuthMethod)
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, err
	}

	user.LastLogin = time.Now()
	user.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, user); err != nil {
		s.log.ErrorContext(ctx, "failed to record login",
			logger.UserID(user.ID.String()), logger.Error(err))
	}

	return user, nil
}

// OAuthLogin runs the provider reconciliation flow.
func (s *Service) OAuthLogin(ctx context.Context, provider, credential string) (*User, error) {
	return s.bridge.Login(ctx, provider, credential)
}

// IssueTokens mints the access/refresh pair for a logged-in user.
func (s *Service) IssueTokens(userID uuid.UUID) (access, refresh string, err error) {
	access, err = s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue tokens: %w", err)
	}
	refresh, err = s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue tokens: %w", err)
	}
	return access, refresh, nil
}

// Refresh validates the refresh token and mints a new access token. The
// refresh token itself is not rotated. A token for a deleted account fails
// like an invalid one.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	if _, err := s.store.FindByID(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrTokenInvalid
		}
		return "", fmt.Errorf("refresh: %w", err)
	}

	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	return access, nil
}

// CurrentUser loads the account behind an authenticated request.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.store.FindByID(ctx, userID)
}

// ForgotPassword starts the reset flow. Always succeeds for unknown emails.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.passwords.InitiateReset(ctx, sanitizer.NormalizeEmail(email))
}

// ResetPassword consumes a reset token and sets the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.passwords.CompleteReset(ctx, token, newPassword)
}

// VerifyEmail consumes a verification token.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*User, error) {
	return s.passwords.ConfirmEmail(ctx, token)
}

// ResendVerification re-issues the verification email for the authenticated
// user's account.
func (s *Service) ResendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.passwords.BeginVerification(ctx, user)
}

// ChangePassword replaces the authenticated user's password.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, newPassword string) error {
	return s.passwords.ChangePassword(ctx, userID, current, newPassword)
}
