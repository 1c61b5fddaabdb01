package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/melodia-app/backend/pkg/jwt"
)

const tokenIssuer = "melodia"

// TokenService mints and verifies the access/refresh token pair. It holds two
// independent jwt services so access and refresh scopes never share key
// material.
type TokenService struct {
	access     *jwt.Service
	refresh    *jwt.Service
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService builds a TokenService from the config. It fails when either
// secret is missing or both scopes are configured with the same secret.
func NewTokenService(cfg Config) (*TokenService, error) {
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return nil, errors.New("auth: access and refresh token secrets must differ")
	}

	access, err := jwt.NewFromString(cfg.AccessTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("auth: access token service: %w", err)
	}
	refresh, err := jwt.NewFromString(cfg.RefreshTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("auth: refresh token service: %w", err)
	}

	return &TokenService{
		access:     access,
		refresh:    refresh,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}, nil
}

// IssueAccessToken mints a short-lived access token for the user.
func (s *TokenService) IssueAccessToken(userID uuid.UUID) (string, error) {
	return s.issue(s.access, userID, s.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the user.
func (s *TokenService) IssueRefreshToken(userID uuid.UUID) (string, error) {
	return s.issue(s.refresh, userID, s.refreshTTL)
}

// VerifyAccessToken validates an access token and returns the user ID it was
// minted for. Fails with ErrTokenExpired or ErrTokenInvalid.
func (s *TokenService) VerifyAccessToken(token string) (uuid.UUID, error) {
	return s.verify(s.access, token)
}

// VerifyRefreshToken validates a refresh token and returns the user ID.
func (s *TokenService) VerifyRefreshToken(token string) (uuid.UUID, error) {
	return s.verify(s.refresh, token)
}

// RefreshTTL exposes the refresh token lifetime for cookie max-age.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) issue(svc *jwt.Service, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	return svc.Generate(jwt.StandardClaims{
		Subject:   userID.String(),
		Issuer:    tokenIssuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	})
}

func (s *TokenService) verify(svc *jwt.Service, token string) (uuid.UUID, error) {
	var claims jwt.StandardClaims
	if err := svc.Parse(token, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return userID, nil
}
