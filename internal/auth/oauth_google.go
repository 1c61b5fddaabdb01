package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleConfig configures the Google sign-in provider.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID"`
}

// Enabled reports whether the provider is configured.
func (c GoogleConfig) Enabled() bool { return c.ClientID != "" }

// GoogleProvider verifies Google ID tokens obtained by the frontend through
// Google Identity Services. The credential is the ID token itself, no code
// exchange happens server-side.
type GoogleProvider struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleProvider builds a GoogleProvider for the given OAuth client ID.
func NewGoogleProvider(cfg GoogleConfig) (*GoogleProvider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("auth: google client id is required")
	}
	return &GoogleProvider{clientID: cfg.ClientID, validate: idtoken.Validate}, nil
}

func (p *GoogleProvider) Name() string { return MethodGoogle }

// Authenticate validates the ID token signature and audience and extracts
// the attested profile.
func (p *GoogleProvider) Authenticate(ctx context.Context, credential string) (*Profile, error) {
	payload, err := p.validate(ctx, credential, p.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOAuthToken, err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &Profile{
		ExternalID: payload.Subject,
		Email:      email,
		Name:       name,
		AvatarURL:  picture,
	}, nil
}
