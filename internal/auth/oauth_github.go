package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBase = "https://api.github.com"

// GithubConfig configures the GitHub sign-in provider.
type GithubConfig struct {
	ClientID     string   `env:"GITHUB_CLIENT_ID"`
	ClientSecret string   `env:"GITHUB_CLIENT_SECRET"`
	Scopes       []string `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"user:email"`
}

// Enabled reports whether the provider is configured.
func (c GithubConfig) Enabled() bool { return c.ClientID != "" && c.ClientSecret != "" }

// GithubProvider exchanges a GitHub authorization code for an access token
// and resolves the account profile through the GitHub API. The credential is
// the code from the frontend's OAuth popup.
type GithubProvider struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	apiBase      string
}

// NewGithubProvider builds a GithubProvider from the config.
func NewGithubProvider(cfg GithubConfig) (*GithubProvider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("auth: github client id and secret are required")
	}
	return &GithubProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    githubAPIBase,
	}, nil
}

func (p *GithubProvider) Name() string { return MethodGithub }

// Authenticate exchanges the authorization code and fetches the user profile.
// When the profile email is private it falls back to the emails endpoint and
// picks the primary verified address.
func (p *GithubProvider) Authenticate(ctx context.Context, credential string) (*Profile, error) {
	token, err := p.oauth2Config.Exchange(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed", ErrInvalidOAuthToken)
	}

	var account struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Email     string `json:"email"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := p.get(ctx, token.AccessToken, "/user", &account); err != nil {
		return nil, err
	}

	if account.Email == "" {
		email, err := p.primaryEmail(ctx, token.AccessToken)
		if err != nil {
			return nil, err
		}
		account.Email = email
	}

	return &Profile{
		ExternalID: strconv.FormatInt(account.ID, 10),
		Email:      account.Email,
		Username:   account.Login,
		Name:       account.Name,
		AvatarURL:  account.AvatarURL,
	}, nil
}

func (p *GithubProvider) primaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := p.get(ctx, accessToken, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}

	return "", ErrNoPrimaryEmail
}

func (p *GithubProvider) get(ctx context.Context, accessToken, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: github api returned status %d", ErrProviderFailure, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	return nil
}
