package templates_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/backend/pkg/email/templates"
)

func TestPasswordReset(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(),
		templates.PasswordReset("https://app.example.com/reset-password/abc123", "1 hour"))
	require.NoError(t, err)
	assert.Contains(t, html, "https://app.example.com/reset-password/abc123")
	assert.Contains(t, html, "valid for 1 hour")
}

func TestPasswordResetEscapesURL(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(),
		templates.PasswordReset(`https://evil.test/"><script>`, "1 hour"))
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(),
		templates.VerifyEmail("https://app.example.com/verify-email/tok", "24 hours"))
	require.NoError(t, err)
	assert.Contains(t, html, "verify your email address")
	assert.Contains(t, html, "valid for 24 hours")
}

func TestStaticBodies(t *testing.T) {
	t.Parallel()

	for name, render := range map[string]func() (string, error){
		"reset success": func() (string, error) {
			return templates.Render(context.Background(), templates.PasswordResetSuccess())
		},
		"password changed": func() (string, error) {
			return templates.Render(context.Background(), templates.PasswordChanged())
		},
	} {
		t.Run(name, func(t *testing.T) {
			html, err := render()
			require.NoError(t, err)
			assert.Contains(t, html, "contact support")
		})
	}
}
