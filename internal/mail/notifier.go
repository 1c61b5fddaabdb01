// Package mail renders and dispatches the transactional auth emails.
package mail

import (
	"context"
	"fmt"

	"github.com/melodia-app/backend/pkg/email"
	"github.com/melodia-app/backend/pkg/email/templates"
)

// Notifier sends the auth lifecycle emails through an email.EmailSender.
type Notifier struct {
	sender email.EmailSender
}

// NewNotifier builds a Notifier over the given sender.
func NewNotifier(sender email.EmailSender) *Notifier {
	return &Notifier{sender: sender}
}

// SendPasswordReset emails a reset link valid for one hour.
func (n *Notifier) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	body, err := templates.Render(ctx, templates.PasswordReset(resetURL, "1 hour"))
	if err != nil {
		return fmt.Errorf("mail: render password reset: %w", err)
	}
	return n.send(ctx, to, "Reset your Melodia password", body, "password-reset")
}

// SendPasswordResetSuccess confirms a completed password reset.
func (n *Notifier) SendPasswordResetSuccess(ctx context.Context, to string) error {
	body, err := templates.Render(ctx, templates.PasswordResetSuccess())
	if err != nil {
		return fmt.Errorf("mail: render reset confirmation: %w", err)
	}
	return n.send(ctx, to, "Your Melodia password was reset", body, "password-reset-success")
}

// SendPasswordChanged notifies about an authenticated password change.
func (n *Notifier) SendPasswordChanged(ctx context.Context, to string) error {
	body, err := templates.Render(ctx, templates.PasswordChanged())
	if err != nil {
		return fmt.Errorf("mail: render change notice: %w", err)
	}
	return n.send(ctx, to, "Your Melodia password was changed", body, "password-changed")
}

// SendEmailVerification emails a verification link valid for 24 hours.
func (n *Notifier) SendEmailVerification(ctx context.Context, to, verificationURL string) error {
	body, err := templates.Render(ctx, templates.VerifyEmail(verificationURL, "24 hours"))
	if err != nil {
		return fmt.Errorf("mail: render verification: %w", err)
	}
	return n.send(ctx, to, "Verify your Melodia email", body, "email-verification")
}

func (n *Notifier) send(ctx context.Context, to, subject, body, tag string) error {
	return n.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  subject,
		BodyHTML: body,
		Tag:      tag,
	})
}
