package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Transactional email bodies for the auth flows. Components are built by hand
// rather than generated: the bodies are short, static HTML with one or two
// interpolated values, all of which are escaped before writing.

// PasswordReset is the body of the password reset email. The URL carries the
// plaintext reset token and the stated validity window.
func PasswordReset(resetURL string, validFor string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<h1>You requested a password reset</h1>`+
				`<p>Please go to this link to reset your password (valid for %s):</p>`+
				`<a href="%s" target="_blank">Reset Password</a>`+
				`<p>If you didn't request this, please ignore this email.</p>`,
			templ.EscapeString(validFor), templ.EscapeString(resetURL))
		return err
	})
}

// PasswordResetSuccess confirms a completed password reset.
func PasswordResetSuccess() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<h1>Password Reset Successful</h1>`+
				`<p>Your password has been changed successfully.</p>`+
				`<p>If you didn't make this change, please contact support immediately.</p>`)
		return err
	})
}

// PasswordChanged notifies the account owner of a password change made while
// logged in.
func PasswordChanged() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w,
			`<h1>Password Change Notification</h1>`+
				`<p>Your password has been changed successfully.</p>`+
				`<p>If you didn't make this change, please contact support immediately.</p>`)
		return err
	})
}

// VerifyEmail is the body of the address verification email.
func VerifyEmail(verificationURL string, validFor string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<h1>Email Verification</h1>`+
				`<p>Please click the link below to verify your email address:</p>`+
				`<a href="%s" target="_blank">Verify Email</a>`+
				`<p>This link is valid for %s.</p>`,
			templ.EscapeString(verificationURL), templ.EscapeString(validFor))
		return err
	})
}
