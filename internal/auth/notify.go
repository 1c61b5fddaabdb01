package auth

import "context"

// Notifier delivers the transactional emails of the auth flows. Delivery
// failures during reset initiation roll back the half-applied token fields;
// failures of pure notifications (confirmation, change notice) are logged and
// do not fail the operation.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
	SendPasswordResetSuccess(ctx context.Context, email string) error
	SendPasswordChanged(ctx context.Context, email string) error
	SendEmailVerification(ctx context.Context, email, verificationURL string) error
}
