package auth

import "time"

// Config holds the auth subsystem configuration. The two JWT secrets must be
// independent; NewTokenService refuses a shared value so a compromised access
// secret can never forge refresh tokens.
type Config struct {
	AccessTokenSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshTokenSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`

	BcryptCost           int           `env:"BCRYPT_COST" envDefault:"12"`
	ResetTokenTTL        time.Duration `env:"RESET_TOKEN_TTL" envDefault:"1h"`
	VerificationTokenTTL time.Duration `env:"VERIFICATION_TOKEN_TTL" envDefault:"24h"`

	// FrontendURL is the base for the reset/verification links embedded in
	// transactional emails.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}
