package auth

import "errors"

// General authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Token-related errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrMissingToken = errors.New("refresh token not found")
)

// Password lifecycle errors. ErrInvalidOrExpiredToken is deliberately shared
// by every reset/verification failure shape so responses do not reveal which
// check failed.
var (
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrWrongAuthMethod       = errors.New("wrong auth method")
	ErrAlreadyVerified       = errors.New("email is already verified")
)

// OAuth errors
var (
	ErrAuthMethodConflict = errors.New("email already registered with another auth method")
	ErrInvalidOAuthToken  = errors.New("invalid oauth credential")
	ErrNoPrimaryEmail     = errors.New("no primary email from provider")
	ErrUsernameExhausted  = errors.New("could not derive a unique username")
	ErrUnknownProvider    = errors.New("unknown oauth provider")
	ErrProviderFailure    = errors.New("identity provider request failed")
)
