package sanitizer

import (
	"regexp"
	"strings"
)

var (
	dotRegex      = regexp.MustCompile(`\.{2,}`)
	usernameRegex = regexp.MustCompile(`[^a-z0-9._\-]`)
)

// NormalizeEmail lowercases and trims an email address. Invalid shapes are
// returned unchanged so the validator can reject them with a proper message.
// Consecutive dots in the local part are consolidated; some providers refuse
// delivery otherwise.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	domain := parts[1]

	local = dotRegex.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// Username lowercases a username and strips characters outside the allowed
// set (letters, digits, dot, underscore, dash).
func Username(username string) string {
	username = strings.TrimSpace(username)
	username = strings.ToLower(username)
	return usernameRegex.ReplaceAllString(username, "")
}

// EmailLocalPart returns the part before the @ of an already-normalized
// address, used to derive usernames for OAuth signups.
func EmailLocalPart(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local
}
