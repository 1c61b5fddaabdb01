package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[^a-zA-Z0-9]`)

	// Short deny list of passwords seen in essentially every breach corpus.
	commonPasswords = map[string]bool{
		"password":   true,
		"password1":  true,
		"12345678":   true,
		"123456789":  true,
		"qwerty123":  true,
		"iloveyou":   true,
		"letmein":    true,
		"welcome1":   true,
		"admin123":   true,
		"sunshine":   true,
		"princess":   true,
		"football":   true,
		"monkey123":  true,
		"dragon123":  true,
		"trustno1":   true,
		"passw0rd":   true,
		"p@ssword":   true,
		"qwertyuiop": true,
	}
)

// PasswordStrengthConfig controls what StrongPassword accepts.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // minimum number of different character classes required
}

// DefaultPasswordStrength returns the service-wide default policy:
// 8-128 characters with at least two character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 2,
	}
}

// StrongPassword validates length and character-class diversity.
func StrongPassword(field, value string, config PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < config.MinLength || len(value) > config.MaxLength {
				return false
			}

			charClasses := 0
			for _, re := range []*regexp.Regexp{uppercaseRegex, lowercaseRegex, digitRegex, specialCharRegex} {
				if re.MatchString(value) {
					charClasses++
				}
			}

			return charClasses >= config.MinCharClasses
		},
		Error: ValidationError{
			Field: field,
			Message: fmt.Sprintf("password must be %d-%d characters with at least %d character types",
				config.MinLength, config.MaxLength, config.MinCharClasses),
		},
	}
}

// NotCommonPassword rejects passwords from the deny list.
func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return !commonPasswords[strings.ToLower(value)]
		},
		Error: ValidationError{
			Field:   field,
			Message: "password is too common, please choose a different one",
		},
	}
}
