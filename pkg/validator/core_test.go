package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/backend/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("username", "jdoe"),
			validator.ValidEmail("email", "jdoe@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects all failures", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("username", " "),
			validator.ValidEmail("email", "nope"),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 2)
		assert.True(t, ve.Has("username"))
		assert.True(t, ve.Has("email"))
		assert.Equal(t, []string{"username", "email"}, ve.Fields())
	})

	t.Run("IsValidationError", func(t *testing.T) {
		t.Parallel()

		assert.False(t, validator.IsValidationError(nil))
		assert.False(t, validator.IsValidationError(assert.AnError))
		assert.True(t, validator.IsValidationError(validator.Apply(
			validator.RequiredString("x", ""),
		)))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"user@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "not-an-email", "user@", "@example.com", "user@localhost", "user@.com"}

	for _, email := range valid {
		assert.NoError(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}
	for _, email := range invalid {
		assert.Error(t, validator.Apply(validator.ValidEmail("email", email)), email)
	}
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	cfg := validator.DefaultPasswordStrength()

	assert.NoError(t, validator.Apply(validator.StrongPassword("password", "Secure123", cfg)))
	assert.NoError(t, validator.Apply(validator.StrongPassword("password", "lower-with-digits-1", cfg)))
	assert.Error(t, validator.Apply(validator.StrongPassword("password", "short1", cfg)), "too short")
	assert.Error(t, validator.Apply(validator.StrongPassword("password", "alllowercase", cfg)), "one class only")
}

func TestNotCommonPassword(t *testing.T) {
	t.Parallel()

	assert.Error(t, validator.Apply(validator.NotCommonPassword("password", "Password1")))
	assert.NoError(t, validator.Apply(validator.NotCommonPassword("password", "quite-uncommon-77")))
}

func TestOneOf(t *testing.T) {
	t.Parallel()

	roles := []string{"user", "artist", "admin"}
	assert.NoError(t, validator.Apply(validator.OneOf("role", "artist", roles)))
	assert.Error(t, validator.Apply(validator.OneOf("role", "superuser", roles)))
}
