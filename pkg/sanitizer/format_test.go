package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melodia-app/backend/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  Jane.Doe@Example.COM  ", "jane.doe@example.com"},
		{"consecutive dots consolidated", "jane..doe@example.com", "jane.doe@example.com"},
		{"leading and trailing dots stripped", ".jane.@example.com", "jane@example.com"},
		{"invalid shape returned as is", "not-an-email", "not-an-email"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestUsername(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jdoe", sanitizer.Username("  JDoe "))
	assert.Equal(t, "jane.doe-1", sanitizer.Username("Jane.Doe-1"))
	assert.Equal(t, "janedoe", sanitizer.Username("jane doe!"))
}

func TestEmailLocalPart(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jdoe", sanitizer.EmailLocalPart("jdoe@mail.com"))
	assert.Equal(t, "no-at-sign", sanitizer.EmailLocalPart("no-at-sign"))
}
