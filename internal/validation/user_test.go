package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "user_123", "UPPER_lower", strings.Repeat("a", 30)}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	invalid := []string{"", "ab", strings.Repeat("a", 31), "with space", "dash-ed", "dot.ted", "émile"}
	for _, u := range invalid {
		assert.Error(t, ValidateUsername(u), u)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.NoError(t, ValidateEmail("first.last+tag@sub.example.co"))

	for _, e := range []string{"", "plain", "@nouser.com", "user@", "user@nodot", "two@@ats.com", "sp ace@x.co"} {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Sup3r$ecurePassw0rd!"))

	tests := []struct {
		name     string
		password string
	}{
		{"too short", "Ab1$short"},
		{"too long", strings.Repeat("Ab1$", 40)},
		{"no upper", "lowercase1$password"},
		{"no lower", "UPPERCASE1$PASSWORD"},
		{"no digit", "NoDigits$Password"},
		{"no special", "NoSpecial1Password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidatePassword(tt.password))
		})
	}
}
