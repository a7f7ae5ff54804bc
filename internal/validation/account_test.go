package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM \n"))
}

func TestRegistration(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     string
		wantErr  string
	}{
		{"valid", " Bob@Example.com ", "correct horse", "bob@example.com", ""},
		{"missing email", "  ", "password123", "", MsgCredentialsRequired},
		{"missing password", "bob@example.com", "", "", MsgCredentialsRequired},
		{"no at sign", "bob.example.com", "password123", "", MsgEmailInvalid},
		{"no domain dot", "bob@example", "password123", "", MsgEmailInvalid},
		{"inner space", "bo b@example.com", "password123", "", MsgEmailInvalid},
		{"short password", "bob@example.com", "short", "", MsgPasswordShort},
		{"seven runes", "bob@example.com", "ééééééé", "", MsgPasswordShort},
		{"too long", "bob@example.com", strings.Repeat("x", 73), "", MsgPasswordLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Registration(tt.email, tt.password)
			if tt.wantErr != "" {
				requireInvalid(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
