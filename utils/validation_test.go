package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+91 98765-43210"))
	assert.True(t, ValidatePhone("(987) 654.3210"))
	assert.False(t, ValidatePhone("0123456"))
	assert.False(t, ValidatePhone("phone"))
	assert.False(t, ValidatePhone(""))
}

func TestNormalizeWhatsAppNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"local ten digits", "9876543210", "whatsapp:+919876543210"},
		{"leading zero", "09876543210", "whatsapp:+919876543210"},
		{"country code without plus", "919876543210", "whatsapp:+919876543210"},
		{"international with spaces", "+91 98765 43210", "whatsapp:+919876543210"},
		{"already prefixed", "whatsapp:+14155238886", "whatsapp:+14155238886"},
		{"prefixed without plus", "whatsapp:14155238886", "whatsapp:+14155238886"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWhatsAppNumber(tt.raw, "91")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeWhatsAppNumberRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "12345", "+1234", "call me", "whatsapp:abc"} {
		_, err := NormalizeWhatsAppNumber(raw, "91")
		assert.ErrorIs(t, err, ErrInvalidPhone, raw)
	}
}
