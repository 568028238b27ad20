package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/models"
)

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		want       string
		country    string
		method     string
		confidence models.Confidence
	}{
		{
			name:       "india with dial prefix",
			message:    "call me at +91 98765 43210",
			want:       "+919876543210",
			country:    "India",
			method:     "dial_prefix",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "nepal with dial prefix",
			message:    "+977 9812345678",
			want:       "+9779812345678",
			country:    "Nepal",
			method:     "dial_prefix",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "pakistan with dial prefix",
			message:    "+92 300 1234567",
			want:       "+923001234567",
			country:    "Pakistan",
			method:     "dial_prefix",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "bangladesh with dial prefix",
			message:    "+880 1712-345678",
			want:       "+8801712345678",
			country:    "Bangladesh",
			method:     "dial_prefix",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "uae nine digit local",
			message:    "+971 50 123 4567",
			want:       "+971501234567",
			country:    "UAE",
			method:     "dial_prefix",
			confidence: models.ConfidenceVeryHigh,
		},
		{
			name:       "bare digits with dial code",
			message:    "whatsapp 919876543210",
			want:       "+919876543210",
			country:    "India",
			method:     "bare_dial_code",
			confidence: models.ConfidenceMedium,
		},
		{
			name:       "bare local defaults to india",
			message:    "9876543210",
			want:       "+919876543210",
			country:    "India",
			method:     "bare_local",
			confidence: models.ConfidenceLow,
		},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Extract(models.FieldPhone, tt.message, models.NewIntentRecord())
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.country, res.Country)
			assert.Equal(t, tt.method, res.Method)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestExtractPhoneRejectsInvalid(t *testing.T) {
	e := testExtractor()
	intent := models.NewIntentRecord()

	// Indian mobiles start 6-9; a 10-digit run leading with 5 is noise.
	assert.Nil(t, e.Extract(models.FieldPhone, "+91 5876543210", intent))
	assert.Nil(t, e.Extract(models.FieldPhone, "ref 12345", intent))
	assert.Nil(t, e.Extract(models.FieldPhone, "no number here", intent))
}
