package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/models"
)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		want       string
		method     string
		confidence models.Confidence
	}{
		{
			name:       "explicit indicator",
			message:    "my email is Rupesh@Gmail.com",
			want:       "rupesh@gmail.com",
			method:     "explicit_indicator",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "known provider scores high",
			message:    "reach me on rupesh@gmail.com anytime",
			want:       "rupesh@gmail.com",
			method:     "pattern_match",
			confidence: models.ConfidenceHigh,
		},
		{
			name:       "unknown domain scores medium",
			message:    "contact rupesh@laligurans.com.np",
			want:       "rupesh@laligurans.com.np",
			method:     "pattern_match",
			confidence: models.ConfidenceMedium,
		},
		{
			name:       "spelled out address",
			message:    "it is rupesh at gmail dot com",
			want:       "rupesh@gmail.com",
			method:     "obfuscated",
			confidence: models.ConfidenceMedium,
		},
	}

	e := testExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Extract(models.FieldEmail, tt.message, models.NewIntentRecord())
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.method, res.Method)
			assert.Equal(t, tt.confidence, res.Confidence)
		})
	}
}

func TestExtractEmailRejectsDisposable(t *testing.T) {
	e := testExtractor()
	intent := models.NewIntentRecord()

	assert.Nil(t, e.Extract(models.FieldEmail, "use test@mailinator.com", intent))
	assert.Nil(t, e.Extract(models.FieldEmail, "x@tempmail.com is mine", intent))
	assert.Nil(t, e.Extract(models.FieldEmail, "no address present", intent))
}
