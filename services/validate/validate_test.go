package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"glowbook/config"
	"glowbook/models"
)

func testValidator() *Validator {
	return New(
		config.DefaultCountryRules(),
		config.DefaultCatalog(),
		WithClock(func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }),
	)
}

func TestCheckPhone(t *testing.T) {
	v := testValidator()
	tests := []struct {
		name      string
		value     string
		hint      string
		canonical string
		country   string
		kind      ErrorKind
	}{
		{name: "dial prefix with punctuation", value: "+91 98765-43210", canonical: "+919876543210", country: "India"},
		{name: "nepal dial prefix", value: "+977 9812345678", canonical: "+9779812345678", country: "Nepal"},
		{name: "bare local with hint", value: "9876543210", hint: "India", canonical: "+919876543210", country: "India"},
		{name: "bare local without hint", value: "9876543210", kind: ErrUnknownCountry},
		{name: "unsupported dial code", value: "+1 2025550123", kind: ErrUnknownCountry},
		{name: "wrong local length", value: "+91 12345", kind: ErrLengthMismatch},
		{name: "wrong leading digit", value: "+91 5876543210", kind: ErrLengthMismatch},
		{name: "no digits", value: "call me", kind: ErrBadFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Check(models.FieldPhone, tt.value, tt.hint)
			if tt.kind != ErrNone {
				assert.False(t, res.Valid)
				assert.Equal(t, tt.kind, res.Kind)
				return
			}
			assert.True(t, res.Valid)
			assert.Equal(t, tt.canonical, res.Canonical)
			assert.Equal(t, tt.country, res.Country)
		})
	}
}

func TestCheckEmail(t *testing.T) {
	v := testValidator()

	res := v.Check(models.FieldEmail, "Rupesh@Gmail.COM", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "rupesh@gmail.com", res.Canonical)

	for _, bad := range []string{"not-an-email", "a@b", "a..b@gmail.com", "@gmail.com"} {
		res := v.Check(models.FieldEmail, bad, "")
		assert.False(t, res.Valid, bad)
		assert.Equal(t, ErrBadFormat, res.Kind, bad)
	}
}

func TestCheckDate(t *testing.T) {
	v := testValidator()
	tests := []struct {
		name  string
		value string
		kind  ErrorKind
	}{
		{name: "in window", value: "2026-02-25"},
		{name: "same day within grace", value: "2026-01-15"},
		{name: "past", value: "2026-01-13", kind: ErrPastDate},
		{name: "too far ahead", value: "2040-01-01", kind: ErrTooFarAhead},
		{name: "not iso", value: "25 Feb 2026", kind: ErrBadFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Check(models.FieldDate, tt.value, "")
			if tt.kind != ErrNone {
				assert.False(t, res.Valid)
				assert.Equal(t, tt.kind, res.Kind)
				return
			}
			assert.True(t, res.Valid)
			assert.Equal(t, tt.value, res.Canonical)
		})
	}
}

func TestCheckName(t *testing.T) {
	v := testValidator()

	res := v.Check(models.FieldName, "  rupesh   poudel ", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "Rupesh Poudel", res.Canonical)

	assert.Equal(t, ErrBadFormat, v.Check(models.FieldName, "r", "").Kind)
	assert.Equal(t, ErrBadFormat, v.Check(models.FieldName, "r2d2", "").Kind)
	assert.Equal(t, ErrEmptyValue, v.Check(models.FieldName, "   ", "").Kind)
}

func TestCheckPostal(t *testing.T) {
	v := testValidator()

	res := v.Check(models.FieldPostalCode, "44600", "Nepal")
	assert.True(t, res.Valid)
	assert.Equal(t, "44600", res.Canonical)
	assert.Equal(t, "Nepal", res.Country)

	assert.Equal(t, ErrLengthMismatch, v.Check(models.FieldPostalCode, "44600", "India").Kind)

	// No hint: resolve by length, declaration order first.
	res = v.Check(models.FieldPostalCode, "110001", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "India", res.Country)

	res = v.Check(models.FieldPostalCode, "44600", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "Nepal", res.Country)

	assert.Equal(t, ErrLengthMismatch, v.Check(models.FieldPostalCode, "123", "").Kind)
}

func TestCheckCountry(t *testing.T) {
	v := testValidator()

	res := v.Check(models.FieldCountry, "nepal", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "Nepal", res.Canonical)

	assert.Equal(t, ErrUnknownCountry, v.Check(models.FieldCountry, "Germany", "").Kind)
}

func TestCheckServiceAndPackage(t *testing.T) {
	v := testValidator()

	res := v.Check(models.FieldService, "Bridal Makeup Services", "")
	assert.True(t, res.Valid)

	res = v.Check(models.FieldService, "i want bridal makeup", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "Bridal Makeup Services", res.Canonical)

	assert.Equal(t, ErrNotInCatalog, v.Check(models.FieldService, "tattoo", "").Kind)

	res = v.Check(models.FieldPackage, "Luxury Bridal Makeup (HD / Brush)", "Bridal Makeup Services")
	assert.True(t, res.Valid)

	// Without a service hint the whole catalog is searched.
	res = v.Check(models.FieldPackage, "party makeup by lead artist", "")
	assert.True(t, res.Valid)
	assert.Equal(t, "Party Makeup by Lead Artist", res.Canonical)

	assert.Equal(t, ErrNotInCatalog, v.Check(models.FieldPackage, "Gold", "Bridal Makeup Services").Kind)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "that date is in the past", Describe(models.FieldDate, fail(ErrPastDate)))
	assert.Equal(t, "that phone does not look right for the country", Describe(models.FieldPhone, fail(ErrLengthMismatch)))
	assert.Equal(t, "that email does not look valid", Describe(models.FieldEmail, fail(ErrBadFormat)))
}
