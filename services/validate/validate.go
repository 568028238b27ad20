// Package validate canonicalizes and checks extracted field values before
// they are written into a booking intent. Validation is pure: a Validator
// holds only immutable reference data and a clock, so one instance serves
// all sessions concurrently.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"glowbook/models"
)

// ErrorKind names why a value was rejected, for prompt selection.
type ErrorKind string

const (
	ErrNone           ErrorKind = ""
	ErrEmptyValue     ErrorKind = "empty_value"
	ErrBadFormat      ErrorKind = "bad_format"
	ErrUnknownCountry ErrorKind = "unknown_country"
	ErrLengthMismatch ErrorKind = "length_mismatch"
	ErrPastDate       ErrorKind = "past_date"
	ErrTooFarAhead    ErrorKind = "too_far_ahead"
	ErrNotInCatalog   ErrorKind = "not_in_catalog"
)

// Result is the outcome of validating one field value. Canonical carries
// the normalized form and is only meaningful when Valid is true.
type Result struct {
	Valid     bool
	Canonical string
	Kind      ErrorKind
	// Country is populated for phone and postal checks when the value
	// resolved to a specific country rule.
	Country string
}

func ok(canonical, country string) Result {
	return Result{Valid: true, Canonical: canonical, Country: country}
}

func fail(kind ErrorKind) Result {
	return Result{Kind: kind}
}

// Validator checks field values against country rules and the catalog.
type Validator struct {
	countries models.CountryRules
	catalog   models.ServiceCatalog
	now       func() time.Time

	pastGrace     time.Duration
	maxYearsAhead int
}

// Option customizes a Validator.
type Option func(*Validator)

// WithClock fixes the reference time used by date checks.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New builds a Validator. Dates up to a day in the past are accepted to
// absorb timezone skew between the caller and the server.
func New(countries models.CountryRules, catalog models.ServiceCatalog, opts ...Option) *Validator {
	v := &Validator{
		countries:     countries,
		catalog:       catalog,
		now:           time.Now,
		pastGrace:     24 * time.Hour,
		maxYearsAhead: 10,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._%+\-]*@[a-z0-9.\-]+\.[a-z]{2,}$`)
	e164Pattern  = regexp.MustCompile(`^\+\d{8,15}$`)
)

// Check validates and canonicalizes one field value. hintCountry is the
// country already known on the intent, if any; phone and postal validation
// use it to resolve ambiguous values.
func (v *Validator) Check(kind models.FieldKind, value, hintCountry string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return fail(ErrEmptyValue)
	}
	switch kind {
	case models.FieldPhone:
		return v.checkPhone(value, hintCountry)
	case models.FieldEmail:
		return v.checkEmail(value)
	case models.FieldDate:
		return v.checkDate(value)
	case models.FieldName:
		return v.checkName(value)
	case models.FieldAddress:
		return ok(normalizeSpaces(value), "")
	case models.FieldPostalCode:
		return v.checkPostal(value, hintCountry)
	case models.FieldCountry:
		return v.checkCountry(value)
	case models.FieldService:
		return v.checkService(value)
	case models.FieldPackage:
		return v.checkPackage(value, hintCountry)
	}
	return fail(ErrBadFormat)
}

// checkPhone canonicalizes to +<dial><local>. A value with a dial code is
// checked against that country's rule; a bare local number is checked
// against the hint country when known.
func (v *Validator) checkPhone(value, hintCountry string) Result {
	digits := keepDigits(value)
	if digits == "" {
		return fail(ErrBadFormat)
	}
	if strings.HasPrefix(strings.TrimSpace(value), "+") || len(digits) > 10 {
		rule, found := v.countries.ByDialCode(digits)
		if !found {
			return fail(ErrUnknownCountry)
		}
		local := strings.TrimPrefix(digits, rule.DialCode)
		if !rule.LocalNumberOK(local) {
			return fail(ErrLengthMismatch)
		}
		canonical := "+" + rule.DialCode + local
		if !e164Pattern.MatchString(canonical) {
			return fail(ErrBadFormat)
		}
		return ok(canonical, rule.Name)
	}
	rule, found := v.countries.ByName(hintCountry)
	if !found {
		return fail(ErrUnknownCountry)
	}
	if !rule.LocalNumberOK(digits) {
		return fail(ErrLengthMismatch)
	}
	return ok("+"+rule.DialCode+digits, rule.Name)
}

func (v *Validator) checkEmail(value string) Result {
	lower := strings.ToLower(strings.TrimSpace(value))
	if !emailPattern.MatchString(lower) || strings.Contains(lower, "..") {
		return fail(ErrBadFormat)
	}
	return ok(lower, "")
}

// checkDate expects ISO yyyy-mm-dd from the extractor and bounds it to
// [now - grace, now + maxYearsAhead].
func (v *Validator) checkDate(value string) Result {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return fail(ErrBadFormat)
	}
	now := v.now()
	if t.Before(now.Add(-v.pastGrace)) {
		return fail(ErrPastDate)
	}
	if t.After(now.AddDate(v.maxYearsAhead, 0, 0)) {
		return fail(ErrTooFarAhead)
	}
	return ok(t.Format("2006-01-02"), "")
}

func (v *Validator) checkName(value string) Result {
	name := normalizeSpaces(value)
	if len(name) < 2 || keepDigits(name) != "" {
		return fail(ErrBadFormat)
	}
	return ok(titleCase(name), "")
}

func (v *Validator) checkPostal(value, hintCountry string) Result {
	digits := keepDigits(value)
	if digits == "" {
		return fail(ErrBadFormat)
	}
	if rule, found := v.countries.ByName(hintCountry); found {
		if rule.PostalLength != 0 && len(digits) != rule.PostalLength {
			return fail(ErrLengthMismatch)
		}
		return ok(digits, rule.Name)
	}
	if rule, found := v.countries.ByPostalLength(len(digits)); found {
		return ok(digits, rule.Name)
	}
	return fail(ErrLengthMismatch)
}

func (v *Validator) checkCountry(value string) Result {
	rule, found := v.countries.ByName(normalizeSpaces(value))
	if !found {
		return fail(ErrUnknownCountry)
	}
	return ok(rule.Name, rule.Name)
}

func (v *Validator) checkService(value string) Result {
	if svc, found := v.catalog.Find(value); found {
		return ok(svc.Name, "")
	}
	if svc, found := v.catalog.MatchKeyword(value); found {
		return ok(svc.Name, "")
	}
	return fail(ErrNotInCatalog)
}

// checkPackage resolves a package within the service named by hint; with no
// hint it searches the whole catalog.
func (v *Validator) checkPackage(value, serviceHint string) Result {
	services := v.catalog.Services
	if svc, found := v.catalog.Find(serviceHint); found {
		services = []models.Service{svc}
	}
	for _, svc := range services {
		for _, pkg := range svc.Packages {
			if strings.EqualFold(pkg.Name, strings.TrimSpace(value)) {
				return ok(pkg.Name, "")
			}
		}
	}
	return fail(ErrNotInCatalog)
}

// Describe renders a short user-facing reason for a rejection.
func Describe(kind models.FieldKind, res Result) string {
	label := kind.String()
	switch res.Kind {
	case ErrPastDate:
		return "that date is in the past"
	case ErrTooFarAhead:
		return "that date is too far in the future"
	case ErrLengthMismatch:
		return fmt.Sprintf("that %s does not look right for the country", label)
	case ErrUnknownCountry:
		return "we could not work out the country for that value"
	case ErrNotInCatalog:
		return fmt.Sprintf("that %s is not one we offer", label)
	default:
		return fmt.Sprintf("that %s does not look valid", label)
	}
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
