package extract

import (
	"regexp"

	"glowbook/models"
)

var (
	explicitPostalPattern = regexp.MustCompile(`(?i)(?:pin\s*code|pincode|pin|postal\s*code|post\s*code|postcode|zip\s*code|zip)\s*[:\-]?\s*(\d{4,6})\b`)
	postalTokenPattern    = regexp.MustCompile(`\b(\d{4,6})\b`)
	yearLikePattern       = regexp.MustCompile(`^(?:19|20)\d{2}$`)
)

// extractPostal looks for a 4-6 digit token that is not sitting in phone-
// or date-like context, judged by a small character window around the
// match, and validates the digit length against the known or inferred
// country. With no country signal at all, length falls back to the
// configured defaults.
func (e *Extractor) extractPostal(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "explicit_indicator", confidence: models.ConfidenceHigh, parse: e.postalExplicit},
		{name: "token_in_context", parse: e.postalToken},
	}, msg, intent)
}

func (e *Extractor) postalExplicit(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	m := explicitPostalPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	code := m[1]
	if country := e.knownCountry(intent); country != "" && !e.postalLengthOK(code, country) {
		return nil
	}
	return &models.ExtractionResult{Value: code, Span: m[0], Country: e.countryForPostal(code, intent)}
}

func (e *Extractor) postalToken(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	country := e.knownCountry(intent)
	for _, loc := range postalTokenPattern.FindAllStringSubmatchIndex(msg, -1) {
		code := msg[loc[2]:loc[3]]
		if e.inPhoneOrDateContext(msg, loc[2], loc[3]) {
			continue
		}
		// A bare 4-digit token in year range is almost always a year from a
		// spelled-out date; only an explicit indicator can claim it.
		if yearLikePattern.MatchString(code) {
			continue
		}
		if country != "" {
			if e.postalLengthOK(code, country) {
				return &models.ExtractionResult{Value: code, Span: code, Country: country, Confidence: models.ConfidenceHigh}
			}
			continue
		}
		if inferred := e.countryForPostal(code, intent); inferred != "" {
			return &models.ExtractionResult{Value: code, Span: code, Country: inferred, Confidence: models.ConfidenceMedium}
		}
		return &models.ExtractionResult{Value: code, Span: code, Confidence: models.ConfidenceLow}
	}
	return nil
}

// inPhoneOrDateContext rejects tokens that are really a slice of a phone
// number ("98765 43210") or hug date separators ("25/12/2026"). The phone
// test merges digit groups connected only by spacing punctuation and
// compares the merged digit count against the token itself.
func (e *Extractor) inPhoneOrDateContext(msg string, start, end int) bool {
	runStart, runEnd := start, end
	for runStart > 0 && isPhoneByte(msg[runStart-1]) {
		runStart--
	}
	for runEnd < len(msg) && isPhoneByte(msg[runEnd]) {
		runEnd++
	}
	if runStart > 0 && msg[runStart-1] == '+' {
		return true
	}
	if len(digitsOnly(msg[runStart:runEnd])) > end-start {
		return true
	}
	if (start > 0 && (msg[start-1] == '/' || msg[start-1] == '-')) ||
		(end < len(msg) && (msg[end] == '/' || msg[end] == '-')) {
		return true
	}
	return false
}

func isPhoneByte(b byte) bool {
	return isDigitByte(b) || b == ' ' || b == '-' || b == '(' || b == ')'
}

func (e *Extractor) knownCountry(intent *models.IntentRecord) string {
	if intent == nil {
		return ""
	}
	if intent.ServiceCountry != "" {
		return intent.ServiceCountry
	}
	return intent.PhoneCountry
}

func (e *Extractor) postalLengthOK(code, country string) bool {
	rule, ok := e.rules.Countries.ByName(country)
	return ok && len(code) == rule.PostalLength
}

// countryForPostal resolves a country from the code length using the
// configured ambiguity defaults.
func (e *Extractor) countryForPostal(code string, intent *models.IntentRecord) string {
	if country := e.knownCountry(intent); country != "" && e.postalLengthOK(code, country) {
		return country
	}
	return e.rules.PostalCountryByLength[len(code)]
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }
