package extract

import (
	"regexp"

	"glowbook/models"
)

var (
	dialPrefixPattern = regexp.MustCompile(`\+\s*(\d{1,4})[\s\-.]?((?:\d[\s\-.()]?){6,14}\d)`)
	bareIntlPattern   = regexp.MustCompile(`\b(\d{11,14})\b`)
	bareLocalPattern  = regexp.MustCompile(`\b(\d{10})\b`)
)

// extractPhone tries, in order: an explicit +<dial> prefix (the only way to
// reach very_high confidence), a bare digit run that starts with a known
// dial code, and finally a bare 10-digit local number with a regionally
// valid leading digit, accepted only at low confidence against the default
// country. A dial-code hit also carries the country, which the engine uses
// to seed phone_country and, if unset, service_country.
func (e *Extractor) extractPhone(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "dial_prefix", confidence: models.ConfidenceVeryHigh, parse: e.phoneWithDialPrefix},
		{name: "bare_dial_code", confidence: models.ConfidenceMedium, parse: e.phoneWithBareDialCode},
		{name: "bare_local", confidence: models.ConfidenceLow, parse: e.phoneBareLocal},
	}, msg, intent)
}

func (e *Extractor) phoneWithDialPrefix(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := dialPrefixPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	digits := digitsOnly(m[1] + m[2])
	rule, ok := e.rules.Countries.ByDialCode(digits)
	if !ok {
		return nil
	}
	local := digits[len(rule.DialCode):]
	if !rule.LocalNumberOK(local) {
		return nil
	}
	return &models.ExtractionResult{
		Value:    "+" + rule.DialCode + local,
		Span:     m[0],
		Country:  rule.Name,
		DialCode: rule.DialCode,
	}
}

func (e *Extractor) phoneWithBareDialCode(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range bareIntlPattern.FindAllStringSubmatch(msg, -1) {
		digits := m[1]
		rule, ok := e.rules.Countries.ByDialCode(digits)
		if !ok {
			continue
		}
		local := digits[len(rule.DialCode):]
		if !rule.LocalNumberOK(local) {
			continue
		}
		return &models.ExtractionResult{
			Value:    "+" + rule.DialCode + local,
			Span:     m[0],
			Country:  rule.Name,
			DialCode: rule.DialCode,
		}
	}
	return nil
}

func (e *Extractor) phoneBareLocal(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	rule, ok := e.rules.Countries.ByName(e.rules.DefaultPhoneCountry)
	if !ok {
		return nil
	}
	for _, m := range bareLocalPattern.FindAllStringSubmatch(msg, -1) {
		local := m[1]
		if !rule.LocalNumberOK(local) {
			continue
		}
		return &models.ExtractionResult{
			Value:    "+" + rule.DialCode + local,
			Span:     m[0],
			Country:  rule.Name,
			DialCode: rule.DialCode,
		}
	}
	return nil
}
