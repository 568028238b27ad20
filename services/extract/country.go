package extract

import (
	"strings"

	"glowbook/models"
)

// extractCountry resolves the service country: direct keyword first, then
// gazetteer scoring (city hits weigh 2, region hits 1, ties broken by rule
// declaration order), then the dial code of an already-extracted phone,
// then postal-code length as a last-resort heuristic.
func (e *Extractor) extractCountry(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "direct_keyword", confidence: models.ConfidenceVeryHigh, parse: e.countryDirect},
		{name: "gazetteer_score", confidence: models.ConfidenceHigh, parse: e.countryGazetteer},
		{name: "phone_dial_code", confidence: models.ConfidenceHigh, parse: e.countryFromPhone},
		{name: "postal_length", confidence: models.ConfidenceLow, parse: e.countryFromPostal},
	}, msg, intent)
}

func (e *Extractor) countryDirect(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	for _, rule := range e.rules.Countries {
		for _, kw := range rule.Keywords {
			if containsWord(lower, kw) {
				return &models.ExtractionResult{Value: rule.Name, Span: kw}
			}
		}
	}
	return nil
}

func (e *Extractor) countryGazetteer(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	bestScore := 0
	var best *models.CountryRule
	var bestSpan string
	for i := range e.rules.Countries {
		rule := &e.rules.Countries[i]
		score := 0
		span := ""
		for _, city := range rule.Cities {
			if containsWord(lower, city) {
				score += 2
				if span == "" {
					span = city
				}
			}
		}
		for _, region := range rule.Regions {
			if containsWord(lower, region) {
				score++
				if span == "" {
					span = region
				}
			}
		}
		// Strictly-greater keeps the earlier rule on ties.
		if score > bestScore {
			bestScore, best, bestSpan = score, rule, span
		}
	}
	if best == nil {
		return nil
	}
	return &models.ExtractionResult{Value: best.Name, Span: bestSpan}
}

func (e *Extractor) countryFromPhone(_ string, intent *models.IntentRecord) *models.ExtractionResult {
	if intent == nil || !strings.HasPrefix(intent.Phone, "+") {
		return nil
	}
	rule, ok := e.rules.Countries.ByDialCode(strings.TrimPrefix(intent.Phone, "+"))
	if !ok {
		return nil
	}
	return &models.ExtractionResult{Value: rule.Name, Span: intent.Phone, DialCode: rule.DialCode}
}

func (e *Extractor) countryFromPostal(_ string, intent *models.IntentRecord) *models.ExtractionResult {
	if intent == nil || intent.PostalCode == "" {
		return nil
	}
	country := e.rules.PostalCountryByLength[len(intent.PostalCode)]
	if country == "" {
		return nil
	}
	return &models.ExtractionResult{Value: country, Span: intent.PostalCode}
}
