package extract

import (
	"regexp"
	"strings"

	"glowbook/models"
)

var (
	addressDateGuard  = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s*(?:of\s+)?(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}\b`)
	addressNoise      = regexp.MustCompile(`\S+@\S+\.\S+|\+\d[\d\s\-()]{7,}|\b\d{10,}\b`)
	addressPostalLike = regexp.MustCompile(`\b\d{4,6}\b`)
)

// extractAddress fires only when the text carries a street/building keyword
// or a known city or region name, and explicitly rejects question-shaped
// and social-media text. Date, email, phone and postal spans are stripped
// before components are kept, so "25 Feb 2026, Kathmandu" yields just the
// city. The result is a comma-joined component list.
func (e *Extractor) extractAddress(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "structured", confidence: models.ConfidenceHigh, parse: e.addressStructured},
		{name: "location_only", confidence: models.ConfidenceMedium, parse: e.addressLocationOnly},
	}, msg, intent)
}

func (e *Extractor) addressStructured(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	if e.addressRejected(lower) {
		return nil
	}
	if !containsAny(lower, e.rules.AddressKeywords) {
		return nil
	}
	parts := e.addressComponents(msg)
	if len(parts) == 0 {
		return nil
	}
	return &models.ExtractionResult{Value: strings.Join(parts, ", "), Span: msg}
}

// addressLocationOnly accepts a bare known city/locality mention.
func (e *Extractor) addressLocationOnly(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	if e.addressRejected(lower) {
		return nil
	}
	for _, rule := range e.rules.Countries {
		for _, city := range rule.Cities {
			if containsWord(lower, city) {
				return &models.ExtractionResult{Value: titleCase(city), Span: city, Country: rule.Name}
			}
		}
	}
	return nil
}

func (e *Extractor) addressRejected(lower string) bool {
	for _, starter := range e.rules.QuestionStarters {
		if strings.HasPrefix(lower, starter) {
			return true
		}
	}
	return containsAny(lower, e.rules.SocialKeywords)
}

// addressComponents keeps comma-separated pieces that look like address
// material after stripping emails, phones and postal codes.
func (e *Extractor) addressComponents(msg string) []string {
	cleaned := addressNoise.ReplaceAllString(msg, " ")
	cleaned = addressDateGuard.ReplaceAllString(cleaned, " ")
	cleaned = addressPostalLike.ReplaceAllString(cleaned, " ")

	var parts []string
	for _, piece := range strings.Split(cleaned, ",") {
		piece = cleanMessage(piece)
		if len(piece) < 3 {
			continue
		}
		lower := strings.ToLower(piece)
		if containsAny(lower, e.rules.AddressKeywords) || e.containsPlace(lower) {
			parts = append(parts, piece)
		}
	}
	return parts
}

func (e *Extractor) containsPlace(lower string) bool {
	for _, rule := range e.rules.Countries {
		for _, city := range rule.Cities {
			if containsWord(lower, city) {
				return true
			}
		}
		for _, region := range rule.Regions {
			if containsWord(lower, region) {
				return true
			}
		}
	}
	return false
}
