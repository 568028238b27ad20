// Package extract turns free-form chat text into typed, confidence-ranked
// candidate field values. Every extractor is an ordered list of strategies
// tried from highest to lowest confidence; the first strategy that matches
// and passes its local sanity check wins. Extractors are pure over
// (text, intent snapshot) and never mutate the intent; the dialogue engine
// applies results after validation.
package extract

import (
	"regexp"
	"strings"
	"time"

	"glowbook/models"
)

// Extractor runs the per-field strategy pipelines against a rule set and
// catalog fixed at construction time.
type Extractor struct {
	rules   Rules
	catalog models.ServiceCatalog
	now     func() time.Time
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithClock fixes the reference time used by date strategies.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New builds an Extractor over immutable rules and catalog.
func New(rules Rules, catalog models.ServiceCatalog, opts ...Option) *Extractor {
	e := &Extractor{rules: rules, catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// strategy is one (name, confidence, parser) step of a field pipeline.
// Precedence is the slice order, not control flow.
type strategy struct {
	name       string
	confidence models.Confidence
	parse      func(msg string, intent *models.IntentRecord) *models.ExtractionResult
}

// run evaluates strategies in order and returns the first hit, stamping
// method and confidence unless the parser already chose them.
func run(strategies []strategy, msg string, intent *models.IntentRecord) *models.ExtractionResult {
	for _, s := range strategies {
		res := s.parse(msg, intent)
		if res == nil {
			continue
		}
		if res.Method == "" {
			res.Method = s.name
		}
		if res.Confidence == 0 && s.confidence != 0 {
			res.Confidence = s.confidence
		}
		return res
	}
	return nil
}

// extractedFields is the set ExtractAll covers; service and package are
// resolved by the selection handlers against the last shown list instead.
var extractedFields = []models.FieldKind{
	models.FieldPhone,
	models.FieldEmail,
	models.FieldDate,
	models.FieldName,
	models.FieldAddress,
	models.FieldPostalCode,
	models.FieldCountry,
}

// ExtractAll runs every field extractor independently over the message.
// Deterministic for a fixed clock: calling it twice with the same text and
// intent snapshot yields identical results.
func (e *Extractor) ExtractAll(text string, intent *models.IntentRecord) map[models.FieldKind]models.ExtractionResult {
	out := make(map[models.FieldKind]models.ExtractionResult)
	for _, kind := range extractedFields {
		if res := e.Extract(kind, text, intent); res != nil {
			out[kind] = *res
		}
	}
	return out
}

// Extract runs the pipeline for a single field kind. A nil result means no
// strategy matched; that is an ordinary outcome, not an error.
func (e *Extractor) Extract(kind models.FieldKind, text string, intent *models.IntentRecord) *models.ExtractionResult {
	msg := cleanMessage(text)
	switch kind {
	case models.FieldPhone:
		return e.extractPhone(msg, intent)
	case models.FieldEmail:
		return e.extractEmail(msg, intent)
	case models.FieldDate:
		return e.extractDate(msg, intent)
	case models.FieldName:
		return e.extractName(msg, intent)
	case models.FieldAddress:
		return e.extractAddress(msg, intent)
	case models.FieldPostalCode:
		return e.extractPostal(msg, intent)
	case models.FieldCountry:
		return e.extractCountry(msg, intent)
	case models.FieldService, models.FieldPackage:
		return nil
	}
	return nil
}

var spaceRun = regexp.MustCompile(`\s+`)

func cleanMessage(msg string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(msg, " "))
}

// containsWord matches kw against msg with word boundaries for single
// tokens and plain substring match for multi-word phrases.
func containsWord(msg, kw string) bool {
	if strings.ContainsRune(kw, ' ') {
		return strings.Contains(msg, kw)
	}
	for _, tok := range strings.FieldsFunc(msg, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '?' || r == '!' || r == ';' || r == ':'
	}) {
		if tok == kw {
			return true
		}
	}
	return false
}

func containsAny(msg string, kws []string) bool {
	for _, kw := range kws {
		if containsWord(msg, kw) {
			return true
		}
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
