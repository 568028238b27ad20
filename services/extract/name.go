package extract

import (
	"regexp"
	"strings"

	"glowbook/models"
)

var (
	explicitNamePattern = regexp.MustCompile(`(?i)(?:my\s+name\s+(?:is|:)|name\s*[:\-]|i\s+am|i'm|this\s+is)\s+([\p{L}]+(?:\s+[\p{L}]+){0,3})`)
	capitalizedSeq      = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)
	singleCapitalized   = regexp.MustCompile(`\b([A-Z][a-z]{2,})\b`)
	digitPattern        = regexp.MustCompile(`\d`)
)

// extractName prefers explicit "my name is X" phrasing, then a title
// ("Mr. X Y"), then a 2-4 word capitalized sequence, and finally a single
// capitalized token for short messages. Candidates containing digits,
// catalog vocabulary, question starters or gazetteer place names are
// rejected at every stage.
func (e *Extractor) extractName(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "explicit", confidence: models.ConfidenceHigh, parse: e.nameExplicit},
		{name: "with_title", confidence: models.ConfidenceHigh, parse: e.nameWithTitle},
		{name: "capitalized_words", confidence: models.ConfidenceMedium, parse: e.nameCapitalized},
		{name: "single_token", confidence: models.ConfidenceLow, parse: e.nameSingleToken},
	}, msg, intent)
}

func (e *Extractor) nameExplicit(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := explicitNamePattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	candidate := strings.TrimSpace(m[1])
	if !e.nameAcceptable(candidate) {
		return nil
	}
	return &models.ExtractionResult{Value: titleCase(candidate), Span: m[0]}
}

func (e *Extractor) nameWithTitle(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	for _, title := range e.rules.Titles {
		idx := indexWord(lower, title)
		if idx < 0 {
			continue
		}
		rest := msg[idx+len(title):]
		rest = strings.TrimLeft(rest, ". ")
		m := capitalizedSeq.FindStringSubmatch(rest)
		if m == nil || !e.nameAcceptable(m[1]) {
			continue
		}
		return &models.ExtractionResult{Value: titleCase(m[1]), Span: title + " " + m[1]}
	}
	return nil
}

func (e *Extractor) nameCapitalized(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range capitalizedSeq.FindAllStringSubmatch(msg, -1) {
		if e.nameAcceptable(m[1]) {
			return &models.ExtractionResult{Value: titleCase(m[1]), Span: m[1]}
		}
	}
	return nil
}

// nameSingleToken only fires on short messages, where a lone capitalized
// word is plausibly an answer to "what is your name".
func (e *Extractor) nameSingleToken(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	if len(strings.Fields(msg)) > 3 {
		return nil
	}
	for _, m := range singleCapitalized.FindAllStringSubmatch(msg, -1) {
		if e.nameAcceptable(m[1]) {
			return &models.ExtractionResult{Value: titleCase(m[1]), Span: m[1]}
		}
	}
	return nil
}

func (e *Extractor) nameAcceptable(candidate string) bool {
	if candidate == "" || digitPattern.MatchString(candidate) {
		return false
	}
	lower := strings.ToLower(candidate)
	for _, starter := range e.rules.QuestionStarters {
		if strings.HasPrefix(lower, starter) {
			return false
		}
	}
	for _, word := range strings.Fields(lower) {
		for _, stop := range e.rules.NameStopwords {
			if word == stop {
				return false
			}
		}
		if _, isMonth := e.rules.Months[word]; isMonth {
			return false
		}
		if e.isPlaceName(word) {
			return false
		}
	}
	// Country names are places too.
	for _, rule := range e.rules.Countries {
		for _, kw := range rule.Keywords {
			if containsWord(lower, kw) {
				return false
			}
		}
	}
	return true
}

func (e *Extractor) isPlaceName(word string) bool {
	for _, rule := range e.rules.Countries {
		for _, city := range rule.Cities {
			if word == city {
				return true
			}
		}
		for _, region := range rule.Regions {
			if word == region {
				return true
			}
		}
	}
	return false
}

func indexWord(s, word string) int {
	idx := strings.Index(s, word)
	for idx >= 0 {
		beforeOK := idx == 0 || s[idx-1] == ' '
		after := idx + len(word)
		afterOK := after >= len(s) || s[after] == ' ' || s[after] == '.'
		if beforeOK && afterOK {
			return idx
		}
		next := strings.Index(s[idx+1:], word)
		if next < 0 {
			return -1
		}
		idx += 1 + next
	}
	return -1
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
