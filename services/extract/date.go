package extract

import (
	"regexp"
	"strings"
	"time"

	"glowbook/models"
)

// Date patterns, most specific first. Month names are matched loosely as
// letter runs and resolved against the month table, which also covers
// Devanagari names.
var (
	isoDatePattern     = regexp.MustCompile(`\b(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})\b`)
	compactDatePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s*(?:of\s+)?([\p{L}]+)\.?\s*,?\s*(\d{4})\b`)
	monthFirstPattern  = regexp.MustCompile(`(?i)\b([\p{L}]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s*(\d{4})\b`)
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`)
	partialDatePattern = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s*(?:of\s+)?([\p{L}]+)\b`)
	monthDayPattern    = regexp.MustCompile(`(?i)\b([\p{L}]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	monthYearPattern   = regexp.MustCompile(`(?i)\b([\p{L}]+)\.?\s+(\d{4})\b`)
	weekdayPattern     = regexp.MustCompile(`(?i)\b(?:next|coming|this)\s+([a-z]+)\b`)
	gluedDatePattern   = regexp.MustCompile(`(?i)\b(\d{1,2})([a-z]{3,9})(\d{4})\b`)
)

// extractDate runs the ordered date strategies. The final past/future
// window rejection belongs to the validator; extraction only guards
// against wildly implausible years.
func (e *Extractor) extractDate(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	if !e.hasDateIndicators(msg) {
		return nil
	}
	return run([]strategy{
		{name: "iso", confidence: models.ConfidenceVeryHigh, parse: e.dateISO},
		{name: "day_month_year", confidence: models.ConfidenceHigh, parse: e.dateDayMonthYear},
		{name: "month_day_year", confidence: models.ConfidenceHigh, parse: e.dateMonthDayYear},
		{name: "numeric", confidence: models.ConfidenceMedium, parse: e.dateNumeric},
		{name: "relative", confidence: models.ConfidenceVeryHigh, parse: e.dateRelative},
		{name: "weekday", confidence: models.ConfidenceHigh, parse: e.dateWeekday},
		{name: "partial_no_year", confidence: models.ConfidenceMedium, parse: e.datePartial},
		{name: "month_year_only", confidence: models.ConfidenceLow, parse: e.dateMonthYear},
	}, msg, intent)
}

func (e *Extractor) dateISO(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := isoDatePattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	d, ok := e.makeDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
	if !ok {
		return nil
	}
	return &models.ExtractionResult{Value: iso(d), Span: m[0]}
}

// dateDayMonthYear covers "25 June 2026", "2feb2026", "15th of February 2026".
func (e *Extractor) dateDayMonthYear(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range compactDatePattern.FindAllStringSubmatch(msg, -1) {
		month, ok := e.month(m[2])
		if !ok {
			continue
		}
		d, ok := e.makeDate(atoi(m[3]), month, atoi(m[1]))
		if !ok {
			continue
		}
		return &models.ExtractionResult{Value: iso(d), Span: m[0]}
	}
	// Compact with no separators at all: "2feb2026".
	if m := gluedDatePattern.FindStringSubmatch(msg); m != nil {
		if month, ok := e.month(m[2]); ok {
			if d, ok := e.makeDate(atoi(m[3]), month, atoi(m[1])); ok {
				return &models.ExtractionResult{Value: iso(d), Span: m[0]}
			}
		}
	}
	return nil
}

func (e *Extractor) dateMonthDayYear(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range monthFirstPattern.FindAllStringSubmatch(msg, -1) {
		month, ok := e.month(m[1])
		if !ok {
			continue
		}
		d, ok := e.makeDate(atoi(m[3]), month, atoi(m[2]))
		if !ok {
			continue
		}
		return &models.ExtractionResult{Value: iso(d), Span: m[0]}
	}
	return nil
}

// dateNumeric parses DD/MM/YYYY, disambiguating against MM/DD/YYYY by
// trying day-first and falling back to the swapped order when only the
// swap is in range.
func (e *Extractor) dateNumeric(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range numericDatePattern.FindAllStringSubmatch(msg, -1) {
		first, second, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if d, ok := e.makeDate(year, time.Month(second), first); ok {
			return &models.ExtractionResult{Value: iso(d), Span: m[0]}
		}
		if d, ok := e.makeDate(year, time.Month(first), second); ok {
			return &models.ExtractionResult{Value: iso(d), Span: m[0]}
		}
	}
	return nil
}

func (e *Extractor) dateRelative(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	lower := strings.ToLower(msg)
	// Longest keywords first so "day after tomorrow" beats "tomorrow".
	best, bestLen := "", 0
	for kw := range e.rules.RelativeDays {
		if strings.Contains(lower, kw) && len(kw) > bestLen {
			best, bestLen = kw, len(kw)
		}
	}
	if best == "" {
		return nil
	}
	d := e.now().AddDate(0, 0, e.rules.RelativeDays[best])
	return &models.ExtractionResult{Value: iso(d), Span: best}
}

func (e *Extractor) dateWeekday(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := weekdayPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	wd, ok := e.rules.Weekdays[strings.ToLower(m[1])]
	if !ok {
		return nil
	}
	now := e.now()
	ahead := int(wd) - int(now.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return &models.ExtractionResult{Value: iso(now.AddDate(0, 0, ahead)), Span: m[0]}
}

// datePartial handles a day+month with no year ("2feb", "feb 2"). The year
// is assumed to be the next occurrence and the result is flagged so the
// engine can ask for, or accept, the year on a later turn.
func (e *Extractor) datePartial(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	type dm struct {
		day   int
		month time.Month
		span  string
	}
	var hit *dm
	if m := partialDatePattern.FindStringSubmatch(msg); m != nil {
		if month, ok := e.month(m[2]); ok {
			hit = &dm{day: atoi(m[1]), month: month, span: m[0]}
		}
	}
	if hit == nil {
		if m := monthDayPattern.FindStringSubmatch(msg); m != nil {
			if month, ok := e.month(m[1]); ok {
				hit = &dm{day: atoi(m[2]), month: month, span: m[0]}
			}
		}
	}
	if hit == nil {
		return nil
	}
	now := e.now()
	year := now.Year()
	d, ok := e.makeDate(year, hit.month, hit.day)
	if !ok {
		return nil
	}
	if d.Before(now.Truncate(24 * time.Hour)) {
		d2, ok := e.makeDate(year+1, hit.month, hit.day)
		if !ok {
			return nil
		}
		d = d2
	}
	return &models.ExtractionResult{Value: iso(d), Span: hit.span, NeedsYear: true}
}

// dateMonthYear handles "Feb 2026": the day is assumed to be the 1st.
func (e *Extractor) dateMonthYear(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	for _, m := range monthYearPattern.FindAllStringSubmatch(msg, -1) {
		month, ok := e.month(m[1])
		if !ok {
			continue
		}
		d, ok := e.makeDate(atoi(m[2]), month, 1)
		if !ok {
			continue
		}
		return &models.ExtractionResult{Value: iso(d), Span: m[0], NeedsDay: true}
	}
	return nil
}

// hasDateIndicators is a cheap guard so the heavier strategies only run on
// messages that plausibly contain a date.
func (e *Extractor) hasDateIndicators(msg string) bool {
	lower := strings.ToLower(msg)
	for kw := range e.rules.RelativeDays {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for name := range e.rules.Months {
		if strings.Contains(lower, name) {
			return true
		}
	}
	if isoDatePattern.MatchString(msg) || numericDatePattern.MatchString(msg) {
		return true
	}
	return weekdayPattern.MatchString(msg)
}

// month resolves a token to a month, accepting full names, three-letter
// abbreviations and Devanagari names.
func (e *Extractor) month(token string) (time.Month, bool) {
	lower := strings.ToLower(token)
	if m, ok := e.rules.Months[lower]; ok {
		return m, true
	}
	if len(lower) > 3 && lower[0] < 0x80 {
		if m, ok := e.rules.Months[lower[:3]]; ok {
			return m, true
		}
	}
	return 0, false
}

// makeDate builds a date and rejects day/month combinations that would
// roll over (so "31 Feb" fails instead of becoming March 3rd), along with
// years more than a decade away in either direction.
func (e *Extractor) makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if diff := year - e.now().Year(); diff < -10 || diff > 10 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func iso(t time.Time) string {
	return t.Format("2006-01-02")
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
