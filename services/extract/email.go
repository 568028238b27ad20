package extract

import (
	"regexp"
	"strings"

	"glowbook/models"
)

var (
	explicitEmailPattern = regexp.MustCompile(`(?i)(?:e-?mail|mail)\s*(?:is|:|-)?\s*([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	emailPattern         = regexp.MustCompile(`\b[a-zA-Z0-9][a-zA-Z0-9._%+\-]*@[a-zA-Z0-9][a-zA-Z0-9.\-]*\.[a-zA-Z]{2,}\b`)
	obfuscatedPattern    = regexp.MustCompile(`(?i)\b([a-zA-Z0-9._\-]+)\s+at\s+([a-zA-Z0-9\-]+)\s+dot\s+([a-zA-Z]{2,10})\b`)
	tldPattern           = regexp.MustCompile(`\.([a-zA-Z]{2,10})$`)
)

// extractEmail tries an explicit "email: x@y" indicator, then a plain
// dotted-atom match scored by the provider reputation table, then the
// reconstruction of spelled-out " at " / " dot " addresses. Disposable and
// test domains are rejected at every stage.
func (e *Extractor) extractEmail(msg string, intent *models.IntentRecord) *models.ExtractionResult {
	return run([]strategy{
		{name: "explicit_indicator", confidence: models.ConfidenceHigh, parse: e.emailExplicit},
		{name: "pattern_match", parse: e.emailStandard},
		{name: "obfuscated", confidence: models.ConfidenceMedium, parse: e.emailObfuscated},
	}, msg, intent)
}

func (e *Extractor) emailExplicit(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := explicitEmailPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	email := strings.ToLower(m[1])
	if !e.emailAcceptable(email) {
		return nil
	}
	return &models.ExtractionResult{Value: email, Span: m[0]}
}

func (e *Extractor) emailStandard(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	best := ""
	bestConf := models.ConfidenceLow
	for _, candidate := range emailPattern.FindAllString(msg, -1) {
		email := strings.ToLower(candidate)
		if !e.emailAcceptable(email) {
			continue
		}
		conf := e.providerConfidence(email)
		if best == "" || conf > bestConf {
			best, bestConf = email, conf
		}
	}
	if best == "" {
		return nil
	}
	return &models.ExtractionResult{Value: best, Span: best, Confidence: bestConf}
}

func (e *Extractor) emailObfuscated(msg string, _ *models.IntentRecord) *models.ExtractionResult {
	m := obfuscatedPattern.FindStringSubmatch(msg)
	if m == nil {
		return nil
	}
	email := strings.ToLower(m[1] + "@" + m[2] + "." + m[3])
	if !e.emailAcceptable(email) {
		return nil
	}
	return &models.ExtractionResult{Value: email, Span: m[0]}
}

// emailAcceptable applies the local sanity checks shared by all strategies.
func (e *Extractor) emailAcceptable(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	local, domain := email[:at], email[at+1:]
	if strings.Contains(email, "..") || strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return false
	}
	for _, rejected := range e.rules.RejectedDomains {
		if domain == rejected || strings.HasSuffix(domain, "."+rejected) {
			return false
		}
	}
	m := tldPattern.FindStringSubmatch(domain)
	if m == nil {
		return false
	}
	return true
}

// providerConfidence scores by the reputation table: a known provider gets
// its listed grade, anything else medium on the strength of the match alone.
func (e *Extractor) providerConfidence(email string) models.Confidence {
	domain := email[strings.LastIndex(email, "@")+1:]
	if conf, ok := e.rules.ProviderConfidence[domain]; ok {
		return conf
	}
	return models.ConfidenceMedium
}
