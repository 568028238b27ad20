package dialogue

import (
	"regexp"
	"strings"

	"glowbook/models"
)

// alreadyProvidedPhrases trigger a re-scan of recent history for fields the
// user insists they already gave.
var alreadyProvidedPhrases = []string{
	"already gave", "already told", "already provided", "already sent",
	"already shared", "i gave you", "i told you", "i sent you",
	"gave it already", "told you already", "check again", "look again",
}

// completionPhrases let the user assert everything needed has been supplied;
// the engine then re-checks completeness instead of asking again.
var completionPhrases = []string{
	"that's all", "thats all", "that is all", "that's everything",
	"nothing else", "done", "all details given", "i have given everything",
}

// cancellationPhrases abort the booking and return to greeting.
var cancellationPhrases = []string{
	"cancel", "cancel booking", "start over", "restart", "never mind",
	"nevermind", "forget it", "stop booking", "abort",
}

var bareYearPattern = regexp.MustCompile(`^(20\d{2})$`)

func matchesPhrase(msg string, phrases []string) bool {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, p := range phrases {
		if lower == p || strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// completeYear finishes a date that was captured without a year. When the
// previous turn flagged the date and this turn is a bare year, the stored
// date's year is rewritten and the flag cleared. Reports whether it acted.
func (f *FSM) completeYear(intent *models.IntentRecord, message string) bool {
	if intent.Meta(models.MetaNeedsYear) != "true" || intent.EventDate == "" {
		return false
	}
	m := bareYearPattern.FindStringSubmatch(strings.TrimSpace(message))
	if m == nil {
		return false
	}
	// EventDate is ISO by construction; swap the year component.
	parts := strings.SplitN(intent.EventDate, "-", 2)
	if len(parts) != 2 {
		return false
	}
	candidate := m[1] + "-" + parts[1]
	res := f.validator.Check(models.FieldDate, candidate, "")
	if !res.Valid {
		return false
	}
	intent.Apply(models.FieldDate, res.Canonical, true)
	intent.ClearMeta(models.MetaNeedsYear)
	return true
}

// recoverFromHistory re-runs extraction over the most recent user turns for
// fields still missing. Only empty fields are considered; values already on
// the record are never overwritten by recovery.
func (f *FSM) recoverFromHistory(mem *models.ConversationMemory) []models.FieldKind {
	var recovered []models.FieldKind
	turns := mem.RecentUserTurns(f.historyWindow)
	for _, kind := range models.RequiredFields() {
		if kind == models.FieldService || kind == models.FieldPackage {
			continue
		}
		if mem.Intent.FieldValue(kind) != "" {
			continue
		}
		for _, turn := range turns {
			res := f.extractor.Extract(kind, turn, mem.Intent)
			if res == nil {
				continue
			}
			if f.applyExtraction(mem.Intent, kind, res) {
				recovered = append(recovered, kind)
				break
			}
		}
	}
	return recovered
}
