// Package dialogue is the pure conversational core: a state machine that
// turns (session memory, user message) into a next state plus a structured
// outcome. It performs no I/O (OTP delivery, persistence and reply
// rendering are the orchestrator's job), so a single FSM instance is safe
// for concurrent use across sessions.
package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"glowbook/models"
	"glowbook/services/extract"
	"glowbook/services/validate"
)

// Action tells the orchestrator what side effect this turn requires.
type Action string

const (
	ActionNone      Action = ""
	ActionSendOTP   Action = "send_otp"
	ActionVerifyOTP Action = "verify_otp"
	ActionResendOTP Action = "resend_otp"
)

// Outcome is everything one turn produced. The prompt renderer maps it to
// reply text; the orchestrator maps Action to side effects.
type Outcome struct {
	NextState models.ConversationState
	Action    Action

	// Understood is false when the message produced no usable signal and
	// the engine should re-prompt for the current stage.
	Understood bool

	// Collected lists fields newly written this turn; Recovered lists
	// fields back-filled from conversation history.
	Collected []models.FieldKind
	Recovered []models.FieldKind

	// FieldErrors carries per-field rejection descriptions for values that
	// were extracted but failed validation.
	FieldErrors map[models.FieldKind]string

	Missing []string
	Summary map[string]string

	// Shown is the numbered list displayed this turn, to be snapshotted
	// into the session for later numeric selection.
	Shown *models.ShownList

	// OTPInput is the code the user typed, set with ActionVerifyOTP.
	OTPInput string

	// Cancelled marks an explicit booking abort; the engine has already
	// reset the intent.
	Cancelled bool
}

var (
	numericChoice = regexp.MustCompile(`^\s*(\d{1,2})\s*$`)
	otpCode       = regexp.MustCompile(`\b(\d{6})\b`)
)

var bookingTriggers = []string{
	"book", "booking", "appointment", "reserve", "schedule",
	"i want makeup", "need makeup",
}

// infoPhrases divert a greeting into informational browsing; a booking
// trigger brings the session back to the service menu.
var infoPhrases = []string{
	"just chat", "just want to talk", "just browsing", "don't book",
	"dont book", "tell me about", "tell me more", "i want to know",
	"chat mode", "no booking yet", "not booking",
}

var confirmYes = []string{
	"yes", "yeah", "yep", "yup", "sure", "correct", "confirm", "confirmed",
	"ok", "okay", "right", "perfect", "go ahead", "हाँ", "हो", "ठीक",
}

var confirmNo = []string{
	"no", "nope", "nah", "wrong", "incorrect", "change", "edit", "not yet",
	"नहीं", "होइन",
}

var resendPhrases = []string{
	"resend", "send again", "didn't get", "did not get", "didnt get",
	"no otp", "not received", "haven't received", "new code", "new otp",
}

// FSM drives a booking conversation through its stages. It owns no session
// state; everything mutable lives in the ConversationMemory passed per call.
type FSM struct {
	catalog       models.ServiceCatalog
	extractor     *extract.Extractor
	validator     *validate.Validator
	historyWindow int
}

// NewFSM builds the engine. historyWindow bounds how many recent user turns
// the already-provided recovery re-scans.
func NewFSM(catalog models.ServiceCatalog, ex *extract.Extractor, val *validate.Validator, historyWindow int) *FSM {
	if historyWindow <= 0 {
		historyWindow = 10
	}
	return &FSM{catalog: catalog, extractor: ex, validator: val, historyWindow: historyWindow}
}

// Process advances the conversation one turn and mutates mem in place.
// A panic in a handler is contained: the session falls back to greeting
// with the intent preserved, rather than poisoning the whole service.
func (f *FSM) Process(mem *models.ConversationMemory, message string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("dialogue engine panic, resetting session to greeting",
				zap.String("sessionID", mem.SessionID),
				zap.String("state", string(mem.State)),
				zap.Any("panic", r))
			mem.State = models.StateGreeting
			out = Outcome{NextState: models.StateGreeting}
		}
	}()

	if mem.Intent == nil {
		mem.Intent = models.NewIntentRecord()
	}

	switch mem.State {
	case models.StateGreeting, models.StateInfoMode:
		out = f.handleGreeting(mem, message)
	case models.StateSelectingService:
		out = f.handleServiceSelection(mem, message)
	case models.StateSelectingPackage:
		out = f.handlePackageSelection(mem, message)
	case models.StateCollectingDetails:
		out = f.handleCollecting(mem, message)
	case models.StateConfirming:
		out = f.handleConfirming(mem, message)
	case models.StateOTPSent:
		out = f.handleOTPSent(mem, message)
	case models.StateCompleted:
		out = f.handleCompleted(mem, message)
	default:
		mem.State = models.StateGreeting
		out = Outcome{NextState: models.StateGreeting, Understood: false}
	}

	mem.State = out.NextState
	if out.Shown != nil {
		mem.LastShown = out.Shown
	}
	return out
}

func (f *FSM) handleGreeting(mem *models.ConversationMemory, message string) Outcome {
	lower := strings.ToLower(message)

	// Browsing phrases are checked first: "don't book yet" must not trip
	// the booking trigger on its "book" substring.
	if matchesPhrase(lower, infoPhrases) {
		return Outcome{NextState: models.StateInfoMode, Understood: true}
	}

	// A direct service mention skips the service menu entirely.
	if svc, found := f.catalog.MatchKeyword(lower); found {
		mem.Intent.Apply(models.FieldService, svc.Name, false)
		mem.Intent.Message = strings.TrimSpace(message)
		return Outcome{
			NextState:  models.StateSelectingPackage,
			Understood: true,
			Collected:  []models.FieldKind{models.FieldService},
			Shown:      &models.ShownList{Kind: models.ShownPackages, Service: svc.Name, Items: svc.PackageNames()},
		}
	}
	if matchesPhrase(lower, bookingTriggers) {
		mem.Intent.Message = strings.TrimSpace(message)
		return Outcome{
			NextState:  models.StateSelectingService,
			Understood: true,
			Shown:      &models.ShownList{Kind: models.ShownServices, Items: f.catalog.ServiceNames()},
		}
	}
	next := mem.State
	if next != models.StateInfoMode {
		next = models.StateGreeting
	}
	return Outcome{NextState: next, Understood: false}
}

func (f *FSM) handleServiceSelection(mem *models.ConversationMemory, message string) Outcome {
	if matchesPhrase(message, cancellationPhrases) {
		return f.cancel(mem)
	}

	var svc models.Service
	found := false
	if idx, okNum := numericSelection(message); okNum {
		if name, okItem := shownItem(mem.LastShown, models.ShownServices, idx); okItem {
			svc, found = f.catalog.Find(name)
		}
	}
	if !found {
		svc, found = f.catalog.MatchKeyword(message)
	}
	if !found {
		// Re-show the menu so a stale numeric reply has something to bind to.
		return Outcome{
			NextState:  models.StateSelectingService,
			Understood: false,
			Shown:      &models.ShownList{Kind: models.ShownServices, Items: f.catalog.ServiceNames()},
		}
	}

	mem.Intent.Apply(models.FieldService, svc.Name, true)
	// A fresh service choice invalidates any earlier package pick.
	mem.Intent.Package = ""
	return Outcome{
		NextState:  models.StateSelectingPackage,
		Understood: true,
		Collected:  []models.FieldKind{models.FieldService},
		Shown:      &models.ShownList{Kind: models.ShownPackages, Service: svc.Name, Items: svc.PackageNames()},
	}
}

func (f *FSM) handlePackageSelection(mem *models.ConversationMemory, message string) Outcome {
	if matchesPhrase(message, cancellationPhrases) {
		return f.cancel(mem)
	}

	svc, _ := f.catalog.Find(mem.Intent.Service)
	pkg := ""
	if idx, okNum := numericSelection(message); okNum {
		if name, okItem := shownItem(mem.LastShown, models.ShownPackages, idx); okItem {
			pkg = name
		}
	}
	if pkg == "" {
		lower := strings.ToLower(message)
		for _, p := range svc.Packages {
			if strings.Contains(lower, strings.ToLower(p.Name)) {
				pkg = p.Name
				break
			}
		}
	}
	if pkg == "" {
		// Partial-word match ("gold" for "Gold Party Makeup").
		lower := strings.ToLower(message)
		for _, p := range svc.Packages {
			for _, word := range strings.Fields(strings.ToLower(p.Name)) {
				if len(word) > 3 && hasAnyWord(lower, []string{word}) {
					pkg = p.Name
					break
				}
			}
			if pkg != "" {
				break
			}
		}
	}
	if pkg == "" {
		return Outcome{
			NextState:  models.StateSelectingPackage,
			Understood: false,
			Shown:      &models.ShownList{Kind: models.ShownPackages, Service: svc.Name, Items: svc.PackageNames()},
		}
	}

	mem.Intent.Apply(models.FieldPackage, pkg, true)
	return Outcome{
		NextState:  models.StateCollectingDetails,
		Understood: true,
		Collected:  []models.FieldKind{models.FieldPackage},
		Missing:    mem.Intent.MissingFields(),
	}
}

// detailOrder fixes the application order within one message so that an
// explicit country mention lands before the phone-derived fallback can
// claim the slot.
var detailOrder = []models.FieldKind{
	models.FieldCountry,
	models.FieldName,
	models.FieldEmail,
	models.FieldPhone,
	models.FieldDate,
	models.FieldAddress,
	models.FieldPostalCode,
}

func (f *FSM) handleCollecting(mem *models.ConversationMemory, message string) Outcome {
	if matchesPhrase(message, cancellationPhrases) {
		return f.cancel(mem)
	}

	out := Outcome{NextState: models.StateCollectingDetails, FieldErrors: map[models.FieldKind]string{}}

	if f.completeYear(mem.Intent, message) {
		out.Understood = true
		out.Collected = append(out.Collected, models.FieldDate)
	}

	if matchesPhrase(message, alreadyProvidedPhrases) {
		out.Recovered = f.recoverFromHistory(mem)
		out.Understood = true
	}

	assertedDone := matchesPhrase(message, completionPhrases)

	if !assertedDone {
		results := f.extractor.ExtractAll(message, mem.Intent)
		for _, kind := range detailOrder {
			res, hit := results[kind]
			if !hit {
				continue
			}
			if f.applyExtraction(mem.Intent, kind, &res) {
				out.Collected = append(out.Collected, kind)
			} else if fieldRes := f.validator.Check(kind, res.Value, f.countryHint(mem.Intent, kind)); !fieldRes.Valid && mem.Intent.FieldValue(kind) == "" {
				out.FieldErrors[kind] = validate.Describe(kind, fieldRes)
			}
		}
	}

	if len(out.Collected) > 0 || len(out.Recovered) > 0 || assertedDone {
		out.Understood = true
	}

	if mem.Intent.IsComplete() {
		out.NextState = models.StateConfirming
		out.Summary = mem.Intent.Summary()
		return out
	}
	out.Missing = mem.Intent.MissingFields()
	return out
}

func (f *FSM) handleConfirming(mem *models.ConversationMemory, message string) Outcome {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case matchesPhrase(lower, cancellationPhrases):
		return f.cancel(mem)
	case hasAnyWord(lower, confirmYes):
		return Outcome{
			NextState:  models.StateOTPSent,
			Action:     ActionSendOTP,
			Understood: true,
			Summary:    mem.Intent.Summary(),
		}
	case hasAnyWord(lower, confirmNo):
		return Outcome{
			NextState:  models.StateCollectingDetails,
			Understood: true,
			Missing:    mem.Intent.MissingFields(),
		}
	}
	return Outcome{NextState: models.StateConfirming, Understood: false, Summary: mem.Intent.Summary()}
}

func (f *FSM) handleOTPSent(mem *models.ConversationMemory, message string) Outcome {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case matchesPhrase(lower, cancellationPhrases):
		return f.cancel(mem)
	case matchesPhrase(lower, resendPhrases):
		return Outcome{NextState: models.StateOTPSent, Action: ActionResendOTP, Understood: true}
	}
	if m := otpCode.FindStringSubmatch(message); m != nil {
		return Outcome{
			NextState:  models.StateOTPSent,
			Action:     ActionVerifyOTP,
			Understood: true,
			OTPInput:   m[1],
		}
	}
	return Outcome{NextState: models.StateOTPSent, Understood: false}
}

func (f *FSM) handleCompleted(mem *models.ConversationMemory, message string) Outcome {
	if matchesPhrase(strings.ToLower(message), bookingTriggers) {
		mem.Intent.Reset()
		mem.Intent.Message = strings.TrimSpace(message)
		mem.LastShown = nil
		return Outcome{
			NextState:  models.StateSelectingService,
			Understood: true,
			Shown:      &models.ShownList{Kind: models.ShownServices, Items: f.catalog.ServiceNames()},
		}
	}
	return Outcome{NextState: models.StateCompleted, Understood: false}
}

func (f *FSM) cancel(mem *models.ConversationMemory) Outcome {
	mem.ResetBooking()
	return Outcome{NextState: models.StateGreeting, Understood: true, Cancelled: true}
}

// applyExtraction validates a candidate and writes it into the intent,
// carrying side signals: a phone stamps the phone country and seeds the
// service country only when nothing better claimed it, a yearless date
// raises the follow-up flag.
func (f *FSM) applyExtraction(intent *models.IntentRecord, kind models.FieldKind, res *models.ExtractionResult) bool {
	hint := f.countryHint(intent, kind)
	if res.Country != "" && (kind == models.FieldPhone || kind == models.FieldPostalCode) {
		hint = res.Country
	}
	checked := f.validator.Check(kind, res.Value, hint)
	if !checked.Valid {
		return false
	}
	if !intent.Apply(kind, checked.Canonical, false) {
		return false
	}
	switch kind {
	case models.FieldPhone:
		country := checked.Country
		if country == "" {
			country = res.Country
		}
		if country != "" {
			intent.PhoneCountry = country
			intent.Apply(models.FieldCountry, country, false)
		}
	case models.FieldDate:
		if res.NeedsYear {
			intent.SetMeta(models.MetaNeedsYear, "true")
		} else {
			intent.ClearMeta(models.MetaNeedsYear)
		}
		if res.NeedsDay {
			intent.SetMeta(models.MetaNeedsDay, "true")
		} else {
			intent.ClearMeta(models.MetaNeedsDay)
		}
		intent.SetMeta(models.MetaDateMethod, res.Method)
	case models.FieldAddress:
		if res.Country != "" {
			intent.Apply(models.FieldCountry, res.Country, false)
		}
	}
	return true
}

// countryHint picks the country context for validating a field.
func (f *FSM) countryHint(intent *models.IntentRecord, kind models.FieldKind) string {
	if kind == models.FieldPackage {
		return intent.Service
	}
	if intent.ServiceCountry != "" {
		return intent.ServiceCountry
	}
	return intent.PhoneCountry
}

func numericSelection(message string) (int, bool) {
	m := numericChoice.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// shownItem resolves a 1-based choice against the snapshotted list, only
// when the snapshot is of the expected kind.
func shownItem(shown *models.ShownList, kind string, idx int) (string, bool) {
	if shown == nil || shown.Kind != kind || idx < 1 || idx > len(shown.Items) {
		return "", false
	}
	return shown.Items[idx-1], true
}
