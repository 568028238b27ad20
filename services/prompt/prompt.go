// Package prompt renders dialogue outcomes into user-facing reply text.
// All user-visible wording lives here so the engine stays presentation-free
// and new languages are a template table away.
package prompt

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"glowbook/models"
	"glowbook/services/dialogue"
	"glowbook/services/otp"
)

// Renderer maps a processed turn to reply text in the session language.
type Renderer interface {
	Reply(mem *models.ConversationMemory, out dialogue.Outcome) string
	StateReminder(state models.ConversationState, missing []string, language string) string
	OffTopicNudge(language string, remaining int) string
	PermanentChatNotice(language string) string
	SocialAnswer(language string) string
	KnowledgeFallback(language string) string
	BookingConfirmed(language, bookingID string) string
	OTPTrouble(language string, err error) string
}

// TemplateRenderer is the stock implementation over per-language template
// tables. Unknown languages fall back to English.
type TemplateRenderer struct {
	catalog models.ServiceCatalog
}

func NewTemplateRenderer(catalog models.ServiceCatalog) *TemplateRenderer {
	return &TemplateRenderer{catalog: catalog}
}

type table struct {
	greeting         string
	infoMode         string
	chooseService    string
	choosePackage    string
	askDetails       string
	collectedSome    string
	needYear         string
	confirmSummary   string
	otpSent          string
	otpResent        string
	otpAskAgain      string
	notUnderstood    string
	cancelled        string
	completedIdle    string
	reminderBooking  string
	offTopicNudge    string
	offTopicFinal    string
	permanentChat    string
	socialAnswer     string
	knowledgeDown    string
	stillMissing     string
	recoveredNotice  string
	rejectedPrefix   string
	bookingDone      string
	otpWrong         string
	otpExpired       string
	otpLocked        string
	otpCooldown      string
	otpSendFailed    string
}

var tables = map[string]table{
	"en": {
		greeting:        "Hello! I can help you book makeup services. Say 'book' to get started, or ask me anything about our services.",
		infoMode:        "Happy to tell you more! Ask me anything about our services, and say 'book' whenever you're ready.",
		chooseService:   "Which service would you like? Reply with a number:\n%s",
		choosePackage:   "Great choice! Here are the %s packages. Reply with a number:\n%s",
		askDetails:      "Perfect. Now I need a few details: %s. You can send them all in one message.",
		collectedSome:   "Got it, noted your %s.",
		needYear:        "Which year is that date in? Just send the year, like 2026.",
		confirmSummary:  "Here is your booking summary:\n%s\nShall I confirm? (yes/no)",
		otpSent:         "I've sent a 6-digit code to your WhatsApp number. Please type it here to confirm.",
		otpResent:       "A fresh code is on its way to your WhatsApp.",
		otpAskAgain:     "Please type the 6-digit code you received, or say 'resend' for a new one.",
		notUnderstood:   "Sorry, I didn't catch that.",
		cancelled:       "No problem, I've cancelled that booking. Say 'book' whenever you're ready to start again.",
		completedIdle:   "Your booking is confirmed! Say 'book' to make another one.",
		reminderBooking: "By the way, we were in the middle of your booking — %s",
		offTopicNudge:   "I can only help with our makeup services. Let's get back to your booking.",
		offTopicFinal:   "If the next message is also unrelated, I'll switch us over to open chat.",
		permanentChat:   "Happy to chat! If you'd like to book later, a human from our team can pick this up.",
		socialAnswer:    "You can find us on Instagram and Facebook as @glowbook.studio — all our latest work is there!",
		knowledgeDown:   "I couldn't look that up right now. Could you try asking again in a moment?",
		stillMissing:    "Still needed: %s.",
		recoveredNotice: "You're right — I found your %s in our chat.",
		rejectedPrefix:  "One thing though: %s.",
		bookingDone:     "Your booking is confirmed! 🎉 Your booking ID is %s. We'll send a reminder before your event.",
		otpWrong:        "That code doesn't match. Please check and try again.",
		otpExpired:      "That code has expired. Say 'resend' and I'll send a fresh one.",
		otpLocked:       "Too many wrong attempts. Say 'resend' to get a new code.",
		otpCooldown:     "I just sent a code — give it a few seconds to arrive before asking again.",
		otpSendFailed:   "I couldn't send the code right now. Please say 'yes' again in a moment.",
	},
	"hi": {
		greeting:        "नमस्ते! मैं मेकअप सेवाएँ बुक करने में आपकी मदद कर सकती हूँ। शुरू करने के लिए 'book' लिखें।",
		infoMode:        "ज़रूर पूछिए! हमारी सेवाओं के बारे में कुछ भी पूछें, और बुकिंग के लिए 'book' लिखें।",
		chooseService:   "आप कौन सी सेवा चाहेंगे? नंबर से जवाब दें:\n%s",
		choosePackage:   "बढ़िया! ये रहे %s के पैकेज। नंबर से जवाब दें:\n%s",
		askDetails:      "अब मुझे कुछ जानकारी चाहिए: %s। आप सब एक ही संदेश में भेज सकते हैं।",
		collectedSome:   "ठीक है, आपका %s नोट कर लिया।",
		needYear:        "वह तारीख किस साल की है? बस साल भेजें, जैसे 2026।",
		confirmSummary:  "आपकी बुकिंग का सारांश:\n%s\nक्या मैं कन्फर्म करूँ? (yes/no)",
		otpSent:         "आपके WhatsApp नंबर पर 6 अंकों का कोड भेजा है। कन्फर्म करने के लिए यहाँ टाइप करें।",
		otpResent:       "नया कोड आपके WhatsApp पर भेज दिया है।",
		otpAskAgain:     "कृपया मिला हुआ 6 अंकों का कोड टाइप करें, या नए के लिए 'resend' लिखें।",
		notUnderstood:   "माफ़ कीजिए, मैं समझ नहीं पाई।",
		cancelled:       "कोई बात नहीं, बुकिंग रद्द कर दी है। फिर से शुरू करने के लिए 'book' लिखें।",
		completedIdle:   "आपकी बुकिंग कन्फर्म है! नई बुकिंग के लिए 'book' लिखें।",
		reminderBooking: "वैसे, आपकी बुकिंग अधूरी है — %s",
		offTopicNudge:   "मैं केवल मेकअप सेवाओं में मदद कर सकती हूँ। चलिए बुकिंग पर लौटते हैं।",
		offTopicFinal:   "अगला संदेश भी असंबंधित हुआ तो मैं हमें ओपन चैट पर ले जाऊँगी।",
		permanentChat:   "बात करके ख़ुशी हुई! बुकिंग के लिए हमारी टीम का कोई सदस्य आगे मदद करेगा।",
		socialAnswer:    "हम Instagram और Facebook पर @glowbook.studio नाम से हैं!",
		knowledgeDown:   "अभी यह जानकारी नहीं मिल पाई। कृपया थोड़ी देर में फिर पूछें।",
		stillMissing:    "अभी चाहिए: %s।",
		recoveredNotice: "आप सही कह रहे हैं — आपका %s हमारी बातचीत में मिल गया।",
		rejectedPrefix:  "बस एक बात: %s।",
		bookingDone:     "आपकी बुकिंग कन्फर्म हो गई! 🎉 बुकिंग ID: %s। इवेंट से पहले हम याद दिलाएँगे।",
		otpWrong:        "यह कोड मेल नहीं खाता। कृपया जाँच कर दोबारा भेजें।",
		otpExpired:      "कोड की समय सीमा समाप्त हो गई। नए के लिए 'resend' लिखें।",
		otpLocked:       "कई गलत प्रयास हो गए। नया कोड पाने के लिए 'resend' लिखें।",
		otpCooldown:     "कोड अभी भेजा है — कृपया कुछ सेकंड प्रतीक्षा करें।",
		otpSendFailed:   "अभी कोड नहीं भेज पाई। थोड़ी देर में फिर 'yes' लिखें।",
	},
}

func (r *TemplateRenderer) table(language string) table {
	if t, ok := tables[language]; ok {
		return t
	}
	return tables["en"]
}

// Reply renders one processed turn.
func (r *TemplateRenderer) Reply(mem *models.ConversationMemory, out dialogue.Outcome) string {
	t := r.table(mem.Language)
	var parts []string

	if out.Cancelled {
		return t.cancelled
	}
	if len(out.Recovered) > 0 {
		parts = append(parts, fmt.Sprintf(t.recoveredNotice, kindLabels(out.Recovered)))
	}
	if len(out.Collected) > 0 && out.NextState == models.StateCollectingDetails {
		parts = append(parts, fmt.Sprintf(t.collectedSome, kindLabels(out.Collected)))
	}
	for _, kind := range sortedErrorKinds(out.FieldErrors) {
		parts = append(parts, fmt.Sprintf(t.rejectedPrefix, out.FieldErrors[kind]))
	}

	switch out.NextState {
	case models.StateGreeting:
		if !out.Understood {
			parts = append(parts, t.notUnderstood)
		}
		parts = append(parts, t.greeting)
	case models.StateInfoMode:
		parts = append(parts, t.infoMode)
	case models.StateSelectingService:
		if !out.Understood {
			parts = append(parts, t.notUnderstood)
		}
		parts = append(parts, fmt.Sprintf(t.chooseService, r.numberedServices()))
	case models.StateSelectingPackage:
		if !out.Understood {
			parts = append(parts, t.notUnderstood)
		}
		svc := shownService(out, mem)
		parts = append(parts, fmt.Sprintf(t.choosePackage, svc, r.numberedPackages(svc)))
	case models.StateCollectingDetails:
		if mem.Intent != nil && mem.Intent.Meta(models.MetaNeedsYear) == "true" {
			parts = append(parts, t.needYear)
		} else if len(out.Missing) > 0 {
			if len(out.Collected) > 0 || len(out.Recovered) > 0 {
				parts = append(parts, fmt.Sprintf(t.stillMissing, strings.Join(out.Missing, ", ")))
			} else {
				parts = append(parts, fmt.Sprintf(t.askDetails, strings.Join(out.Missing, ", ")))
			}
		}
	case models.StateConfirming:
		parts = append(parts, fmt.Sprintf(t.confirmSummary, renderSummary(out.Summary)))
	case models.StateOTPSent:
		switch out.Action {
		case dialogue.ActionSendOTP:
			parts = append(parts, t.otpSent)
		case dialogue.ActionResendOTP:
			parts = append(parts, t.otpResent)
		default:
			parts = append(parts, t.otpAskAgain)
		}
	case models.StateCompleted:
		parts = append(parts, t.completedIdle)
	}

	return strings.Join(parts, " ")
}

// StateReminder nudges the user back to the step their booking is waiting
// on, appended after off-topic or question detours.
func (r *TemplateRenderer) StateReminder(state models.ConversationState, missing []string, language string) string {
	t := r.table(language)
	switch state {
	case models.StateSelectingService:
		return fmt.Sprintf(t.reminderBooking, fmt.Sprintf(t.chooseService, r.numberedServices()))
	case models.StateSelectingPackage, models.StateCollectingDetails:
		if len(missing) > 0 {
			return fmt.Sprintf(t.reminderBooking, fmt.Sprintf(t.stillMissing, strings.Join(missing, ", ")))
		}
	case models.StateConfirming:
		return fmt.Sprintf(t.reminderBooking, "shall I confirm it? (yes/no)")
	case models.StateOTPSent:
		return fmt.Sprintf(t.reminderBooking, t.otpAskAgain)
	}
	return ""
}

// OffTopicNudge redirects the user, warning them when only one more
// off-topic turn remains before the session leaves the booking flow.
func (r *TemplateRenderer) OffTopicNudge(language string, remaining int) string {
	t := r.table(language)
	if remaining == 1 {
		return t.offTopicNudge + " " + t.offTopicFinal
	}
	return t.offTopicNudge
}

func (r *TemplateRenderer) PermanentChatNotice(language string) string {
	return r.table(language).permanentChat
}

func (r *TemplateRenderer) SocialAnswer(language string) string {
	return r.table(language).socialAnswer
}

func (r *TemplateRenderer) KnowledgeFallback(language string) string {
	return r.table(language).knowledgeDown
}

func (r *TemplateRenderer) BookingConfirmed(language, bookingID string) string {
	return fmt.Sprintf(r.table(language).bookingDone, bookingID)
}

// OTPTrouble maps an otp service error to user-facing wording.
func (r *TemplateRenderer) OTPTrouble(language string, err error) string {
	t := r.table(language)
	switch {
	case errors.Is(err, otp.ErrMismatch):
		return t.otpWrong
	case errors.Is(err, otp.ErrExpired):
		return t.otpExpired
	case errors.Is(err, otp.ErrTooManyAttempts):
		return t.otpLocked
	case errors.Is(err, otp.ErrResendCooldown):
		return t.otpCooldown
	}
	return t.otpSendFailed
}

func (r *TemplateRenderer) numberedServices() string {
	var sb strings.Builder
	for i, svc := range r.catalog.Services {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, svc.Name, svc.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *TemplateRenderer) numberedPackages(serviceName string) string {
	svc, found := r.catalog.Find(serviceName)
	if !found {
		return ""
	}
	var sb strings.Builder
	for i, pkg := range svc.Packages {
		fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, pkg.Name, pkg.Price)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderSummary prints in the intent's display order, not map order.
func renderSummary(summary map[string]string) string {
	order := []string{
		"Service", "Package", "Name", "Email", "Phone",
		"Country", "Date", "Address", "Postal Code",
	}
	var sb strings.Builder
	for _, label := range order {
		if v, ok := summary[label]; ok {
			fmt.Fprintf(&sb, "• %s: %s\n", label, v)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func shownService(out dialogue.Outcome, mem *models.ConversationMemory) string {
	if out.Shown != nil && out.Shown.Service != "" {
		return out.Shown.Service
	}
	if mem.LastShown != nil && mem.LastShown.Service != "" {
		return mem.LastShown.Service
	}
	if mem.Intent != nil {
		return mem.Intent.Service
	}
	return ""
}

func kindLabels(kinds []models.FieldKind) string {
	labels := make([]string, 0, len(kinds))
	for _, k := range kinds {
		labels = append(labels, k.String())
	}
	return strings.Join(labels, ", ")
}

func sortedErrorKinds(errs map[models.FieldKind]string) []models.FieldKind {
	kinds := make([]models.FieldKind, 0, len(errs))
	for k := range errs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
