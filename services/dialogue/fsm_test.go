package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/config"
	"glowbook/models"
	"glowbook/services/extract"
	"glowbook/services/validate"
)

func testEngine() *FSM {
	clock := func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	countries := config.DefaultCountryRules()
	catalog := config.DefaultCatalog()
	ex := extract.New(extract.DefaultRules(countries), catalog, extract.WithClock(clock))
	val := validate.New(countries, catalog, validate.WithClock(clock))
	return NewFSM(catalog, ex, val, 10)
}

// TestBookingFlowEndToEnd drives a whole booking in five messages, with
// every detail dumped into a single turn. The explicit "Nepal" must win the
// service country even though the phone is Indian.
func TestBookingFlowEndToEnd(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-1", "en")

	out := f.Process(mem, "book")
	assert.Equal(t, models.StateSelectingService, out.NextState)
	require.NotNil(t, out.Shown)
	assert.Equal(t, models.ShownServices, out.Shown.Kind)
	assert.Len(t, out.Shown.Items, 4)

	out = f.Process(mem, "1")
	assert.Equal(t, models.StateSelectingPackage, out.NextState)
	assert.Equal(t, "Bridal Makeup Services", mem.Intent.Service)
	require.NotNil(t, out.Shown)
	assert.Equal(t, models.ShownPackages, out.Shown.Kind)

	out = f.Process(mem, "2")
	assert.Equal(t, models.StateCollectingDetails, out.NextState)
	assert.Equal(t, "Luxury Bridal Makeup (HD / Brush)", mem.Intent.Package)
	assert.NotEmpty(t, out.Missing)

	out = f.Process(mem, "Rupesh Poudel, +919876543210, rupesh@example.com, 25 Feb 2026, Kathmandu, 44600, Nepal")
	assert.Equal(t, models.StateConfirming, out.NextState)
	assert.True(t, out.Understood)
	assert.Empty(t, out.Missing)
	require.NotNil(t, out.Summary)

	assert.Equal(t, "Rupesh Poudel", mem.Intent.Name)
	assert.Equal(t, "rupesh@example.com", mem.Intent.Email)
	assert.Equal(t, "+919876543210", mem.Intent.Phone)
	assert.Equal(t, "India", mem.Intent.PhoneCountry)
	assert.Equal(t, "Nepal", mem.Intent.ServiceCountry)
	assert.Equal(t, "2026-02-25", mem.Intent.EventDate)
	assert.Equal(t, "44600", mem.Intent.PostalCode)
	assert.Equal(t, "+9198****3210", out.Summary["Phone"])

	out = f.Process(mem, "yes")
	assert.Equal(t, models.StateOTPSent, out.NextState)
	assert.Equal(t, ActionSendOTP, out.Action)
	assert.Equal(t, models.StateOTPSent, mem.State)
}

func TestDirectServiceMentionSkipsMenu(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-2", "en")

	out := f.Process(mem, "I need bridal makeup")
	assert.Equal(t, models.StateSelectingPackage, out.NextState)
	assert.Equal(t, "Bridal Makeup Services", mem.Intent.Service)
	require.NotNil(t, out.Shown)
	assert.Equal(t, models.ShownPackages, out.Shown.Kind)
	assert.Len(t, out.Shown.Items, 3)
}

// TestInfoModeBrowsingThenBooking covers the informational side branch: a
// browsing phrase diverts the greeting, the session stays there across
// turns, and booking intent re-enters the flow at the service menu.
func TestInfoModeBrowsingThenBooking(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-info", "en")

	out := f.Process(mem, "tell me about your services first")
	assert.Equal(t, models.StateInfoMode, out.NextState)
	assert.True(t, out.Understood)
	assert.Equal(t, models.StateInfoMode, mem.State)

	out = f.Process(mem, "interesting")
	assert.Equal(t, models.StateInfoMode, out.NextState, "browsing persists across idle turns")

	out = f.Process(mem, "ok, book an appointment")
	assert.Equal(t, models.StateSelectingService, out.NextState)
	require.NotNil(t, out.Shown)
	assert.Equal(t, models.ShownServices, out.Shown.Kind)
}

func TestBrowsingPhraseDoesNotTripBookingTrigger(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-info-2", "en")

	out := f.Process(mem, "don't book anything yet, just browsing")
	assert.Equal(t, models.StateInfoMode, out.NextState)
}

func TestBookingTriggerRecordsOpeningMessage(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-msg", "en")

	f.Process(mem, "I want to book bridal makeup for my wedding")
	assert.Equal(t, "I want to book bridal makeup for my wedding", mem.Intent.Message)
}

// TestNumericSelectionBindsToShownList covers the stale-number case: a
// digit with no snapshotted list must not bind to anything.
func TestNumericSelectionBindsToShownList(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-3", "en")
	mem.State = models.StateSelectingService

	out := f.Process(mem, "1")
	assert.False(t, out.Understood)
	assert.Equal(t, models.StateSelectingService, out.NextState)
	require.NotNil(t, out.Shown, "the menu is re-shown so the next number has a referent")
	assert.Empty(t, mem.Intent.Service)

	// With the list re-shown, the same digit now resolves.
	out = f.Process(mem, "1")
	assert.True(t, out.Understood)
	assert.Equal(t, "Bridal Makeup Services", mem.Intent.Service)
}

func TestReselectingServiceClearsPackage(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-4", "en")
	mem.State = models.StateSelectingService
	mem.Intent.Service = "Party Makeup Services"
	mem.Intent.Package = "Party Makeup by Lead Artist"

	out := f.Process(mem, "henna")
	assert.Equal(t, models.StateSelectingPackage, out.NextState)
	assert.Equal(t, "Henna (Mehendi) Services", mem.Intent.Service)
	assert.Empty(t, mem.Intent.Package)
}

func TestConfirmNoReturnsToCollecting(t *testing.T) {
	f := testEngine()
	mem := completeMemory()

	out := f.Process(mem, "no, change something")
	assert.Equal(t, models.StateCollectingDetails, out.NextState)
	assert.True(t, out.Understood)
}

func TestConfirmUnrecognizedRepeatsSummary(t *testing.T) {
	f := testEngine()
	mem := completeMemory()

	out := f.Process(mem, "hmm")
	assert.Equal(t, models.StateConfirming, out.NextState)
	assert.False(t, out.Understood)
	assert.NotNil(t, out.Summary)
}

func TestCancellationResetsBooking(t *testing.T) {
	f := testEngine()
	mem := completeMemory()
	mem.State = models.StateCollectingDetails

	out := f.Process(mem, "cancel")
	assert.True(t, out.Cancelled)
	assert.Equal(t, models.StateGreeting, out.NextState)
	assert.Empty(t, mem.Intent.Service)
	assert.Empty(t, mem.Intent.Phone)
	assert.Nil(t, mem.LastShown)
}

// TestYearCompletion checks the two-turn date: a yearless "2feb" is stored
// against the next occurrence and flagged, then a bare "2026" pins it.
func TestYearCompletion(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-5", "en")
	mem.State = models.StateCollectingDetails
	mem.Intent.Service = "Bridal Makeup Services"
	mem.Intent.Package = "Signature Bridal Makeup"

	out := f.Process(mem, "2feb")
	assert.Contains(t, out.Collected, models.FieldDate)
	assert.Equal(t, "2026-02-02", mem.Intent.EventDate)
	assert.Equal(t, "true", mem.Intent.Meta(models.MetaNeedsYear))

	out = f.Process(mem, "2026")
	assert.True(t, out.Understood)
	assert.Contains(t, out.Collected, models.FieldDate)
	assert.Equal(t, "2026-02-02", mem.Intent.EventDate)
	assert.Empty(t, mem.Intent.Meta(models.MetaNeedsYear))
}

func TestAlreadyProvidedRecoversFromHistory(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-6", "en")
	mem.State = models.StateCollectingDetails
	mem.Intent.Service = "Bridal Makeup Services"
	mem.Intent.Package = "Signature Bridal Makeup"
	mem.AddMessage("user", "my email is rupesh@gmail.com")
	mem.AddMessage("assistant", "could you share your email address?")

	out := f.Process(mem, "i told you already, check again")
	assert.True(t, out.Understood)
	assert.Contains(t, out.Recovered, models.FieldEmail)
	assert.Equal(t, "rupesh@gmail.com", mem.Intent.Email)
}

func TestCollectingReportsInvalidValues(t *testing.T) {
	f := testEngine()
	mem := models.NewConversationMemory("sess-7", "en")
	mem.State = models.StateCollectingDetails
	mem.Intent.Service = "Bridal Makeup Services"
	mem.Intent.Package = "Signature Bridal Makeup"

	// A past date extracts fine but fails validation.
	out := f.Process(mem, "25 Feb 2020")
	assert.Empty(t, mem.Intent.EventDate)
	assert.Contains(t, out.FieldErrors, models.FieldDate)
	assert.Equal(t, "that date is in the past", out.FieldErrors[models.FieldDate])
}

func TestOTPStage(t *testing.T) {
	f := testEngine()

	t.Run("resend", func(t *testing.T) {
		mem := completeMemory()
		mem.State = models.StateOTPSent
		out := f.Process(mem, "didn't get the code, resend please")
		assert.Equal(t, ActionResendOTP, out.Action)
		assert.Equal(t, models.StateOTPSent, out.NextState)
	})

	t.Run("code entry", func(t *testing.T) {
		mem := completeMemory()
		mem.State = models.StateOTPSent
		out := f.Process(mem, "the code is 482913")
		assert.Equal(t, ActionVerifyOTP, out.Action)
		assert.Equal(t, "482913", out.OTPInput)
	})

	t.Run("unrecognized", func(t *testing.T) {
		mem := completeMemory()
		mem.State = models.StateOTPSent
		out := f.Process(mem, "hello?")
		assert.False(t, out.Understood)
		assert.Equal(t, ActionNone, out.Action)
	})
}

func TestCompletedRestart(t *testing.T) {
	f := testEngine()
	mem := completeMemory()
	mem.State = models.StateCompleted

	out := f.Process(mem, "i want to book again")
	assert.Equal(t, models.StateSelectingService, out.NextState)
	assert.Empty(t, mem.Intent.Service, "a new booking starts from a clean intent")
	require.NotNil(t, out.Shown)
}

// completeMemory returns a session with every field filled, parked at the
// confirmation stage.
func completeMemory() *models.ConversationMemory {
	mem := models.NewConversationMemory("sess-complete", "en")
	mem.State = models.StateConfirming
	mem.Intent = &models.IntentRecord{
		Service:        "Bridal Makeup Services",
		Package:        "Signature Bridal Makeup",
		Name:           "Rupesh Poudel",
		Email:          "rupesh@example.com",
		Phone:          "+919876543210",
		PhoneCountry:   "India",
		ServiceCountry: "Nepal",
		Address:        "Kathmandu",
		PostalCode:     "44600",
		EventDate:      "2026-02-25",
		Metadata:       map[string]string{},
	}
	return mem
}
