package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glowbook/config"
	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/services/dialogue"
	"glowbook/services/extract"
	"glowbook/services/knowledge"
	"glowbook/services/prompt"
	"glowbook/services/tasks"
	"glowbook/services/validate"
)

// memStore is an in-memory session.Store.
type memStore struct {
	sessions map[string]*models.ConversationMemory
	saves    int
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*models.ConversationMemory{}}
}

func (s *memStore) Get(_ context.Context, sessionID, language string) (*models.ConversationMemory, error) {
	if mem, ok := s.sessions[sessionID]; ok {
		return mem, nil
	}
	return models.NewConversationMemory(sessionID, language), nil
}

func (s *memStore) Save(_ context.Context, mem *models.ConversationMemory) error {
	s.sessions[mem.SessionID] = mem
	s.saves++
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

type fakeOTP struct {
	issued    int
	resent    int
	verified  []string
	issueErr  error
	verifyErr error
}

func (f *fakeOTP) Issue(context.Context, string, string) error { f.issued++; return f.issueErr }
func (f *fakeOTP) Resend(context.Context, string, string) error {
	f.resent++
	return nil
}
func (f *fakeOTP) Verify(_ context.Context, _ string, code string) error {
	f.verified = append(f.verified, code)
	return f.verifyErr
}

type fakeBookings struct {
	inserted []*models.Booking
}

func (f *fakeBookings) Insert(_ context.Context, b *models.Booking) error {
	f.inserted = append(f.inserted, b)
	return nil
}
func (f *fakeBookings) GetByID(context.Context, string) (*models.Booking, error) {
	return nil, errors.New("not found")
}
func (f *fakeBookings) List(context.Context, repository.ListFilter) ([]models.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) CountByStatus(context.Context) (map[string]int64, error) { return nil, nil }
func (f *fakeBookings) CountByService(context.Context) (map[string]int64, error) {
	return nil, nil
}

type fakeEnqueuer struct {
	payloads []tasks.ReminderPayload
}

func (f *fakeEnqueuer) ScheduleEventReminder(p tasks.ReminderPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type fakeKnowledge struct {
	answer string
	err    error
}

func (f *fakeKnowledge) Answer(context.Context, knowledge.Query) (string, error) {
	return f.answer, f.err
}

type fixture struct {
	svc      *DefaultAgentService
	store    *memStore
	otp      *fakeOTP
	bookings *fakeBookings
	enqueuer *fakeEnqueuer
}

func newFixture(threshold int) *fixture {
	clock := func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }
	countries := config.DefaultCountryRules()
	catalog := config.DefaultCatalog()
	ex := extract.New(extract.DefaultRules(countries), catalog, extract.WithClock(clock))
	val := validate.New(countries, catalog, validate.WithClock(clock))

	f := &fixture{
		store:    newMemStore(),
		otp:      &fakeOTP{},
		bookings: &fakeBookings{},
		enqueuer: &fakeEnqueuer{},
	}
	f.svc = &DefaultAgentService{
		Sessions:          f.store,
		Engine:            dialogue.NewFSM(catalog, ex, val, 10),
		Classifier:        dialogue.NewClassifier(extract.DefaultRules(countries).QuestionStarters),
		Knowledge:         &fakeKnowledge{answer: "the gold package includes airbrush makeup"},
		OTP:               f.otp,
		Bookings:          f.bookings,
		Prompts:           prompt.NewTemplateRenderer(catalog),
		Reminders:         f.enqueuer,
		OffTopicThreshold: threshold,
	}
	return f
}

func (f *fixture) chat(t *testing.T, sessionID, message string) *models.ChatResponse {
	t.Helper()
	resp, err := f.svc.Chat(context.Background(), models.ChatRequest{
		SessionID: sessionID,
		Message:   message,
		Language:  "en",
	})
	require.NoError(t, err)
	return resp
}

func TestChatFullBookingToConfirmation(t *testing.T) {
	f := newFixture(3)

	resp := f.chat(t, "s1", "book")
	assert.Equal(t, models.StateSelectingService, resp.State)
	assert.Equal(t, ModeBooking, resp.Mode)

	resp = f.chat(t, "s1", "1")
	assert.Equal(t, models.StateSelectingPackage, resp.State)

	resp = f.chat(t, "s1", "2")
	assert.Equal(t, models.StateCollectingDetails, resp.State)
	assert.NotEmpty(t, resp.Missing)

	resp = f.chat(t, "s1", "Rupesh Poudel, +919876543210, rupesh@example.com, 25 Feb 2026, Kathmandu, 44600, Nepal")
	assert.Equal(t, models.StateConfirming, resp.State)
	assert.Equal(t, "Nepal", resp.Summary["Country"])

	resp = f.chat(t, "s1", "yes")
	assert.Equal(t, models.StateOTPSent, resp.State)
	assert.Equal(t, 1, f.otp.issued)

	resp = f.chat(t, "s1", "482913")
	assert.Equal(t, models.StateCompleted, resp.State)
	assert.NotEmpty(t, resp.BookingID)
	assert.Equal(t, []string{"482913"}, f.otp.verified)

	require.Len(t, f.bookings.inserted, 1)
	booking := f.bookings.inserted[0]
	assert.Equal(t, "Nepal", booking.ServiceCountry)
	assert.Equal(t, "+919876543210", booking.Phone)
	assert.Equal(t, "2026-02-25", booking.EventDate)
	assert.Equal(t, "book", booking.Message)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	require.Len(t, f.enqueuer.payloads, 1)
	assert.Equal(t, resp.BookingID, f.enqueuer.payloads[0].BookingID)
	assert.Equal(t, "2026-02-25", f.enqueuer.payloads[0].EventDate)

	assert.Equal(t, models.StateCompleted, f.store.sessions["s1"].State)
}

func TestOffTopicEscalatesToPermanentChat(t *testing.T) {
	f := newFixture(2)
	f.store.sessions["s2"] = inFlowSession("s2")

	resp := f.chat(t, "s2", "what is the weather today?")
	assert.True(t, resp.OffTopic)
	assert.Equal(t, ModeBooking, resp.Mode, "first strike still nudges back to the flow")
	assert.False(t, f.store.sessions["s2"].PermanentChat)

	resp = f.chat(t, "s2", "tell me a joke")
	assert.True(t, resp.OffTopic)
	assert.Equal(t, ModeChat, resp.Mode)
	assert.True(t, f.store.sessions["s2"].PermanentChat)

	// From here on every message is open chat, booking vocabulary or not.
	resp = f.chat(t, "s2", "book bridal makeup")
	assert.Equal(t, ModeChat, resp.Mode)
	assert.Equal(t, models.StateCollectingDetails, resp.State, "flow state is frozen, not advanced")
}

func TestSocialAskWhileBookingCountsOffTopic(t *testing.T) {
	f := newFixture(3)
	f.store.sessions["s8"] = inFlowSession("s8")

	resp := f.chat(t, "s8", "do you have instagram")
	assert.True(t, resp.OffTopic)
	assert.Contains(t, resp.Reply, "@glowbook.studio",
		"social asks still get the canned handle answer")
	assert.Equal(t, models.StateCollectingDetails, resp.State)
	assert.Equal(t, 1, f.store.sessions["s8"].OffTopicCount)

	resp = f.chat(t, "s8", "what about facebook")
	assert.True(t, resp.OffTopic)
	assert.Equal(t, 2, f.store.sessions["s8"].OffTopicCount)

	resp = f.chat(t, "s8", "and your tiktok?")
	assert.Equal(t, ModeChat, resp.Mode)
	assert.True(t, f.store.sessions["s8"].PermanentChat,
		"repeated social asks escalate like any other off-topic run")
}

func TestBookingQuestionKeepsFlowState(t *testing.T) {
	f := newFixture(3)
	f.store.sessions["s3"] = inFlowSession("s3")

	resp := f.chat(t, "s3", "what does the package cost?")
	assert.Equal(t, ModeQuestion, resp.Mode)
	assert.Equal(t, models.StateCollectingDetails, resp.State)
	assert.Contains(t, resp.Reply, "the gold package includes airbrush makeup")
	assert.Equal(t, 0, f.store.sessions["s3"].OffTopicCount,
		"an on-domain question resets the off-topic counter")
}

func TestKnowledgeUnavailableFallsBack(t *testing.T) {
	f := newFixture(3)
	f.svc.Knowledge = &fakeKnowledge{err: knowledge.ErrUnavailable}
	f.store.sessions["s4"] = inFlowSession("s4")

	resp := f.chat(t, "s4", "what does the package cost?")
	assert.Equal(t, ModeQuestion, resp.Mode)
	assert.NotEmpty(t, resp.Reply)
}

func TestOTPIssueFailureRevertsToConfirming(t *testing.T) {
	f := newFixture(3)
	f.otp.issueErr = errors.New("whatsapp gateway down")
	f.store.sessions["s5"] = confirmingSession("s5")

	resp := f.chat(t, "s5", "yes")
	assert.Equal(t, models.StateConfirming, resp.State)
	assert.Equal(t, models.StateConfirming, f.store.sessions["s5"].State,
		"the user can confirm again once the gateway recovers")
}

func TestWrongOTPDoesNotPersistBooking(t *testing.T) {
	f := newFixture(3)
	f.otp.verifyErr = errors.New("mismatch")
	mem := confirmingSession("s6")
	mem.State = models.StateOTPSent
	f.store.sessions["s6"] = mem

	resp := f.chat(t, "s6", "000000")
	assert.Equal(t, models.StateOTPSent, resp.State)
	assert.Empty(t, resp.BookingID)
	assert.Empty(t, f.bookings.inserted)
}

func TestResetDeletesSession(t *testing.T) {
	f := newFixture(3)
	f.store.sessions["s7"] = inFlowSession("s7")

	require.NoError(t, f.svc.Reset(context.Background(), "s7"))
	assert.NotContains(t, f.store.sessions, "s7")
}

func inFlowSession(id string) *models.ConversationMemory {
	mem := models.NewConversationMemory(id, "en")
	mem.State = models.StateCollectingDetails
	mem.Intent.Service = "Bridal Makeup Services"
	mem.Intent.Package = "Signature Bridal Makeup"
	return mem
}

func confirmingSession(id string) *models.ConversationMemory {
	mem := models.NewConversationMemory(id, "en")
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
