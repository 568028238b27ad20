// Package agent orchestrates one chat turn end to end: session load, topic
// routing, the dialogue engine, OTP side effects, booking persistence and
// reply rendering. All I/O lives here; the engine underneath stays pure.
package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"glowbook/database/repository"
	"glowbook/models"
	"glowbook/services/dialogue"
	"glowbook/services/knowledge"
	"glowbook/services/prompt"
	"glowbook/services/session"
	"glowbook/services/tasks"
)

// Modes reported to the frontend.
const (
	ModeBooking  = "booking"
	ModeChat     = "chat"
	ModeQuestion = "question"
)

// OTPService is the slice of the otp package the agent needs.
type OTPService interface {
	Issue(ctx context.Context, sessionID, phone string) error
	Resend(ctx context.Context, sessionID, phone string) error
	Verify(ctx context.Context, sessionID, code string) error
}

// AgentService handles chat turns and session resets.
type AgentService interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
	Reset(ctx context.Context, sessionID string) error
}

// DefaultAgentService is the production wiring.
type DefaultAgentService struct {
	Sessions   session.Store
	Engine     *dialogue.FSM
	Classifier *dialogue.Classifier
	Knowledge  knowledge.Service
	OTP        OTPService
	Bookings   repository.BookingRepository
	Prompts    prompt.Renderer
	Reminders  tasks.Enqueuer

	// OffTopicThreshold is how many consecutive off-topic turns flip the
	// session into permanent chat mode.
	OffTopicThreshold int
}

func (s *DefaultAgentService) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	mem, err := s.Sessions.Get(ctx, req.SessionID, req.Language)
	if err != nil {
		return nil, err
	}
	mem.AddMessage("user", req.Message)

	var resp *models.ChatResponse
	switch {
	case mem.PermanentChat:
		resp = s.chatTurn(ctx, mem, req.Message)
	default:
		switch s.Classifier.Classify(mem.State, req.Message) {
		case dialogue.TopicOffTopic:
			resp = s.offTopicTurn(ctx, mem, req.Message)
		case dialogue.TopicBookingQuestion:
			mem.OffTopicCount = 0
			resp = s.questionTurn(ctx, mem, req.Message)
		default:
			mem.OffTopicCount = 0
			resp = s.flowTurn(ctx, mem, req.Message)
		}
	}

	mem.AddMessage("assistant", resp.Reply)
	if err := s.Sessions.Save(ctx, mem); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *DefaultAgentService) Reset(ctx context.Context, sessionID string) error {
	return s.Sessions.Delete(ctx, sessionID)
}

// flowTurn runs the dialogue engine and performs whatever side effect the
// outcome demands.
func (s *DefaultAgentService) flowTurn(ctx context.Context, mem *models.ConversationMemory, message string) *models.ChatResponse {
	out := s.Engine.Process(mem, message)

	resp := &models.ChatResponse{
		SessionID:  mem.SessionID,
		State:      out.NextState,
		Action:     string(out.Action),
		Mode:       ModeBooking,
		Understood: out.Understood,
		Missing:    out.Missing,
		Summary:    out.Summary,
	}

	switch out.Action {
	case dialogue.ActionSendOTP:
		if err := s.OTP.Issue(ctx, mem.SessionID, mem.Intent.Phone); err != nil {
			zap.L().Error("otp issue failed", zap.String("sessionID", mem.SessionID), zap.Error(err))
			mem.State = models.StateConfirming
			resp.State = models.StateConfirming
			resp.Reply = s.Prompts.OTPTrouble(mem.Language, err)
			return resp
		}
	case dialogue.ActionResendOTP:
		if err := s.OTP.Resend(ctx, mem.SessionID, mem.Intent.Phone); err != nil {
			resp.Reply = s.Prompts.OTPTrouble(mem.Language, err)
			return resp
		}
	case dialogue.ActionVerifyOTP:
		return s.verifyTurn(ctx, mem, out, resp)
	}

	resp.Reply = s.Prompts.Reply(mem, out)
	return resp
}

// verifyTurn finalizes the booking when the code checks out.
func (s *DefaultAgentService) verifyTurn(ctx context.Context, mem *models.ConversationMemory, out dialogue.Outcome, resp *models.ChatResponse) *models.ChatResponse {
	if err := s.OTP.Verify(ctx, mem.SessionID, out.OTPInput); err != nil {
		resp.Reply = s.Prompts.OTPTrouble(mem.Language, err)
		return resp
	}

	bookingID := uuid.NewString()
	booking := models.BookingFromIntent(bookingID, mem.SessionID, mem.Language, mem.Intent)
	if err := s.Bookings.Insert(ctx, booking); err != nil {
		zap.L().Error("booking persist failed", zap.String("sessionID", mem.SessionID), zap.Error(err))
		resp.Reply = s.Prompts.OTPTrouble(mem.Language, err)
		return resp
	}

	mem.State = models.StateCompleted
	resp.State = models.StateCompleted
	resp.BookingID = bookingID
	resp.Reply = s.Prompts.BookingConfirmed(mem.Language, bookingID)

	if s.Reminders != nil {
		err := s.Reminders.ScheduleEventReminder(tasks.ReminderPayload{
			BookingID: bookingID,
			Name:      booking.Name,
			Phone:     booking.Phone,
			Service:   booking.Service,
			Package:   booking.Package,
			EventDate: booking.EventDate,
			Language:  booking.Language,
		})
		if err != nil {
			zap.L().Warn("reminder scheduling failed", zap.String("bookingId", bookingID), zap.Error(err))
		}
	}
	return resp
}

// questionTurn answers an on-domain question without touching flow state,
// then reminds the user where their booking stands.
func (s *DefaultAgentService) questionTurn(ctx context.Context, mem *models.ConversationMemory, message string) *models.ChatResponse {
	var answer string
	if s.Classifier.IsSocial(message) {
		answer = s.Prompts.SocialAnswer(mem.Language)
	} else {
		answer = s.lookup(ctx, mem, message)
	}

	if reminder := s.stateReminder(mem); reminder != "" {
		answer = answer + "\n\n" + reminder
	}
	return &models.ChatResponse{
		SessionID:  mem.SessionID,
		Reply:      answer,
		State:      mem.State,
		Mode:       ModeQuestion,
		Understood: true,
	}
}

// offTopicTurn escalates the counter and hands persistent wanderers over to
// open chat for good.
func (s *DefaultAgentService) offTopicTurn(ctx context.Context, mem *models.ConversationMemory, message string) *models.ChatResponse {
	mem.OffTopicCount++
	zap.L().Debug("off-topic turn",
		zap.String("sessionID", mem.SessionID),
		zap.Int("count", mem.OffTopicCount))

	if mem.OffTopicCount >= s.OffTopicThreshold {
		mem.PermanentChat = true
		return &models.ChatResponse{
			SessionID:  mem.SessionID,
			Reply:      s.Prompts.PermanentChatNotice(mem.Language),
			State:      mem.State,
			Mode:       ModeChat,
			Understood: true,
			OffTopic:   true,
		}
	}

	reply := s.Prompts.OffTopicNudge(mem.Language, s.OffTopicThreshold-mem.OffTopicCount)
	if s.Classifier.IsSocial(message) {
		reply = s.Prompts.SocialAnswer(mem.Language)
	}
	if reminder := s.stateReminder(mem); reminder != "" {
		reply = reply + "\n\n" + reminder
	}
	return &models.ChatResponse{
		SessionID:  mem.SessionID,
		Reply:      reply,
		State:      mem.State,
		Mode:       ModeBooking,
		Understood: true,
		OffTopic:   true,
	}
}

// chatTurn serves sessions that have permanently left the booking flow.
func (s *DefaultAgentService) chatTurn(ctx context.Context, mem *models.ConversationMemory, message string) *models.ChatResponse {
	return &models.ChatResponse{
		SessionID:  mem.SessionID,
		Reply:      s.lookup(ctx, mem, message),
		State:      mem.State,
		Mode:       ModeChat,
		Understood: true,
	}
}

func (s *DefaultAgentService) lookup(ctx context.Context, mem *models.ConversationMemory, message string) string {
	if s.Knowledge == nil {
		return s.Prompts.KnowledgeFallback(mem.Language)
	}
	answer, err := s.Knowledge.Answer(ctx, knowledge.Query{
		Question: message,
		Language: mem.Language,
		State:    mem.State,
		Summary:  mem.Intent.Summary(),
	})
	if err != nil {
		if !errors.Is(err, knowledge.ErrUnavailable) {
			zap.L().Warn("knowledge answer failed", zap.String("sessionID", mem.SessionID), zap.Error(err))
		}
		return s.Prompts.KnowledgeFallback(mem.Language)
	}
	return strings.TrimSpace(answer)
}

func (s *DefaultAgentService) stateReminder(mem *models.ConversationMemory) string {
	if !mem.State.InBookingFlow() {
		return ""
	}
	return s.Prompts.StateReminder(mem.State, mem.Intent.MissingFields(), mem.Language)
}
