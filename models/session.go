package models

import "time"

// ShownList snapshots the numbered list last displayed to the user so that
// numeric selections resolve against exactly what was shown, never against
// the catalog in the abstract.
type ShownList struct {
	Kind    string   `json:"kind"` // "services" or "packages"
	Service string   `json:"service,omitempty"`
	Items   []string `json:"items"`
}

const (
	ShownServices = "services"
	ShownPackages = "packages"
)

// HistoryEntry is one turn of the conversation, kept for history recovery.
type HistoryEntry struct {
	Role string    `json:"role"` // "user" or "assistant"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// ConversationMemory is everything the dialogue core needs about one
// session: stage, intent, a rolling history window and the off-topic
// counter. The store hands it to the core at call time and persists the
// updated copy; the core itself does no I/O and no locking, so the caller
// must serialize turns per session.
type ConversationMemory struct {
	SessionID     string             `json:"sessionId"`
	Language      string             `json:"language"`
	State         ConversationState  `json:"state"`
	Intent        *IntentRecord      `json:"intent"`
	History       []HistoryEntry     `json:"history"`
	LastShown     *ShownList         `json:"lastShown,omitempty"`
	OffTopicCount int                `json:"offTopicCount"`
	PermanentChat bool               `json:"permanentChat"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

const maxHistoryEntries = 20

func NewConversationMemory(sessionID, language string) *ConversationMemory {
	if language == "" {
		language = "en"
	}
	return &ConversationMemory{
		SessionID: sessionID,
		Language:  language,
		State:     StateGreeting,
		Intent:    NewIntentRecord(),
	}
}

// AddMessage appends a turn, trimming the window from the front.
func (m *ConversationMemory) AddMessage(role, text string) {
	m.History = append(m.History, HistoryEntry{Role: role, Text: text, At: time.Now()})
	if len(m.History) > maxHistoryEntries {
		m.History = m.History[len(m.History)-maxHistoryEntries:]
	}
	m.UpdatedAt = time.Now()
}

// RecentUserTurns returns up to n user messages, most recent first.
func (m *ConversationMemory) RecentUserTurns(n int) []string {
	var turns []string
	for i := len(m.History) - 1; i >= 0 && len(turns) < n; i-- {
		if m.History[i].Role == "user" {
			turns = append(turns, m.History[i].Text)
		}
	}
	return turns
}

// ResetBooking clears the intent and returns the session to greeting
// without discarding history or the off-topic counter.
func (m *ConversationMemory) ResetBooking() {
	m.Intent.Reset()
	m.State = StateGreeting
	m.LastShown = nil
}
