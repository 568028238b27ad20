package models

// ChatRequest is the payload coming from the frontend into /api/agent/chat.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
	Language  string `json:"language,omitempty"`
}

// ChatResponse is what the agent handler returns to the frontend.
type ChatResponse struct {
	SessionID  string            `json:"session_id"`
	Reply      string            `json:"reply"`
	State      ConversationState `json:"state"`
	Action     string            `json:"action"`
	Mode       string            `json:"mode"` // "booking" or "chat"
	Understood bool              `json:"understood"`
	OffTopic   bool              `json:"off_topic,omitempty"`
	Missing    []string          `json:"missing,omitempty"`
	Summary    map[string]string `json:"summary,omitempty"`
	BookingID  string            `json:"booking_id,omitempty"`
}
