package models

// ConversationState is the current stage of a booking conversation.
// It is owned by the dialogue engine and stored alongside, not inside,
// the IntentRecord so intent and stage can be reasoned about independently.
type ConversationState string

const (
	StateGreeting          ConversationState = "greeting"
	StateInfoMode          ConversationState = "info_mode"
	StateSelectingService  ConversationState = "selecting_service"
	StateSelectingPackage  ConversationState = "selecting_package"
	StateCollectingDetails ConversationState = "collecting_details"
	StateConfirming        ConversationState = "confirming"
	StateOTPSent           ConversationState = "otp_sent"
	StateCompleted         ConversationState = "completed"
)

// StateFromString maps a stored state string back to a ConversationState,
// defaulting to the greeting stage for anything unrecognized.
func StateFromString(s string) ConversationState {
	switch ConversationState(s) {
	case StateGreeting, StateInfoMode, StateSelectingService, StateSelectingPackage,
		StateCollectingDetails, StateConfirming, StateOTPSent, StateCompleted:
		return ConversationState(s)
	}
	return StateGreeting
}

// InBookingFlow reports whether the state is part of the active booking
// sequence (as opposed to greeting or informational browsing).
func (s ConversationState) InBookingFlow() bool {
	switch s {
	case StateSelectingService, StateSelectingPackage, StateCollectingDetails,
		StateConfirming, StateOTPSent, StateCompleted:
		return true
	}
	return false
}
