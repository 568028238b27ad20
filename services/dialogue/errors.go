package dialogue

import "errors"

var (
	// ErrStateTransition reports a message the engine could not act on in
	// the session's current stage.
	ErrStateTransition = errors.New("dialogue: no transition for message in current state")

	// ErrCollaboratorTimeout is returned by callers wrapping slow external
	// collaborators (knowledge lookups, OTP delivery) so the agent can soft-fail
	// without moving the conversation state.
	ErrCollaboratorTimeout = errors.New("dialogue: collaborator timed out")
)
