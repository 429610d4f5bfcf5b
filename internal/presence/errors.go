package presence

import "errors"

// Presence errors. None of them is fatal for the session: malformed and
// unknown messages are dropped, the rest are reported to callers only.
var (
	// ErrMalformedMessage indicates an ephemeral message that is not valid JSON or has an invalid shape
	ErrMalformedMessage = errors.New("malformed presence message")

	// ErrUnknownMessageType indicates a well-formed message with an unrecognized $type
	ErrUnknownMessageType = errors.New("unknown presence message type")

	// ErrSessionClosed indicates that the session event loop has stopped
	ErrSessionClosed = errors.New("presence session is closed")
)
