package docref

import "errors"

var (
	// ErrNotReady indicates that a found document did not become ready within the timeout
	ErrNotReady = errors.New("document not ready")

	// ErrSuperseded indicates that a newer resolution was requested while this one was in flight
	ErrSuperseded = errors.New("resolution superseded")

	// ErrClosed indicates that the resolver has been closed
	ErrClosed = errors.New("resolver is closed")
)
