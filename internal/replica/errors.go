package replica

import "errors"

// Common replica errors
var (
	// ErrDocumentNotFound indicates that the document does not exist
	ErrDocumentNotFound = errors.New("document not found")

	// ErrHandleClosed indicates an operation on a released handle
	ErrHandleClosed = errors.New("handle is closed")

	// ErrNotReady indicates an operation on a handle that has not synchronized yet
	ErrNotReady = errors.New("handle is not ready")

	// ErrChangeRejected indicates a local change that lost a race with a
	// concurrent change; the replica has been resynchronized
	ErrChangeRejected = errors.New("change rejected")

	// ErrInvalidLocator indicates a locator that fails validation
	ErrInvalidLocator = errors.New("invalid locator")
)
