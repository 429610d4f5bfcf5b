package storage

import "errors"

// Common storage errors
var (
	// ErrDocumentNotFound indicates that document was not found in storage
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentExists indicates that a document with this locator already exists
	ErrDocumentExists = errors.New("document already exists")

	// ErrStaleVersion indicates an update that does not advance the stored version
	ErrStaleVersion = errors.New("stale document version")
)
