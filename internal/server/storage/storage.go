// Package storage defines persistence of relay server documents.
package storage

//go:generate moq -out storage_mock.go . DocumentStorage

import (
	"context"

	"github.com/iudanet/txtpresence/internal/models"
)

// DocumentStorage defines interface for document persistence
type DocumentStorage interface {
	// CreateDocument stores a new document
	// Returns ErrDocumentExists if the locator is taken
	CreateDocument(ctx context.Context, doc *models.Document) error

	// GetDocument retrieves a document by locator
	// Returns ErrDocumentNotFound if document doesn't exist
	GetDocument(ctx context.Context, locator string) (*models.Document, error)

	// UpdateDocument stores new text and version of an existing document.
	// The stored version must be lower than doc.Version, otherwise
	// ErrStaleVersion is returned. Returns ErrDocumentNotFound if document doesn't exist.
	UpdateDocument(ctx context.Context, doc *models.Document) error

	// Close releases the storage
	Close() error
}
