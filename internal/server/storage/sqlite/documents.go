package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/server/storage"
)

// CreateDocument stores a new document
// Returns storage.ErrDocumentExists if the locator is taken
func (s *Storage) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (locator, text, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.Locator,
		doc.Text,
		doc.Version,
		doc.CreatedAt.Unix(),
		doc.UpdatedAt.Unix(),
	)
	if err != nil {
		// modernc sqlite не экспортирует коды ошибок в удобном виде, проверяем текст
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrDocumentExists
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// GetDocument retrieves a document by locator
// Returns storage.ErrDocumentNotFound if document doesn't exist
func (s *Storage) GetDocument(ctx context.Context, locator string) (*models.Document, error) {
	query := `
		SELECT locator, text, version, created_at, updated_at
		FROM documents
		WHERE locator = ?
	`

	doc := &models.Document{}
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx, query, locator).Scan(
		&doc.Locator,
		&doc.Text,
		&doc.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.CreatedAt = unixToTime(createdAt)
	doc.UpdatedAt = unixToTime(updatedAt)

	return doc, nil
}

// UpdateDocument stores new text and version of an existing document
func (s *Storage) UpdateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET text = ?, version = ?, updated_at = ?
		WHERE locator = ? AND version < ?
	`

	res, err := s.db.ExecContext(ctx, query,
		doc.Text,
		doc.Version,
		doc.UpdatedAt.Unix(),
		doc.Locator,
		doc.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Ничего не обновили: документа нет или версия не новее сохраненной
	if _, err := s.GetDocument(ctx, doc.Locator); err != nil {
		return err
	}
	return storage.ErrStaleVersion
}

func unixToTime(timestamp int64) time.Time {
	return time.Unix(timestamp, 0)
}
