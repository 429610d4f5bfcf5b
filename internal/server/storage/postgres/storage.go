// Package postgres implements document storage on PostgreSQL through a pgx
// connection pool.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/iudanet/txtpresence/internal/models"
	"github.com/iudanet/txtpresence/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// uniqueViolation is the PostgreSQL error code of a unique constraint violation
const uniqueViolation = "23505"

// Storage represents PostgreSQL storage implementation
type Storage struct {
	pool *pgxpool.Pool
}

var _ storage.DocumentStorage = (*Storage)(nil)

// New connects to databaseURL and applies migrations.
func New(ctx context.Context, databaseURL string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.runMigrations(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// runMigrations выполняет миграции через database/sql обертку над пулом
func (s *Storage) runMigrations() error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetBaseFS(embedMigrations)

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// CreateDocument stores a new document
func (s *Storage) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (locator, text, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, doc.Locator, doc.Text, doc.Version, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrDocumentExists
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return nil
}

// GetDocument retrieves a document by locator
func (s *Storage) GetDocument(ctx context.Context, locator string) (*models.Document, error) {
	query := `
		SELECT locator, text, version, created_at, updated_at
		FROM documents
		WHERE locator = $1
	`

	doc := &models.Document{}
	err := s.pool.QueryRow(ctx, query, locator).Scan(
		&doc.Locator,
		&doc.Text,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return doc, nil
}

// UpdateDocument stores new text and version of an existing document
func (s *Storage) UpdateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET text = $1, version = $2, updated_at = $3
		WHERE locator = $4 AND version < $2
	`

	tag, err := s.pool.Exec(ctx, query, doc.Text, doc.Version, doc.UpdatedAt, doc.Locator)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	if _, err := s.GetDocument(ctx, doc.Locator); err != nil {
		return err
	}
	return storage.ErrStaleVersion
}
