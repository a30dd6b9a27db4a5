package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/worlder/internal/models"
	"github.com/desertthunder/worlder/internal/shared"
)

// SQLiteDocumentStore keeps one favorites document per user in the favorite_documents table.
//
// It backs the remote favorites contract when no shared store is configured.
type SQLiteDocumentStore struct {
	db *sql.DB
}

// NewSQLiteDocumentStore creates a new [SQLiteDocumentStore] with the given database connection
func NewSQLiteDocumentStore(db *sql.DB) *SQLiteDocumentStore {
	return &SQLiteDocumentStore{db: db}
}

// Get returns the user's document and whether it exists.
func (s *SQLiteDocumentStore) Get(ctx context.Context, userID string) (*models.FavoritesDocument, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM favorite_documents WHERE user_id = ?", userID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query favorites document: %w", err)
	}

	var doc models.FavoritesDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("failed to decode favorites document for %s: %w", userID, err)
	}
	return &doc, true, nil
}

// Set replaces the user's document, creating it when absent.
func (s *SQLiteDocumentStore) Set(ctx context.Context, userID string, doc *models.FavoritesDocument) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", shared.ErrInvalidArgument)
	}

	raw, err := json.Marshal(documentOrEmpty(doc))
	if err != nil {
		return fmt.Errorf("failed to encode favorites document: %w", err)
	}

	query := `
		INSERT INTO favorite_documents (user_id, document) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, userID, string(raw)); err != nil {
		return fmt.Errorf("failed to write favorites document: %w", err)
	}
	return nil
}

// documentOrEmpty normalises nil documents and nil movie lists so they encode as {"movies":[]}.
func documentOrEmpty(doc *models.FavoritesDocument) *models.FavoritesDocument {
	if doc == nil {
		return &models.FavoritesDocument{Movies: []models.FavoriteEntry{}}
	}
	if doc.Movies == nil {
		return &models.FavoritesDocument{Movies: []models.FavoriteEntry{}}
	}
	return doc
}
