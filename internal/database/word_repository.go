package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabday/pkg/models"
)

// WordRepository handles database operations for the vocabulary
type WordRepository struct {
	db *sqlx.DB
}

// NewWordRepository creates a new repository instance
func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

const wordColumns = "id, word, category, meaning, example, created_at"

// GetAll returns the whole vocabulary in insertion order
func (r *WordRepository) GetAll(ctx context.Context) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, "SELECT "+wordColumns+" FROM words ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %w", err)
	}
	return words, nil
}

// GetByCategory returns the words of one category in insertion order
func (r *WordRepository) GetByCategory(ctx context.Context, category string) ([]models.Word, error) {
	var words []models.Word
	query := r.db.Rebind("SELECT " + wordColumns + " FROM words WHERE category = ? ORDER BY id")
	if err := r.db.SelectContext(ctx, &words, query, category); err != nil {
		return nil, fmt.Errorf("failed to get words by category: %w", err)
	}
	return words, nil
}

// FindByText returns every entry spelled like word (case-insensitive), across categories
func (r *WordRepository) FindByText(ctx context.Context, word string) ([]models.Word, error) {
	var words []models.Word
	query := r.db.Rebind("SELECT " + wordColumns + " FROM words WHERE LOWER(word) = LOWER(?) ORDER BY id")
	if err := r.db.SelectContext(ctx, &words, query, word); err != nil {
		return nil, fmt.Errorf("failed to search words: %w", err)
	}
	return words, nil
}

// Get returns the entry for (word, category), or nil
func (r *WordRepository) Get(ctx context.Context, word, category string) (*models.Word, error) {
	var w models.Word
	query := r.db.Rebind("SELECT " + wordColumns + " FROM words WHERE word = ? AND category = ?")
	err := r.db.GetContext(ctx, &w, query, word, category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %w", err)
	}
	return &w, nil
}

// Upsert inserts the word or refreshes meaning and example of an existing (word, category).
// It reports whether a new row was created.
func (r *WordRepository) Upsert(ctx context.Context, word *models.Word) (bool, error) {
	existing, err := r.Get(ctx, word.Word, word.Category)
	if err != nil {
		return false, err
	}

	if existing != nil {
		query := r.db.Rebind("UPDATE words SET meaning = ?, example = ? WHERE id = ?")
		if _, err := r.db.ExecContext(ctx, query, word.Meaning, word.Example, existing.ID); err != nil {
			return false, fmt.Errorf("failed to update word: %w", err)
		}
		word.ID = existing.ID
		word.CreatedAt = existing.CreatedAt
		return false, nil
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO words (word, category, meaning, example)
		VALUES (:word, :category, :meaning, :example)
	`, word)
	if err != nil {
		return false, fmt.Errorf("failed to create word: %w", err)
	}

	created, err := r.Get(ctx, word.Word, word.Category)
	if err != nil {
		return true, err
	}
	if created != nil {
		*word = *created
	}
	return true, nil
}

// Delete removes a word by ID
func (r *WordRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM words WHERE id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}

// Count returns the vocabulary size
func (r *WordRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return n, nil
}
