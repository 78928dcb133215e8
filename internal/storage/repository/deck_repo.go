// Package repository implements database access for decks and deck cards.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deckvault/deckvault/internal/storage/models"
)

// DeckRepository handles database operations for decks.
type DeckRepository interface {
	// Create inserts a new deck.
	Create(ctx context.Context, deck *models.Deck) error

	// CreateTx inserts a new deck inside an existing transaction. Used
	// by deck duplication so the deck and its copied cards commit
	// together or not at all.
	CreateTx(ctx context.Context, tx *sql.Tx, deck *models.Deck) error

	// Update updates an existing deck's editable fields and summaries.
	Update(ctx context.Context, deck *models.Deck) error

	// GetByID retrieves a deck by its ID. Returns nil, nil when no deck
	// with that ID exists.
	GetByID(ctx context.Context, id string) (*models.Deck, error)

	// List retrieves all decks, most recently updated first.
	List(ctx context.Context) ([]*models.Deck, error)

	// ListPublic retrieves all public decks, most recently updated first.
	ListPublic(ctx context.Context) ([]*models.Deck, error)

	// Delete removes a deck. Its cards cascade.
	Delete(ctx context.Context, id string) error

	// UpdateSummary writes the denormalized card-count and price summary.
	UpdateSummary(ctx context.Context, id string, totalCards int, estimatedPrice float64) error
}

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new deck repository.
func NewDeckRepository(db *sql.DB) DeckRepository {
	return &deckRepository{db: db}
}

const deckColumns = `id, name, description, format, colors, is_public,
	       total_cards, estimated_price, created_at, updated_at`

const deckInsert = `
		INSERT INTO decks (
			id, name, description, format, colors, is_public,
			total_cards, estimated_price, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

func deckInsertArgs(deck *models.Deck) []interface{} {
	return []interface{}{
		deck.ID,
		deck.Name,
		deck.Description,
		deck.Format,
		deck.ColorsJSON(),
		deck.IsPublic,
		deck.TotalCards,
		deck.EstimatedPrice,
		deck.CreatedAt,
		deck.UpdatedAt,
	}
}

func (r *deckRepository) Create(ctx context.Context, deck *models.Deck) error {
	if _, err := r.db.ExecContext(ctx, deckInsert, deckInsertArgs(deck)...); err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

func (r *deckRepository) CreateTx(ctx context.Context, tx *sql.Tx, deck *models.Deck) error {
	if _, err := tx.ExecContext(ctx, deckInsert, deckInsertArgs(deck)...); err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	return nil
}

func (r *deckRepository) Update(ctx context.Context, deck *models.Deck) error {
	query := `
		UPDATE decks
		SET name = ?, description = ?, format = ?, colors = ?,
		    is_public = ?, total_cards = ?, estimated_price = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		deck.Name,
		deck.Description,
		deck.Format,
		deck.ColorsJSON(),
		deck.IsPublic,
		deck.TotalCards,
		deck.EstimatedPrice,
		deck.UpdatedAt,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck: %w", err)
	}

	return nil
}

func (r *deckRepository) GetByID(ctx context.Context, id string) (*models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE id = ?`

	deck, err := scanDeck(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck by id: %w", err)
	}

	return deck, nil
}

func (r *deckRepository) List(ctx context.Context) ([]*models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks ORDER BY updated_at DESC`
	return r.queryDecks(ctx, query)
}

func (r *deckRepository) ListPublic(ctx context.Context) ([]*models.Deck, error) {
	query := `SELECT ` + deckColumns + ` FROM decks WHERE is_public = 1 ORDER BY updated_at DESC`
	return r.queryDecks(ctx, query)
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

func (r *deckRepository) UpdateSummary(ctx context.Context, id string, totalCards int, estimatedPrice float64) error {
	query := `UPDATE decks SET total_cards = ?, estimated_price = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, totalCards, estimatedPrice, id)
	if err != nil {
		return fmt.Errorf("failed to update deck summary: %w", err)
	}
	return nil
}

func (r *deckRepository) queryDecks(ctx context.Context, query string, args ...interface{}) ([]*models.Deck, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var decks []*models.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}

	return decks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeck(row rowScanner) (*models.Deck, error) {
	deck := &models.Deck{}
	var colors string
	err := row.Scan(
		&deck.ID,
		&deck.Name,
		&deck.Description,
		&deck.Format,
		&colors,
		&deck.IsPublic,
		&deck.TotalCards,
		&deck.EstimatedPrice,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := deck.SetColorsJSON(colors); err != nil {
		return nil, fmt.Errorf("failed to parse deck colors: %w", err)
	}
	return deck, nil
}
