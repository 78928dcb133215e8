package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/deckvault/deckvault/internal/storage/models"
)

// DeckCardRepository handles database operations for deck cards.
type DeckCardRepository interface {
	// Add inserts a card row into a deck.
	Add(ctx context.Context, card *models.DeckCard) error

	// Get retrieves one deck card by its row ID. Returns nil, nil when
	// the row does not exist.
	Get(ctx context.Context, id string) (*models.DeckCard, error)

	// ListByDeck retrieves all cards in a deck, ordered by card name.
	ListByDeck(ctx context.Context, deckID string) ([]*models.DeckCard, error)

	// UpdateQuantity changes the quantity of one card row.
	UpdateQuantity(ctx context.Context, id string, quantity int) error

	// Remove deletes one card row.
	Remove(ctx context.Context, id string) error

	// RemoveByDeck deletes every card row belonging to a deck.
	RemoveByDeck(ctx context.Context, deckID string) error

	// CopyToDeck copies every card row of one deck into another inside
	// the given transaction, assigning the provided row IDs in order.
	CopyToDeck(ctx context.Context, tx *sql.Tx, fromDeckID, toDeckID string, newIDs []string) error

	// CountByDeck returns the number of distinct card rows in a deck.
	CountByDeck(ctx context.Context, deckID string) (int, error)
}

type deckCardRepository struct {
	db *sql.DB
}

// NewDeckCardRepository creates a new deck card repository.
func NewDeckCardRepository(db *sql.DB) DeckCardRepository {
	return &deckCardRepository{db: db}
}

const deckCardColumns = `id, deck_id, card_id, card_name, card_type, mana_cost,
	       rarity, set_name, image_url, price_usd, quantity, is_commander, created_at`

func (r *deckCardRepository) Add(ctx context.Context, card *models.DeckCard) error {
	query := `
		INSERT INTO deck_cards (
			id, deck_id, card_id, card_name, card_type, mana_cost,
			rarity, set_name, image_url, price_usd, quantity, is_commander, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.DeckID,
		card.CardID,
		card.CardName,
		card.CardType,
		card.ManaCost,
		card.Rarity,
		card.SetName,
		card.ImageURL,
		card.PriceUSD,
		card.Quantity,
		card.IsCommander,
		card.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add deck card: %w", err)
	}

	return nil
}

func (r *deckCardRepository) Get(ctx context.Context, id string) (*models.DeckCard, error) {
	query := `SELECT ` + deckCardColumns + ` FROM deck_cards WHERE id = ?`

	card, err := scanDeckCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck card: %w", err)
	}

	return card, nil
}

func (r *deckCardRepository) ListByDeck(ctx context.Context, deckID string) ([]*models.DeckCard, error) {
	query := `SELECT ` + deckCardColumns + ` FROM deck_cards WHERE deck_id = ? ORDER BY card_name ASC`

	rows, err := r.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck cards: %w", err)
	}
	defer rows.Close()

	var cards []*models.DeckCard
	for rows.Next() {
		card, err := scanDeckCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck cards: %w", err)
	}

	return cards, nil
}

func (r *deckCardRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE deck_cards SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("failed to update card quantity: %w", err)
	}
	return nil
}

func (r *deckCardRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove deck card: %w", err)
	}
	return nil
}

func (r *deckCardRepository) RemoveByDeck(ctx context.Context, deckID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM deck_cards WHERE deck_id = ?`, deckID)
	if err != nil {
		return fmt.Errorf("failed to clear deck cards: %w", err)
	}
	return nil
}

func (r *deckCardRepository) CopyToDeck(ctx context.Context, tx *sql.Tx, fromDeckID, toDeckID string, newIDs []string) error {
	query := `SELECT ` + deckCardColumns + ` FROM deck_cards WHERE deck_id = ? ORDER BY card_name ASC`

	rows, err := tx.QueryContext(ctx, query, fromDeckID)
	if err != nil {
		return fmt.Errorf("failed to read source deck cards: %w", err)
	}

	var cards []*models.DeckCard
	for rows.Next() {
		card, err := scanDeckCard(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan source deck card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate source deck cards: %w", err)
	}
	rows.Close()

	if len(cards) > len(newIDs) {
		return fmt.Errorf("need %d ids for copied cards, have %d", len(cards), len(newIDs))
	}

	insert := `
		INSERT INTO deck_cards (
			id, deck_id, card_id, card_name, card_type, mana_cost,
			rarity, set_name, image_url, price_usd, quantity, is_commander, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, card := range cards {
		_, err := tx.ExecContext(ctx, insert,
			newIDs[i],
			toDeckID,
			card.CardID,
			card.CardName,
			card.CardType,
			card.ManaCost,
			card.Rarity,
			card.SetName,
			card.ImageURL,
			card.PriceUSD,
			card.Quantity,
			card.IsCommander,
			card.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to copy deck card %s: %w", card.CardName, err)
		}
	}

	return nil
}

func (r *deckCardRepository) CountByDeck(ctx context.Context, deckID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deck_cards WHERE deck_id = ?`, deckID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deck cards: %w", err)
	}
	return count, nil
}

func scanDeckCard(row rowScanner) (*models.DeckCard, error) {
	card := &models.DeckCard{}
	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.CardID,
		&card.CardName,
		&card.CardType,
		&card.ManaCost,
		&card.Rarity,
		&card.SetName,
		&card.ImageURL,
		&card.PriceUSD,
		&card.Quantity,
		&card.IsCommander,
		&card.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return card, nil
}
