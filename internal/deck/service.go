package deck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/deckvault/deckvault/internal/storage"
	"github.com/deckvault/deckvault/internal/storage/models"
	"github.com/deckvault/deckvault/internal/storage/repository"
)

// ErrNotFound is returned when a deck or deck card does not exist.
var ErrNotFound = errors.New("not found")

// Service orchestrates deck persistence. It owns the denormalized
// summary fields on Deck: every card change recomputes total_cards and
// estimated_price from the card rows.
type Service struct {
	db     *storage.DB
	decks  repository.DeckRepository
	cards  repository.DeckCardRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a deck service over an open database.
func NewService(db *storage.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:     db,
		decks:  repository.NewDeckRepository(db.Conn()),
		cards:  repository.NewDeckCardRepository(db.Conn()),
		logger: logger,
		now:    time.Now,
	}
}

// CreateDeckInput holds the user-editable deck fields.
type CreateDeckInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Format      string   `json:"format"`
	Colors      []string `json:"colors"`
	IsPublic    bool     `json:"is_public"`
}

// Validate checks the input against the format and color catalogs.
func (in *CreateDeckInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("deck name is required")
	}
	if !ValidFormat(in.Format) {
		return fmt.Errorf("unknown format %q", in.Format)
	}
	for _, c := range in.Colors {
		if !ValidColor(c) {
			return fmt.Errorf("unknown color %q", c)
		}
	}
	return nil
}

// CreateDeck creates a new empty deck.
func (s *Service) CreateDeck(ctx context.Context, in CreateDeckInput) (*models.Deck, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	deck := &models.Deck{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Format:      in.Format,
		Colors:      in.Colors,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	s.logger.Info("deck created", "deck_id", deck.ID, "name", deck.Name, "format", deck.Format)
	return deck, nil
}

// GetDeck retrieves a deck by ID.
func (s *Service) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	deck, err := s.decks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, fmt.Errorf("deck %s: %w", id, ErrNotFound)
	}
	return deck, nil
}

// ListDecks retrieves all decks, most recently updated first.
func (s *Service) ListDecks(ctx context.Context) ([]*models.Deck, error) {
	return s.decks.List(ctx)
}

// ListPublicDecks retrieves only public decks.
func (s *Service) ListPublicDecks(ctx context.Context) ([]*models.Deck, error) {
	return s.decks.ListPublic(ctx)
}

// UpdateDeck replaces a deck's user-editable fields.
func (s *Service) UpdateDeck(ctx context.Context, id string, in CreateDeckInput) (*models.Deck, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	deck, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}

	deck.Name = in.Name
	deck.Description = in.Description
	deck.Format = in.Format
	deck.Colors = in.Colors
	deck.IsPublic = in.IsPublic
	deck.UpdatedAt = s.now().UTC()

	if err := s.decks.Update(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}

// DeleteDeck removes a deck and, via the schema's cascade, its cards.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	if _, err := s.GetDeck(ctx, id); err != nil {
		return err
	}
	if err := s.decks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deck deleted", "deck_id", id)
	return nil
}

// DuplicateDeck copies a deck and all its cards in one transaction. The
// copy gets a fresh ID, the name "<original> (Copy)", and is private
// regardless of the original's visibility. A failure anywhere rolls the
// whole duplication back, never leaving an orphaned empty deck.
func (s *Service) DuplicateDeck(ctx context.Context, id string) (*models.Deck, error) {
	original, err := s.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.cards.CountByDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	newIDs := make([]string, count)
	for i := range newIDs {
		newIDs[i] = uuid.NewString()
	}

	now := s.now().UTC()
	dup := &models.Deck{
		ID:             uuid.NewString(),
		Name:           original.Name + " (Copy)",
		Description:    "Copy of " + original.Name,
		Format:         original.Format,
		Colors:         original.Colors,
		IsPublic:       false,
		TotalCards:     original.TotalCards,
		EstimatedPrice: original.EstimatedPrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if err := s.decks.CreateTx(ctx, tx, dup); err != nil {
			return err
		}
		return s.cards.CopyToDeck(ctx, tx, id, dup.ID, newIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("duplicate deck %s: %w", id, err)
	}

	s.logger.Info("deck duplicated", "source_id", id, "copy_id", dup.ID, "cards", count)
	return dup, nil
}

// AddCardInput holds the card snapshot taken when adding a card to a
// deck. Price and mana cost are frozen at add time.
type AddCardInput struct {
	CardID      string  `json:"card_id"`
	CardName    string  `json:"card_name"`
	CardType    string  `json:"card_type"`
	ManaCost    string  `json:"mana_cost"`
	Rarity      string  `json:"rarity"`
	SetName     string  `json:"set_name"`
	ImageURL    string  `json:"image_url"`
	PriceUSD    float64 `json:"price_usd"`
	Quantity    int     `json:"quantity"`
	IsCommander bool    `json:"is_commander"`
}

// AddCard adds a card row to a deck and refreshes the deck summary. A
// zero quantity defaults to 1.
func (s *Service) AddCard(ctx context.Context, deckID string, in AddCardInput) (*models.DeckCard, error) {
	if in.CardID == "" || in.CardName == "" {
		return nil, fmt.Errorf("card id and name are required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	if _, err := s.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}

	card := &models.DeckCard{
		ID:          uuid.NewString(),
		DeckID:      deckID,
		CardID:      in.CardID,
		CardName:    in.CardName,
		CardType:    in.CardType,
		ManaCost:    in.ManaCost,
		Rarity:      in.Rarity,
		SetName:     in.SetName,
		ImageURL:    in.ImageURL,
		PriceUSD:    in.PriceUSD,
		Quantity:    in.Quantity,
		IsCommander: in.IsCommander,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.cards.Add(ctx, card); err != nil {
		return nil, err
	}
	if err := s.refreshSummary(ctx, deckID); err != nil {
		return nil, err
	}
	return card, nil
}

// ListCards retrieves a deck's cards ordered by name.
func (s *Service) ListCards(ctx context.Context, deckID string) ([]*models.DeckCard, error) {
	if _, err := s.GetDeck(ctx, deckID); err != nil {
		return nil, err
	}
	return s.cards.ListByDeck(ctx, deckID)
}

// UpdateCardQuantity changes one card row's quantity and refreshes the
// deck summary.
func (s *Service) UpdateCardQuantity(ctx context.Context, deckID, cardRowID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	card, err := s.getCardInDeck(ctx, deckID, cardRowID)
	if err != nil {
		return err
	}

	if err := s.cards.UpdateQuantity(ctx, card.ID, quantity); err != nil {
		return err
	}
	return s.refreshSummary(ctx, deckID)
}

// RemoveCard deletes one card row and refreshes the deck summary.
func (s *Service) RemoveCard(ctx context.Context, deckID, cardRowID string) error {
	card, err := s.getCardInDeck(ctx, deckID, cardRowID)
	if err != nil {
		return err
	}

	if err := s.cards.Remove(ctx, card.ID); err != nil {
		return err
	}
	return s.refreshSummary(ctx, deckID)
}

// GetStatistics computes statistics for a deck's current card list.
func (s *Service) GetStatistics(ctx context.Context, deckID string) (*Statistics, error) {
	cards, err := s.ListCards(ctx, deckID)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(cards), nil
}

func (s *Service) getCardInDeck(ctx context.Context, deckID, cardRowID string) (*models.DeckCard, error) {
	card, err := s.cards.Get(ctx, cardRowID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.DeckID != deckID {
		return nil, fmt.Errorf("card %s in deck %s: %w", cardRowID, deckID, ErrNotFound)
	}
	return card, nil
}

// refreshSummary recomputes the denormalized total_cards and
// estimated_price from the card rows and stores them on the deck.
func (s *Service) refreshSummary(ctx context.Context, deckID string) error {
	cards, err := s.cards.ListByDeck(ctx, deckID)
	if err != nil {
		return err
	}

	total := 0
	price := 0.0
	for _, c := range cards {
		total += c.Quantity
		price += float64(c.Quantity) * c.PriceUSD
	}

	return s.decks.UpdateSummary(ctx, deckID, total, price)
}
