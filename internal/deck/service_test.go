package deck

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/deckvault/deckvault/internal/storage"
	"github.com/deckvault/deckvault/internal/storage/repository"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := storage.OpenForTesting()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func validInput(name string) CreateDeckInput {
	return CreateDeckInput{
		Name:   name,
		Format: "commander",
		Colors: []string{"W", "U"},
	}
}

func TestCreateAndGetDeck(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Azorius"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated deck id")
	}

	got, err := svc.GetDeck(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if got.Name != "Azorius" || got.Format != "commander" {
		t.Errorf("unexpected deck: %+v", got)
	}
}

func TestCreateDeckValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateDeckInput
	}{
		{"missing name", CreateDeckInput{Format: "modern"}},
		{"unknown format", CreateDeckInput{Name: "X", Format: "kitchen-table"}},
		{"unknown color", CreateDeckInput{Name: "X", Format: "modern", Colors: []string{"Z"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateDeck(ctx, tt.input); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetDeckNotFound(t *testing.T) {
	svc := setupService(t)

	_, err := svc.GetDeck(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateDeck(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Before"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	in := validInput("After")
	in.IsPublic = true
	updated, err := svc.UpdateDeck(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateDeck failed: %v", err)
	}
	if updated.Name != "After" || !updated.IsPublic {
		t.Errorf("update not applied: %+v", updated)
	}
}

func TestDeleteDeck(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Doomed"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	if err := svc.DeleteDeck(ctx, created.ID); err != nil {
		t.Fatalf("DeleteDeck failed: %v", err)
	}
	if _, err := svc.GetDeck(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := svc.DeleteDeck(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestAddCardRefreshesSummary(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Burn"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	_, err = svc.AddCard(ctx, created.ID, AddCardInput{
		CardID:   "scry-1",
		CardName: "Lightning Bolt",
		CardType: "Instant",
		ManaCost: "{R}",
		PriceUSD: 2.00,
		Quantity: 4,
	})
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	got, err := svc.GetDeck(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDeck failed: %v", err)
	}
	if got.TotalCards != 4 {
		t.Errorf("expected total_cards 4, got %d", got.TotalCards)
	}
	if got.EstimatedPrice != 8.00 {
		t.Errorf("expected estimated_price 8.00, got %f", got.EstimatedPrice)
	}
}

func TestAddCardDefaultsQuantity(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Deck"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}

	added, err := svc.AddCard(ctx, created.ID, AddCardInput{CardID: "c1", CardName: "Bolt"})
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}
	if added.Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", added.Quantity)
	}
}

func TestUpdateCardQuantityAndRemove(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Deck"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	added, err := svc.AddCard(ctx, created.ID, AddCardInput{
		CardID: "c1", CardName: "Bolt", PriceUSD: 1.00, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	if err := svc.UpdateCardQuantity(ctx, created.ID, added.ID, 3); err != nil {
		t.Fatalf("UpdateCardQuantity failed: %v", err)
	}
	got, _ := svc.GetDeck(ctx, created.ID)
	if got.TotalCards != 3 {
		t.Errorf("summary not refreshed on quantity change: %d", got.TotalCards)
	}

	if err := svc.UpdateCardQuantity(ctx, created.ID, added.ID, 0); err == nil {
		t.Error("expected error for quantity 0")
	}

	if err := svc.RemoveCard(ctx, created.ID, added.ID); err != nil {
		t.Fatalf("RemoveCard failed: %v", err)
	}
	got, _ = svc.GetDeck(ctx, created.ID)
	if got.TotalCards != 0 || got.EstimatedPrice != 0 {
		t.Errorf("summary not refreshed on remove: %+v", got)
	}
}

func TestRemoveCardWrongDeck(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	deckA, _ := svc.CreateDeck(ctx, validInput("A"))
	deckB, _ := svc.CreateDeck(ctx, validInput("B"))
	added, err := svc.AddCard(ctx, deckA.ID, AddCardInput{CardID: "c1", CardName: "Bolt"})
	if err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	if err := svc.RemoveCard(ctx, deckB.ID, added.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing a card through the wrong deck, got %v", err)
	}
}

func TestDuplicateDeck(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	in := validInput("Original")
	in.IsPublic = true
	original, err := svc.CreateDeck(ctx, in)
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	for _, name := range []string{"Bolt", "Shock", "Incinerate"} {
		if _, err := svc.AddCard(ctx, original.ID, AddCardInput{
			CardID: "c-" + name, CardName: name, ManaCost: "{R}", Quantity: 2,
		}); err != nil {
			t.Fatalf("AddCard failed: %v", err)
		}
	}

	dup, err := svc.DuplicateDeck(ctx, original.ID)
	if err != nil {
		t.Fatalf("DuplicateDeck failed: %v", err)
	}

	if dup.ID == original.ID {
		t.Error("duplicate must get a new id")
	}
	if dup.Name != "Original (Copy)" {
		t.Errorf("expected name %q, got %q", "Original (Copy)", dup.Name)
	}
	if dup.IsPublic {
		t.Error("duplicate must be private")
	}

	copied, err := svc.ListCards(ctx, dup.ID)
	if err != nil {
		t.Fatalf("ListCards failed: %v", err)
	}
	originals, _ := svc.ListCards(ctx, original.ID)
	if len(copied) != len(originals) {
		t.Fatalf("expected %d copied cards, got %d", len(originals), len(copied))
	}
	for i := range copied {
		if copied[i].ID == originals[i].ID {
			t.Error("copied card reused the original row id")
		}
		if copied[i].CardID != originals[i].CardID || copied[i].Quantity != originals[i].Quantity {
			t.Errorf("copied card %d differs: %+v vs %+v", i, copied[i], originals[i])
		}
		if copied[i].DeckID != dup.ID {
			t.Errorf("copied card %d points at deck %s", i, copied[i].DeckID)
		}
	}
}

// copyFailCards fails every card copy while delegating everything else
// to the real repository.
type copyFailCards struct {
	repository.DeckCardRepository
}

func (copyFailCards) CopyToDeck(ctx context.Context, tx *sql.Tx, fromDeckID, toDeckID string, newIDs []string) error {
	return errors.New("copy interrupted")
}

func TestDuplicateDeckRollsBackOnCopyFailure(t *testing.T) {
	db, err := storage.OpenForTesting()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	svc := NewService(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	original, err := svc.CreateDeck(ctx, validInput("Original"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := svc.AddCard(ctx, original.ID, AddCardInput{
		CardID: "c1", CardName: "Bolt", Quantity: 2,
	}); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	svc.cards = copyFailCards{svc.cards}
	if _, err := svc.DuplicateDeck(ctx, original.ID); err == nil {
		t.Fatal("expected duplication to fail")
	}

	// The failed duplication must leave no trace: no half-created deck,
	// no card rows outside the original.
	var deckCount int
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM decks").Scan(&deckCount); err != nil {
		t.Fatalf("deck count query failed: %v", err)
	}
	if deckCount != 1 {
		t.Errorf("expected only the original deck, found %d rows", deckCount)
	}

	var orphanCount int
	err = db.Conn().QueryRow("SELECT COUNT(*) FROM deck_cards WHERE deck_id != ?", original.ID).Scan(&orphanCount)
	if err != nil {
		t.Fatalf("card count query failed: %v", err)
	}
	if orphanCount != 0 {
		t.Errorf("expected no card rows outside the original deck, found %d", orphanCount)
	}
}

func TestDuplicateDeckNotFound(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.DuplicateDeck(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStatisticsThroughService(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, err := svc.CreateDeck(ctx, validInput("Stats"))
	if err != nil {
		t.Fatalf("CreateDeck failed: %v", err)
	}
	if _, err := svc.AddCard(ctx, created.ID, AddCardInput{
		CardID: "c1", CardName: "Beast", CardType: "Creature", ManaCost: "{3}{G}{G}", Quantity: 2,
	}); err != nil {
		t.Fatalf("AddCard failed: %v", err)
	}

	stats, err := svc.GetStatistics(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.TotalCards != 2 {
		t.Errorf("expected 2 cards, got %d", stats.TotalCards)
	}
	if stats.ManaCurve[5] != 2 {
		t.Errorf("expected 2 cards at CMC 5, got %d", stats.ManaCurve[5])
	}
}
