// Package models defines the persisted deck types.
package models

import (
	"encoding/json"
	"time"
)

// Deck is a user-owned deck. TotalCards and EstimatedPrice are
// denormalized summaries recomputed by the deck service whenever the
// deck's cards change.
type Deck struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Format         string    `json:"format"`
	Colors         []string  `json:"colors"`
	IsPublic       bool      `json:"is_public"`
	TotalCards     int       `json:"total_cards"`
	EstimatedPrice float64   `json:"estimated_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ColorsJSON serializes the color list for storage. A nil list is stored
// as an empty array.
func (d *Deck) ColorsJSON() string {
	if len(d.Colors) == 0 {
		return "[]"
	}
	b, err := json.Marshal(d.Colors)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// SetColorsJSON parses a stored color list.
func (d *Deck) SetColorsJSON(s string) error {
	if s == "" {
		d.Colors = nil
		return nil
	}
	return json.Unmarshal([]byte(s), &d.Colors)
}

// DeckCard is one card entry in a deck. Card attributes are denormalized
// snapshots taken when the card was added; they are not refreshed if the
// source card changes later.
type DeckCard struct {
	ID          string    `json:"id"`
	DeckID      string    `json:"deck_id"`
	CardID      string    `json:"card_id"`
	CardName    string    `json:"card_name"`
	CardType    string    `json:"card_type"`
	ManaCost    string    `json:"mana_cost"`
	Rarity      string    `json:"rarity"`
	SetName     string    `json:"set_name"`
	ImageURL    string    `json:"image_url"`
	PriceUSD    float64   `json:"price_usd"`
	Quantity    int       `json:"quantity"`
	IsCommander bool      `json:"is_commander"`
	CreatedAt   time.Time `json:"created_at"`
}
