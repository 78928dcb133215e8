// Package deck implements deck management: CRUD orchestration over the
// repositories, statistics aggregation, and chart rendering.
package deck

import (
	"sort"
	"strings"

	"github.com/deckvault/deckvault/internal/mana"
	"github.com/deckvault/deckvault/internal/storage/models"
)

// Statistics summarizes one deck's card list. All maps are keyed by the
// raw stored values; nothing is normalized here.
type Statistics struct {
	TotalCards         int            `json:"total_cards"`
	TotalPrice         float64        `json:"total_price"`
	ManaCurve          map[int]int    `json:"mana_curve"`
	TypeDistribution   map[string]int `json:"type_distribution"`
	ColorDistribution  map[string]int `json:"color_distribution"`
	RarityDistribution map[string]int `json:"rarity_distribution"`
}

// ComputeStatistics aggregates a deck's card rows into Statistics. The
// input is never mutated. Cards without a mana cost contribute nothing
// to the mana curve, so lands are invisible there.
func ComputeStatistics(cards []*models.DeckCard) *Statistics {
	stats := &Statistics{
		ManaCurve:          make(map[int]int),
		TypeDistribution:   make(map[string]int),
		ColorDistribution:  make(map[string]int),
		RarityDistribution: make(map[string]int),
	}

	for _, card := range cards {
		stats.TotalCards += card.Quantity
		stats.TotalPrice += float64(card.Quantity) * card.PriceUSD

		if card.ManaCost != "" {
			cmc := mana.CMC(card.ManaCost)
			stats.ManaCurve[cmc] += card.Quantity
		}

		if t := MainType(card.CardType); t != "" {
			stats.TypeDistribution[t] += card.Quantity
		}

		for _, pip := range mana.Pips(card.ManaCost) {
			stats.ColorDistribution[pip] += card.Quantity
		}

		if card.Rarity != "" {
			stats.RarityDistribution[card.Rarity] += card.Quantity
		}
	}

	return stats
}

// MainType returns the first whitespace-delimited token of a type line,
// the coarse grouping key used across the deck views.
func MainType(typeLine string) string {
	fields := strings.Fields(typeLine)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// GroupByType buckets cards by main type, each bucket sorted by card
// name ascending.
func GroupByType(cards []*models.DeckCard) map[string][]*models.DeckCard {
	groups := make(map[string][]*models.DeckCard)
	for _, card := range cards {
		t := MainType(card.CardType)
		groups[t] = append(groups[t], card)
	}
	for _, bucket := range groups {
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].CardName < bucket[j].CardName
		})
	}
	return groups
}
