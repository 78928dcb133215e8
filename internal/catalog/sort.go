package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/deckvault/deckvault/internal/scryfall"
)

// Recognized sort option keys.
const (
	SortName       = "name"
	SortNameDesc   = "name-desc"
	SortDateDesc   = "date-desc"
	SortDateAsc    = "date-asc"
	SortRarity     = "rarity"
	SortRarityDesc = "rarity-desc"
	SortPriceHigh  = "price-high"
	SortPriceLow   = "price-low"
	SortType       = "type"
)

var rarityRank = map[string]int{
	"common":   1,
	"uncommon": 2,
	"rare":     3,
	"mythic":   4,
}

// RarityRank returns the ordering rank for a rarity string, with unknown
// rarities ranking below common.
func RarityRank(rarity string) int {
	return rarityRank[strings.ToLower(rarity)]
}

// Sort orders cards in place by the given sort option. Unrecognized
// options leave the slice untouched. All orderings are stable, so ties
// keep their source order.
func Sort(cards []scryfall.Card, option string) {
	var less func(a, b *scryfall.Card) bool

	switch option {
	case SortName:
		less = func(a, b *scryfall.Card) bool { return a.Name < b.Name }
	case SortNameDesc:
		less = func(a, b *scryfall.Card) bool { return a.Name > b.Name }
	case SortDateDesc:
		less = func(a, b *scryfall.Card) bool { return a.ReleasedAt > b.ReleasedAt }
	case SortDateAsc:
		less = func(a, b *scryfall.Card) bool { return a.ReleasedAt < b.ReleasedAt }
	case SortRarity:
		less = func(a, b *scryfall.Card) bool { return RarityRank(a.Rarity) < RarityRank(b.Rarity) }
	case SortRarityDesc:
		less = func(a, b *scryfall.Card) bool { return RarityRank(a.Rarity) > RarityRank(b.Rarity) }
	case SortPriceHigh:
		less = func(a, b *scryfall.Card) bool { return priceUSD(a) > priceUSD(b) }
	case SortPriceLow:
		less = func(a, b *scryfall.Card) bool { return priceUSD(a) < priceUSD(b) }
	case SortType:
		less = func(a, b *scryfall.Card) bool { return a.TypeLine < b.TypeLine }
	default:
		return
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return less(&cards[i], &cards[j])
	})
}

// priceUSD parses the card's USD price, treating a missing or malformed
// price as zero.
func priceUSD(c *scryfall.Card) float64 {
	if c.Prices.USD == nil {
		return 0
	}
	v, err := strconv.ParseFloat(*c.Prices.USD, 64)
	if err != nil {
		return 0
	}
	return v
}
