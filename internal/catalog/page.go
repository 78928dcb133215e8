package catalog

import "github.com/deckvault/deckvault/internal/scryfall"

// Paginate returns the 1-based page of the given size from cards. Pages
// beyond the end yield an empty slice, never an error. A non-positive
// page or page size yields an empty slice.
func Paginate(cards []scryfall.Card, page, pageSize int) []scryfall.Card {
	if page < 1 || pageSize < 1 {
		return []scryfall.Card{}
	}
	start := (page - 1) * pageSize
	if start >= len(cards) {
		return []scryfall.Card{}
	}
	end := start + pageSize
	if end > len(cards) {
		end = len(cards)
	}
	return cards[start:end]
}

// TotalPages returns the number of pages needed to show total items at
// the given page size. Zero items means zero pages.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
