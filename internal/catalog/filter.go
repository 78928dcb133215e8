// Package catalog implements the in-memory card browsing pipeline:
// filtering, sorting and pagination over card lists fetched from Scryfall.
package catalog

import (
	"strings"

	"github.com/deckvault/deckvault/internal/scryfall"
)

// Sentinel value for RarityFilter meaning "no rarity filtering".
const RarityAll = "all"

// FilterState holds the browsing state for one card view. It is ephemeral:
// nothing here is ever persisted.
type FilterState struct {
	SearchTerm   string
	SortOption   string
	ColorFilters []string
	RarityFilter string
	SetFilter    string
	CurrentPage  int
	PageSize     int
}

// DefaultFilterState returns a fresh state with the given default sort
// option and page size.
func DefaultFilterState(sortOption string, pageSize int) FilterState {
	return FilterState{
		SortOption:   sortOption,
		ColorFilters: nil,
		RarityFilter: RarityAll,
		CurrentPage:  1,
		PageSize:     pageSize,
	}
}

// Reset restores all filters to their defaults in one step. The page is
// always reset to 1.
func (s *FilterState) Reset(defaultSort string) {
	s.SearchTerm = ""
	s.SortOption = defaultSort
	s.ColorFilters = nil
	s.RarityFilter = RarityAll
	s.SetFilter = ""
	s.CurrentPage = 1
}

// SetSearchTerm updates the text filter and resets the page.
func (s *FilterState) SetSearchTerm(term string) {
	s.SearchTerm = term
	s.CurrentPage = 1
}

// SetSortOption updates the sort key and resets the page.
func (s *FilterState) SetSortOption(opt string) {
	s.SortOption = opt
	s.CurrentPage = 1
}

// ToggleColor adds the color code to the filter set if absent, removes it
// if present, and resets the page.
func (s *FilterState) ToggleColor(code string) {
	for i, c := range s.ColorFilters {
		if c == code {
			s.ColorFilters = append(s.ColorFilters[:i], s.ColorFilters[i+1:]...)
			s.CurrentPage = 1
			return
		}
	}
	s.ColorFilters = append(s.ColorFilters, code)
	s.CurrentPage = 1
}

// SetRarityFilter updates the rarity filter and resets the page.
func (s *FilterState) SetRarityFilter(rarity string) {
	s.RarityFilter = rarity
	s.CurrentPage = 1
}

// SetSetFilter updates the set-name filter and resets the page. An empty
// name means all sets.
func (s *FilterState) SetSetFilter(setName string) {
	s.SetFilter = setName
	s.CurrentPage = 1
}

// SetPageSize updates the page size and resets the page.
func (s *FilterState) SetPageSize(size int) {
	s.PageSize = size
	s.CurrentPage = 1
}

// Apply runs the full pipeline: filter, sort, then slice out the current
// page. It never mutates cards. The returned total is the filtered count
// before pagination.
func (s *FilterState) Apply(cards []scryfall.Card) (page []scryfall.Card, total int) {
	filtered := Filter(cards, s.SearchTerm, s.ColorFilters, s.RarityFilter, s.SetFilter)
	Sort(filtered, s.SortOption)
	return Paginate(filtered, s.CurrentPage, s.PageSize), len(filtered)
}

// Filter returns the cards matching every predicate, in source order.
// The input slice is never modified.
func Filter(cards []scryfall.Card, searchTerm string, colorFilters []string, rarityFilter, setFilter string) []scryfall.Card {
	out := make([]scryfall.Card, 0, len(cards))
	for _, c := range cards {
		if matchesText(&c, searchTerm) && matchesColors(&c, colorFilters) &&
			matchesRarity(&c, rarityFilter) && matchesSet(&c, setFilter) {
			out = append(out, c)
		}
	}
	return out
}

// matchesText reports whether the search term is a case-insensitive
// substring of the card's name, type line, oracle text or set name.
func matchesText(c *scryfall.Card, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), term) ||
		strings.Contains(strings.ToLower(c.TypeLine), term) ||
		strings.Contains(strings.ToLower(c.OracleText), term) ||
		strings.Contains(strings.ToLower(c.SetName), term)
}

// matchesColors applies AND semantics across the selected color codes.
// Colorless (C) is exclusive: a card with no mana cost matches only when
// C is the sole selected code, and a card with a mana cost never matches
// a C-only selection.
func matchesColors(c *scryfall.Card, filters []string) bool {
	if len(filters) == 0 {
		return true
	}

	chromatic := make([]string, 0, len(filters))
	hasColorless := false
	for _, f := range filters {
		if f == "C" {
			hasColorless = true
		} else {
			chromatic = append(chromatic, f)
		}
	}

	if c.ManaCost == "" {
		return hasColorless && len(chromatic) == 0
	}

	if len(chromatic) == 0 {
		// Colored card against a colorless-only selection.
		return false
	}

	for _, code := range chromatic {
		if !strings.Contains(c.ManaCost, "{"+code+"}") && !strings.Contains(c.ManaCost, code) {
			return false
		}
	}
	return true
}

func matchesRarity(c *scryfall.Card, rarity string) bool {
	if rarity == "" || rarity == RarityAll {
		return true
	}
	return strings.EqualFold(c.Rarity, rarity)
}

func matchesSet(c *scryfall.Card, setName string) bool {
	if setName == "" {
		return true
	}
	return strings.EqualFold(c.SetName, setName)
}
