package catalog

import (
	"sort"
	"strings"

	"github.com/deckvault/deckvault/internal/scryfall"
)

// popularSetCodes is the curated list shown before the user searches for
// a set, newest releases first.
var popularSetCodes = []string{
	"mkm", "lci", "woe", "ltr", "mom", "one",
	"bro", "dmu", "snc", "neo", "vow", "mid",
}

// PopularSets filters the full set list down to the curated codes,
// keeping the curated order.
func PopularSets(sets []scryfall.Set) []scryfall.Set {
	byCode := make(map[string]scryfall.Set, len(sets))
	for _, s := range sets {
		byCode[s.Code] = s
	}
	out := make([]scryfall.Set, 0, len(popularSetCodes))
	for _, code := range popularSetCodes {
		if s, ok := byCode[code]; ok {
			out = append(out, s)
		}
	}
	return out
}

// FilterSets returns the sets whose name or code contains the search
// term, case-insensitively. An empty term returns the input unchanged.
func FilterSets(sets []scryfall.Set, term string) []scryfall.Set {
	if term == "" {
		return sets
	}
	term = strings.ToLower(term)
	out := make([]scryfall.Set, 0, len(sets))
	for _, s := range sets {
		if strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Code), term) {
			out = append(out, s)
		}
	}
	return out
}

// UniqueSetNames returns the distinct set names present in cards, sorted
// alphabetically.
func UniqueSetNames(cards []scryfall.Card) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, c := range cards {
		if c.SetName == "" {
			continue
		}
		if _, ok := seen[c.SetName]; ok {
			continue
		}
		seen[c.SetName] = struct{}{}
		names = append(names, c.SetName)
	}
	sort.Strings(names)
	return names
}
