package deck

import (
	"strings"

	"github.com/deckvault/deckvault/internal/storage/models"
)

// FormatOption describes one playable format.
type FormatOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ColorOption describes one deck color.
type ColorOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var formats = []FormatOption{
	{Value: "standard", Label: "Standard"},
	{Value: "pioneer", Label: "Pioneer"},
	{Value: "modern", Label: "Modern"},
	{Value: "legacy", Label: "Legacy"},
	{Value: "vintage", Label: "Vintage"},
	{Value: "commander", Label: "Commander"},
	{Value: "pauper", Label: "Pauper"},
	{Value: "brawl", Label: "Brawl"},
}

var colors = []ColorOption{
	{Code: "W", Name: "White"},
	{Code: "U", Name: "Blue"},
	{Code: "B", Name: "Black"},
	{Code: "R", Name: "Red"},
	{Code: "G", Name: "Green"},
	{Code: "C", Name: "Colorless"},
}

// Formats returns the supported deck formats.
func Formats() []FormatOption {
	return formats
}

// Colors returns the deck color options.
func Colors() []ColorOption {
	return colors
}

// ValidFormat reports whether value names a supported format.
func ValidFormat(value string) bool {
	for _, f := range formats {
		if f.Value == value {
			return true
		}
	}
	return false
}

// ValidColor reports whether code is a known color code.
func ValidColor(code string) bool {
	for _, c := range colors {
		if c.Code == code {
			return true
		}
	}
	return false
}

// ListFilter narrows a deck list. Zero values mean "no filtering" for
// each field; Visibility accepts "public", "private" or "" for all.
type ListFilter struct {
	Search     string
	Format     string
	Color      string
	Visibility string
}

// FilterDecks returns the decks matching every set field of the filter,
// in source order. The input is never modified.
func FilterDecks(decks []*models.Deck, f ListFilter) []*models.Deck {
	out := make([]*models.Deck, 0, len(decks))
	for _, d := range decks {
		if matchesDeck(d, f) {
			out = append(out, d)
		}
	}
	return out
}

func matchesDeck(d *models.Deck, f ListFilter) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.Name), term) &&
			!strings.Contains(strings.ToLower(d.Description), term) {
			return false
		}
	}
	if f.Format != "" && d.Format != f.Format {
		return false
	}
	if f.Color != "" {
		found := false
		for _, c := range d.Colors {
			if c == f.Color {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	switch f.Visibility {
	case "public":
		if !d.IsPublic {
			return false
		}
	case "private":
		if d.IsPublic {
			return false
		}
	}
	return true
}
