package catalog

import (
	"fmt"
	"testing"

	"github.com/deckvault/deckvault/internal/scryfall"
)

func makeCards(n int) []scryfall.Card {
	cards := make([]scryfall.Card, n)
	for i := range cards {
		cards[i] = scryfall.Card{ID: fmt.Sprintf("card-%03d", i)}
	}
	return cards
}

func TestPaginate(t *testing.T) {
	cards := makeCards(25)

	tests := []struct {
		name     string
		page     int
		size     int
		wantLen  int
		firstIdx int
	}{
		{"first page", 1, 10, 10, 0},
		{"middle page", 2, 10, 10, 10},
		{"short final page", 3, 10, 5, 20},
		{"past the end", 4, 10, 0, 0},
		{"exact multiple final page", 5, 5, 5, 20},
		{"zero page", 0, 10, 0, 0},
		{"zero size", 1, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(cards, tt.page, tt.size)
			if len(got) != tt.wantLen {
				t.Fatalf("expected %d cards, got %d", tt.wantLen, len(got))
			}
			if tt.wantLen > 0 && got[0].ID != cards[tt.firstIdx].ID {
				t.Errorf("expected first card %s, got %s", cards[tt.firstIdx].ID, got[0].ID)
			}
		})
	}
}

// Concatenating every page must recover the input exactly.
func TestPaginateRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25} {
		cards := makeCards(n)
		pageSize := 10
		var rebuilt []scryfall.Card
		for p := 1; p <= TotalPages(n, pageSize); p++ {
			rebuilt = append(rebuilt, Paginate(cards, p, pageSize)...)
		}
		if len(rebuilt) != n {
			t.Errorf("n=%d: rebuilt %d cards", n, len(rebuilt))
			continue
		}
		for i := range rebuilt {
			if rebuilt[i].ID != cards[i].ID {
				t.Errorf("n=%d: card %d mismatch", n, i)
				break
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}
