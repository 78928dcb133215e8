// Package mana parses mana-cost strings into symbol tokens and derives
// converted mana cost. The token vocabulary here is shared with the catalog
// color filter and the deck statistics aggregator, which match on the same
// bracketed symbols.
package mana

import (
	"regexp"
	"strconv"
)

// SymbolKind classifies a parsed mana symbol.
type SymbolKind int

const (
	// Color is a single colored or colorless pip: W, U, B, R, G, C.
	Color SymbolKind = iota
	// Numeric is a pure-digit generic cost, e.g. the "2" in {2}.
	Numeric
	// Generic is everything else: hybrid costs, {X}, Phyrexian mana.
	// Displayed verbatim.
	Generic
)

// Symbol is one bracketed token from a mana-cost string.
type Symbol struct {
	// Text is the token content without braces, e.g. "W", "2", "W/U".
	Text string
	Kind SymbolKind
}

var (
	tokenRegex = regexp.MustCompile(`\{[^}]+\}`)
	pipRegex   = regexp.MustCompile(`^[WUBRGC]$`)
	digitRegex = regexp.MustCompile(`^\d+$`)
)

// Parse extracts the bracketed symbols of a mana-cost string in
// left-to-right order. An empty or absent cost yields no symbols; callers
// render that as a single placeholder glyph.
func Parse(manaCost string) []Symbol {
	if manaCost == "" {
		return nil
	}

	tokens := tokenRegex.FindAllString(manaCost, -1)
	symbols := make([]Symbol, 0, len(tokens))
	for _, token := range tokens {
		content := token[1 : len(token)-1]
		symbols = append(symbols, Symbol{Text: content, Kind: classify(content)})
	}
	return symbols
}

// classify maps token content to a symbol kind.
func classify(content string) SymbolKind {
	switch {
	case pipRegex.MatchString(content):
		return Color
	case digitRegex.MatchString(content):
		return Numeric
	default:
		return Generic
	}
}

// CMC computes the converted mana cost of a mana-cost string: the sum of all
// numeric tokens plus one per single-color pip. Non-pip, non-numeric tokens
// (hybrid, X) contribute nothing. An empty cost is CMC 0.
func CMC(manaCost string) int {
	cmc := 0
	for _, sym := range Parse(manaCost) {
		switch sym.Kind {
		case Numeric:
			n, err := strconv.Atoi(sym.Text)
			if err == nil {
				cmc += n
			}
		case Color:
			cmc++
		}
	}
	return cmc
}

// Pips returns the single-letter color pips of a mana-cost string in order,
// one entry per occurrence. {W}{W}{U} yields ["W", "W", "U"].
func Pips(manaCost string) []string {
	var pips []string
	for _, sym := range Parse(manaCost) {
		if sym.Kind == Color {
			pips = append(pips, sym.Text)
		}
	}
	return pips
}
