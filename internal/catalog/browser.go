package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deckvault/deckvault/internal/scryfall"
)

const (
	// maxFeedPages caps multi-page feed loads so a huge result set
	// cannot keep paging forever.
	maxFeedPages = 10

	// latestWindow is how far back the latest-cards feed looks.
	latestWindow = 6 * 30 * 24 * time.Hour
)

// searchClient is the slice of the Scryfall client the browser needs.
type searchClient interface {
	SearchCards(ctx context.Context, query string, opts scryfall.SearchOptions) (*scryfall.SearchResult, error)
	NextPage(ctx context.Context, prev *scryfall.SearchResult) (*scryfall.SearchResult, error)
	ListSets(ctx context.Context) ([]scryfall.Set, error)
}

// LoadResult is the outcome of a multi-page card load. Cards holds
// everything gathered; TotalCards is the total the API reported for the
// query, which can exceed len(Cards) when a load stops early.
type LoadResult struct {
	Cards      []scryfall.Card
	TotalCards int
	// Partial is true when a later page failed and Cards holds only
	// what was gathered before the failure.
	Partial bool
}

// Browser loads card lists from Scryfall and keeps per-selection filter
// state. A selection is a set code or feed tab; fetches are tagged with
// the selection they were issued for, and results for a selection that is
// no longer current are discarded rather than committed.
type Browser struct {
	client searchClient
	logger *slog.Logger

	mu        sync.Mutex
	selection string
	cards     map[string][]scryfall.Card
	totals    map[string]int

	States *StateMap
}

// NewBrowser creates a browser with default filter state per selection.
func NewBrowser(client searchClient, logger *slog.Logger, defaultSort string, pageSize int) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		client: client,
		logger: logger,
		cards:  make(map[string][]scryfall.Card),
		totals: make(map[string]int),
		States: NewStateMap(defaultSort, pageSize),
	}
}

// Select makes key the current selection and returns any cards already
// loaded for it.
func (b *Browser) Select(key string) []scryfall.Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selection = key
	return b.cards[key]
}

// Selection returns the current selection key.
func (b *Browser) Selection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.selection
}

// Cards returns the loaded cards and reported total for key.
func (b *Browser) Cards(key string) ([]scryfall.Card, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cards[key], b.totals[key]
}

// LoadSet fetches every card in the given set, page by page in order,
// and commits the result under the set's code. If the selection has
// moved on by the time the load finishes, the result is dropped.
func (b *Browser) LoadSet(ctx context.Context, code string) (*LoadResult, error) {
	query := fmt.Sprintf("set:%s", code)
	res, err := b.loadAllPages(ctx, query, scryfall.SearchOptions{Order: "name"}, 0)
	if err != nil {
		return nil, err
	}
	b.commit(code, res)
	return res, nil
}

// LatestCards fetches cards released in the last six months, newest
// first, capped at maxFeedPages pages, and commits them under key.
func (b *Browser) LatestCards(ctx context.Context, key string) (*LoadResult, error) {
	since := time.Now().Add(-latestWindow).Format("2006-01-02")
	query := fmt.Sprintf("date>=%s", since)
	opts := scryfall.SearchOptions{Order: "released", Dir: "desc"}
	res, err := b.loadAllPages(ctx, query, opts, maxFeedPages)
	if err != nil {
		return nil, err
	}
	b.commit(key, res)
	return res, nil
}

// Queries behind the popular-cards feed tabs, with how many cards each
// tab shows.
var popularTabs = map[string]struct {
	query string
	limit int
}{
	"planeswalkers": {"type:planeswalker", 50},
	"ltr":           {"set:ltr", 100},
	"legendary":     {"type:legendary type:creature", 50},
}

// PopularTabs lists the known popular-feed tab keys.
func PopularTabs() []string {
	return []string{"planeswalkers", "ltr", "legendary"}
}

// PopularCards fetches the cards for one popular-feed tab and commits
// them under key. Unknown tabs return an error.
func (b *Browser) PopularCards(ctx context.Context, key, tab string) (*LoadResult, error) {
	spec, ok := popularTabs[tab]
	if !ok {
		return nil, fmt.Errorf("unknown popular tab %q", tab)
	}
	res, err := b.loadAllPages(ctx, spec.query, scryfall.SearchOptions{}, maxFeedPages)
	if err != nil {
		return nil, err
	}
	if len(res.Cards) > spec.limit {
		res.Cards = res.Cards[:spec.limit]
	}
	b.commit(key, res)
	return res, nil
}

// AllPopularCards fetches every popular tab. A failed tab contributes an
// empty list rather than failing the whole fetch.
func (b *Browser) AllPopularCards(ctx context.Context) map[string][]scryfall.Card {
	out := make(map[string][]scryfall.Card, len(popularTabs))
	for _, tab := range PopularTabs() {
		res, err := b.PopularCards(ctx, tab, tab)
		if err != nil {
			b.logger.Warn("popular tab fetch failed", "tab", tab, "error", err)
			out[tab] = nil
			continue
		}
		out[tab] = res.Cards
	}
	return out
}

// loadAllPages walks a search result sequentially, one page at a time,
// concatenating pages in order. The client's rate limiter spaces the
// requests. A failure on a later page retains what was gathered and
// marks the result partial; a failure on the first page is an error.
func (b *Browser) loadAllPages(ctx context.Context, query string, opts scryfall.SearchOptions, maxPages int) (*LoadResult, error) {
	page, err := b.client.SearchCards(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	result := &LoadResult{
		Cards:      append([]scryfall.Card(nil), page.Data...),
		TotalCards: page.TotalCards,
	}

	pages := 1
	for page.HasMore && (maxPages == 0 || pages < maxPages) {
		next, err := b.client.NextPage(ctx, page)
		if err != nil {
			b.logger.Warn("page fetch failed, keeping partial result",
				"query", query, "pages_loaded", pages, "error", err)
			result.Partial = true
			return result, nil
		}
		result.Cards = append(result.Cards, next.Data...)
		page = next
		pages++
	}

	return result, nil
}

// commit stores a load result under key unless the selection has changed
// since the load was issued for it.
func (b *Browser) commit(key string, res *LoadResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selection != "" && b.selection != key {
		b.logger.Debug("discarding stale load", "loaded", key, "current", b.selection)
		return
	}
	b.cards[key] = res.Cards
	b.totals[key] = res.TotalCards
}

// ListSets fetches all sets from the API.
func (b *Browser) ListSets(ctx context.Context) ([]scryfall.Set, error) {
	sets, err := b.client.ListSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}
