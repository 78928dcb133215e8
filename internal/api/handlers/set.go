package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/deckvault/deckvault/internal/api/response"
	"github.com/deckvault/deckvault/internal/catalog"
	"github.com/deckvault/deckvault/internal/scryfall"
)

// SetHandler handles expansion-set browsing requests.
type SetHandler struct {
	browser *catalog.Browser
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(browser *catalog.Browser) *SetHandler {
	return &SetHandler{browser: browser}
}

// ListSets returns Magic sets. Query parameters: search narrows by name
// or code, popular=true returns the curated list instead.
func (h *SetHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.browser.ListSets(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	if r.URL.Query().Get("popular") == "true" {
		response.Success(w, catalog.PopularSets(sets))
		return
	}
	response.Success(w, catalog.FilterSets(sets, r.URL.Query().Get("search")))
}

// LoadResponse reports the outcome of a set load.
type LoadResponse struct {
	SetCode    string `json:"set_code"`
	Loaded     int    `json:"loaded"`
	TotalCards int    `json:"total_cards"`
	Partial    bool   `json:"partial"`
}

// LoadSet fetches every card of a set into the browser cache. The set
// becomes the current selection.
func (h *SetHandler) LoadSet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, errors.New("set code is required"))
		return
	}

	h.browser.Select(code)
	res, err := h.browser.LoadSet(r.Context(), code)
	if err != nil {
		if scryfall.IsNotFound(err) {
			response.NotFound(w, err)
			return
		}
		response.InternalError(w, err)
		return
	}

	response.Success(w, LoadResponse{
		SetCode:    code,
		Loaded:     len(res.Cards),
		TotalCards: res.TotalCards,
		Partial:    res.Partial,
	})
}

// GetCards returns one page of a loaded set's cards after applying the
// set's filter state. Query parameters update the stored state: search,
// colors (comma-separated), rarity, set, sort, page_size; page selects
// the page after any state change reset it to 1.
func (h *SetHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	cards, _ := h.browser.Cards(code)
	if cards == nil {
		response.NotFound(w, errors.New("set not loaded"))
		return
	}

	page, total, snap, err := applyAndPage(h.browser.States, code, cards, r.URL.Query())
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Paginated(w, page, snap.CurrentPage, snap.PageSize, total)
}

// ResetFilters restores the set's filter state to defaults.
func (h *SetHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	h.browser.States.Reset(code)
	response.Success(w, h.browser.States.Get(code))
}

// applyAndPage folds query parameters into the stored filter state for
// key and runs the filter pipeline, all under the state map's lock so
// concurrent requests for the same view never race. It returns the
// resulting page, the filtered total and a snapshot of the state.
func applyAndPage(states *catalog.StateMap, key string, cards []scryfall.Card, q url.Values) ([]scryfall.Card, int, catalog.FilterState, error) {
	var page []scryfall.Card
	var total int
	var snap catalog.FilterState
	err := states.Update(key, func(state *catalog.FilterState) error {
		if err := applyFilterParams(state, q); err != nil {
			return err
		}
		page, total = state.Apply(cards)
		snap = *state
		return nil
	})
	if err != nil {
		return nil, 0, catalog.FilterState{}, err
	}
	return page, total, snap, nil
}

// applyFilterParams folds query parameters into a filter state through
// its setters, so that every real change resets the page to 1. An
// explicit page parameter is applied last.
func applyFilterParams(state *catalog.FilterState, q url.Values) error {
	if v, ok := firstValue(q, "search"); ok && v != state.SearchTerm {
		state.SetSearchTerm(v)
	}
	if v, ok := firstValue(q, "sort"); ok && v != state.SortOption {
		state.SetSortOption(v)
	}
	if v, ok := firstValue(q, "rarity"); ok && v != state.RarityFilter {
		state.SetRarityFilter(v)
	}
	if v, ok := firstValue(q, "set"); ok && v != state.SetFilter {
		state.SetSetFilter(v)
	}
	if v, ok := firstValue(q, "colors"); ok {
		colors := splitColors(v)
		if !sameStrings(colors, state.ColorFilters) {
			state.ColorFilters = colors
			state.CurrentPage = 1
		}
	}
	if v, ok := firstValue(q, "page_size"); ok {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return errors.New("page_size must be a positive integer")
		}
		if size != state.PageSize {
			state.SetPageSize(size)
		}
	}
	if v, ok := firstValue(q, "page"); ok {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return errors.New("page must be a positive integer")
		}
		state.CurrentPage = page
	}
	return nil
}

func firstValue(q url.Values, key string) (string, bool) {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func splitColors(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
