package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckvault/deckvault/internal/api/response"
	"github.com/deckvault/deckvault/internal/catalog"
)

// Feed keys used as selection/state keys in the browser.
const (
	latestFeedKey    = "feed:latest"
	popularKeyPrefix = "feed:popular:"
)

// FeedHandler handles the latest and popular card feeds.
type FeedHandler struct {
	browser *catalog.Browser
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(browser *catalog.Browser) *FeedHandler {
	return &FeedHandler{browser: browser}
}

// Latest returns recently released cards, fetching them on first access
// and then serving the cached list through the feed's filter state.
func (h *FeedHandler) Latest(w http.ResponseWriter, r *http.Request) {
	cards, _ := h.browser.Cards(latestFeedKey)
	if cards == nil {
		h.browser.Select(latestFeedKey)
		res, err := h.browser.LatestCards(r.Context(), latestFeedKey)
		if err != nil {
			response.InternalError(w, err)
			return
		}
		cards = res.Cards
	}

	page, total, snap, err := applyAndPage(h.browser.States, latestFeedKey, cards, r.URL.Query())
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Paginated(w, page, snap.CurrentPage, snap.PageSize, total)
}

// LatestSets returns the distinct set names present in the latest feed,
// for populating its set filter. The feed must have been fetched first.
func (h *FeedHandler) LatestSets(w http.ResponseWriter, r *http.Request) {
	cards, _ := h.browser.Cards(latestFeedKey)
	if cards == nil {
		response.NotFound(w, errors.New("latest feed not loaded"))
		return
	}
	response.Success(w, catalog.UniqueSetNames(cards))
}

// PopularTabs lists the available popular-feed tabs.
func (h *FeedHandler) PopularTabs(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, catalog.PopularTabs())
}

// Popular returns the cards for one popular-feed tab.
func (h *FeedHandler) Popular(w http.ResponseWriter, r *http.Request) {
	tab := chi.URLParam(r, "tab")
	key := popularKeyPrefix + tab

	cards, _ := h.browser.Cards(key)
	if cards == nil {
		h.browser.Select(key)
		res, err := h.browser.PopularCards(r.Context(), key, tab)
		if err != nil {
			response.BadRequest(w, errors.New("unknown popular tab"))
			return
		}
		cards = res.Cards
	}

	page, total, snap, err := applyAndPage(h.browser.States, key, cards, r.URL.Query())
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Paginated(w, page, snap.CurrentPage, snap.PageSize, total)
}
