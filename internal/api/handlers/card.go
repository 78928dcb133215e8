package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/deckvault/deckvault/internal/api/response"
	"github.com/deckvault/deckvault/internal/scryfall"
)

// cardSearcher is the slice of the Scryfall client used by CardHandler.
type cardSearcher interface {
	SearchCards(ctx context.Context, query string, opts scryfall.SearchOptions) (*scryfall.SearchResult, error)
}

// CardHandler proxies card searches to the Scryfall API.
type CardHandler struct {
	client cardSearcher
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(client cardSearcher) *CardHandler {
	return &CardHandler{client: client}
}

// SearchResponse is one page of card search results.
type SearchResponse struct {
	Data       []scryfall.Card `json:"data"`
	TotalCards int             `json:"total_cards"`
	HasMore    bool            `json:"has_more"`
}

// Search runs a card search. Query parameters: q (required), page,
// order, dir.
func (h *CardHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, errors.New("query parameter q is required"))
		return
	}

	opts := scryfall.SearchOptions{
		Order: r.URL.Query().Get("order"),
		Dir:   r.URL.Query().Get("dir"),
	}
	if p := r.URL.Query().Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			response.BadRequest(w, errors.New("page must be a positive integer"))
			return
		}
		opts.Page = page
	}

	result, err := h.client.SearchCards(r.Context(), query, opts)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	response.Success(w, SearchResponse{
		Data:       result.Data,
		TotalCards: result.TotalCards,
		HasMore:    result.HasMore,
	})
}
