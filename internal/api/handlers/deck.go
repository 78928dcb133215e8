package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckvault/deckvault/internal/api/response"
	"github.com/deckvault/deckvault/internal/deck"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	service *deck.Service
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(service *deck.Service) *DeckHandler {
	return &DeckHandler{service: service}
}

// ListDecks returns decks matching the optional query filters: search,
// format, color, visibility (public|private).
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.service.ListDecks(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	q := r.URL.Query()
	filtered := deck.FilterDecks(decks, deck.ListFilter{
		Search:     q.Get("search"),
		Format:     q.Get("format"),
		Color:      q.Get("color"),
		Visibility: q.Get("visibility"),
	})
	response.Success(w, filtered)
}

// CreateDeck creates a new deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var in deck.CreateDeckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	created, err := h.service.CreateDeck(r.Context(), in)
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			response.NotFound(w, err)
			return
		}
		response.BadRequest(w, err)
		return
	}

	response.Created(w, created)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, d)
}

// UpdateDeck replaces a deck's editable fields.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	var in deck.CreateDeckInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	updated, err := h.service.UpdateDeck(r.Context(), chi.URLParam(r, "deckID"), in)
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			response.NotFound(w, err)
			return
		}
		response.BadRequest(w, err)
		return
	}
	response.Success(w, updated)
}

// DeleteDeck removes a deck and its cards.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDeck(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// DuplicateDeck copies a deck and all its cards.
func (h *DeckHandler) DuplicateDeck(w http.ResponseWriter, r *http.Request) {
	dup, err := h.service.DuplicateDeck(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Created(w, dup)
}

// GetStatistics returns the deck's computed statistics.
func (h *DeckHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStatistics(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.Success(w, stats)
}

// GetChart renders one of the deck's charts as an HTML page. The chart
// URL parameter selects mana-curve, colors or types.
func (h *DeckHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	d, err := h.service.GetDeck(r.Context(), deckID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	stats, err := h.service.GetStatistics(r.Context(), deckID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch chi.URLParam(r, "chart") {
	case "mana-curve":
		err = deck.RenderManaCurve(stats, d.Name, w)
	case "colors":
		err = deck.RenderColorDistribution(stats, d.Name, w)
	case "types":
		err = deck.RenderTypeDistribution(stats, d.Name, w)
	default:
		response.NotFound(w, errors.New("unknown chart"))
		return
	}
	if err != nil {
		response.InternalError(w, err)
	}
}

// ListCards returns a deck's cards ordered by name, optionally grouped
// by primary type with grouped=true.
func (h *DeckHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context(), chi.URLParam(r, "deckID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if r.URL.Query().Get("grouped") == "true" {
		response.Success(w, deck.GroupByType(cards))
		return
	}
	response.Success(w, cards)
}

// AddCard adds a card to a deck.
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var in deck.AddCardInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	card, err := h.service.AddCard(r.Context(), chi.URLParam(r, "deckID"), in)
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			response.NotFound(w, err)
			return
		}
		response.BadRequest(w, err)
		return
	}
	response.Created(w, card)
}

// UpdateCardQuantityRequest changes one card row's quantity.
type UpdateCardQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCardQuantity changes the quantity of one card in a deck.
func (h *DeckHandler) UpdateCardQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Quantity < 1 {
		response.BadRequest(w, errors.New("quantity must be at least 1"))
		return
	}

	err := h.service.UpdateCardQuantity(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"), req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

// RemoveCard removes one card row from a deck.
func (h *DeckHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveCard(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	response.NoContent(w)
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, deck.ErrNotFound) {
		response.NotFound(w, err)
		return
	}
	response.InternalError(w, err)
}
