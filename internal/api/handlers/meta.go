package handlers

import (
	"net/http"

	"github.com/deckvault/deckvault/internal/api/response"
	"github.com/deckvault/deckvault/internal/deck"
)

// MetaHandler serves the static option catalogs.
type MetaHandler struct{}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// Formats returns the supported deck formats.
func (h *MetaHandler) Formats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, deck.Formats())
}

// Colors returns the deck color options.
func (h *MetaHandler) Colors(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, deck.Colors())
}
