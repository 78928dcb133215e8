package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deckvault/deckvault/internal/api/handlers"
	"github.com/deckvault/deckvault/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.decks != nil)
	s.router.Get("/health", systemHandler.Health)

	s.router.Route("/api/v1", func(r chi.Router) {
		cardHandler := handlers.NewCardHandler(s.client)
		r.Get("/cards/search", cardHandler.Search)

		setHandler := handlers.NewSetHandler(s.browser)
		r.Route("/sets", func(r chi.Router) {
			r.Get("/", setHandler.ListSets)
			r.Post("/{code}/load", setHandler.LoadSet)
			r.Get("/{code}/cards", setHandler.GetCards)
			r.Post("/{code}/reset", setHandler.ResetFilters)
		})

		feedHandler := handlers.NewFeedHandler(s.browser)
		r.Route("/feeds", func(r chi.Router) {
			r.Get("/latest", feedHandler.Latest)
			r.Get("/latest/sets", feedHandler.LatestSets)
			r.Get("/popular", feedHandler.PopularTabs)
			r.Get("/popular/{tab}", feedHandler.Popular)
		})

		metaHandler := handlers.NewMetaHandler()
		r.Route("/meta", func(r chi.Router) {
			r.Get("/formats", metaHandler.Formats)
			r.Get("/colors", metaHandler.Colors)
		})

		r.Route("/decks", func(r chi.Router) {
			if s.decks == nil {
				r.HandleFunc("/*", persistenceDisabled)
				r.HandleFunc("/", persistenceDisabled)
				return
			}

			deckHandler := handlers.NewDeckHandler(s.decks)
			r.Get("/", deckHandler.ListDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", deckHandler.GetDeck)
				r.Put("/", deckHandler.UpdateDeck)
				r.Delete("/", deckHandler.DeleteDeck)
				r.Post("/duplicate", deckHandler.DuplicateDeck)
				r.Get("/stats", deckHandler.GetStatistics)
				r.Get("/charts/{chart}", deckHandler.GetChart)
				r.Route("/cards", func(r chi.Router) {
					r.Get("/", deckHandler.ListCards)
					r.Post("/", deckHandler.AddCard)
					r.Patch("/{cardID}", deckHandler.UpdateCardQuantity)
					r.Delete("/{cardID}", deckHandler.RemoveCard)
				})
			})
		})
	})
}

func persistenceDisabled(w http.ResponseWriter, _ *http.Request) {
	response.ServiceUnavailable(w, errors.New("deck persistence is not configured"))
}
