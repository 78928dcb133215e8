package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deckvault/deckvault/internal/deck"
	"github.com/deckvault/deckvault/internal/scryfall"
	"github.com/deckvault/deckvault/internal/storage"
)

// newTestServer builds a server over a fake Scryfall API and an
// in-memory database.
func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	fake := httptest.NewServer(http.HandlerFunc(fakeScryfall))
	t.Cleanup(fake.Close)

	db, err := storage.OpenForTesting()
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := scryfall.NewClientWithBaseURL(fake.URL)
	service := deck.NewService(db, logger)

	return NewServer(DefaultConfig(), client, service, logger), fake
}

// fakeScryfall serves a two-page set and a small search result.
func fakeScryfall(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/cards/search" && r.URL.Query().Get("page") == "":
		q := r.URL.Query().Get("q")
		if q == "set:neo" {
			json.NewEncoder(w).Encode(scryfall.SearchResult{
				Object:     "list",
				TotalCards: 3,
				HasMore:    true,
				NextPage:   "http://" + r.Host + "/cards/search?page=2&q=set%3Aneo",
				Data: []scryfall.Card{
					{ID: "1", Name: "Ambitious Assault", TypeLine: "Sorcery", ManaCost: "{1}{W}", Rarity: "common"},
					{ID: "2", Name: "Banishing Slash", TypeLine: "Sorcery", ManaCost: "{W}", Rarity: "uncommon"},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(scryfall.SearchResult{
			Object:     "list",
			TotalCards: 1,
			Data:       []scryfall.Card{{ID: "x", Name: "Lightning Bolt", ManaCost: "{R}", Rarity: "common"}},
		})
	case r.URL.Path == "/cards/search":
		json.NewEncoder(w).Encode(scryfall.SearchResult{
			Object:     "list",
			TotalCards: 3,
			Data: []scryfall.Card{
				{ID: "3", Name: "Commune with Spirits", TypeLine: "Instant", ManaCost: "{G}", Rarity: "common"},
			},
		})
	case r.URL.Path == "/sets":
		json.NewEncoder(w).Encode(scryfall.SetList{
			Object: "list",
			Data: []scryfall.Set{
				{Code: "neo", Name: "Kamigawa: Neon Dynasty", SetType: "expansion"},
				{Code: "ltr", Name: "The Lord of the Rings", SetType: "expansion"},
			},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(scryfall.APIError{Code: "not_found", Status: 404, Details: "nope"})
	}
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var status struct {
		Status      string `json:"status"`
		Persistence bool   `json:"persistence"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "ok" || !status.Persistence {
		t.Errorf("unexpected health payload: %+v", status)
	}
}

func TestCardSearchRequiresQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/cards/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCardSearch(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/cards/search?q=bolt", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Data       []scryfall.Card `json:"data"`
			TotalCards int             `json:"total_cards"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.TotalCards != 1 || len(resp.Data.Data) != 1 {
		t.Errorf("unexpected search payload: %+v", resp.Data)
	}
}

func TestSetLoadAndBrowse(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/sets/neo/load", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load failed: %d %s", rec.Code, rec.Body.String())
	}

	var load struct {
		Data struct {
			Loaded     int  `json:"loaded"`
			TotalCards int  `json:"total_cards"`
			Partial    bool `json:"partial"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &load); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Both pages merged.
	if load.Data.Loaded != 3 || load.Data.TotalCards != 3 || load.Data.Partial {
		t.Fatalf("unexpected load result: %+v", load.Data)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/sets/neo/cards", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cards failed: %d", rec.Code)
	}
	var page struct {
		Data       []scryfall.Card `json:"data"`
		TotalCount int             `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.TotalCount != 3 {
		t.Errorf("expected 3 filtered cards, got %d", page.TotalCount)
	}

	// Filtering by color narrows the list.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/sets/neo/cards?colors=W", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("expected 2 white cards, got %d", page.TotalCount)
	}
}

func TestSetCardsNotLoaded(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/sets/unloaded/cards", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unloaded set, got %d", rec.Code)
	}
}

func TestListSets(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/v1/sets/?search=kamigawa", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data []scryfall.Set `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Code != "neo" {
		t.Errorf("unexpected sets: %+v", resp.Data)
	}
}

func TestMetaEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/meta/formats", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("formats: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/meta/colors", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("colors: expected 200, got %d", rec.Code)
	}
}

func TestDeckLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create.
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/decks/", deck.CreateDeckInput{
		Name: "Burn", Format: "modern", Colors: []string{"R"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	deckID := created.Data.ID

	// Add a card.
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/decks/%s/cards/", deckID), deck.AddCardInput{
		CardID: "c1", CardName: "Lightning Bolt", CardType: "Instant",
		ManaCost: "{R}", PriceUSD: 2.0, Quantity: 4,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add card failed: %d %s", rec.Code, rec.Body.String())
	}

	// Stats reflect the card.
	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/decks/%s/stats", deckID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats failed: %d", rec.Code)
	}
	var stats struct {
		Data deck.Statistics `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Data.TotalCards != 4 || stats.Data.ManaCurve[1] != 4 {
		t.Errorf("unexpected stats: %+v", stats.Data)
	}

	// Duplicate.
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/v1/decks/%s/duplicate", deckID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("duplicate failed: %d %s", rec.Code, rec.Body.String())
	}

	// Delete.
	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/v1/decks/%s", deckID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/decks/%s", deckID), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDeckRoutesWithoutPersistence(t *testing.T) {
	fake := httptest.NewServer(http.HandlerFunc(fakeScryfall))
	t.Cleanup(fake.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(DefaultConfig(), scryfall.NewClientWithBaseURL(fake.URL), nil, logger)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/decks/", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without persistence, got %d", rec.Code)
	}

	// Card browsing still works.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/cards/search?q=bolt", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("card search should still work, got %d", rec.Code)
	}
}

func TestContentTypeEnforcement(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/decks/", bytes.NewBufferString(`{"name":"X"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415 for wrong content type, got %d", rec.Code)
	}
}
