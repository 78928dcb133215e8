// Package scryfall provides a client for the Scryfall API.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	userAgent      = "DeckVault/1.0"

	// Scryfall asks for 50-100ms between requests.
	requestsPerSecond = 10

	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
)

// Client is a rate-limited Scryfall API client. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates a new Scryfall API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a client pointed at an alternate API root.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// doRequest performs a rate-limited GET against the given URL, retrying
// transient failures, and decodes the JSON response body into v.
func (c *Client) doRequest(ctx context.Context, rawurl string, v interface{}) error {
	body, err := c.doRequestRaw(ctx, rawurl)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRequestRaw performs a rate-limited GET and returns the raw response
// body. Callers that follow next_page URLs use this directly.
func (c *Client) doRequestRaw(ctx context.Context, rawurl string) ([]byte, error) {
	backoff := initialBackoff
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusNotFound:
			return nil, &NotFoundError{URL: rawurl}
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = apiErrorFromBody(resp.StatusCode, body)
			continue
		default:
			return nil, apiErrorFromBody(resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func apiErrorFromBody(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Details == "" {
		apiErr.Code = http.StatusText(status)
	}
	apiErr.Status = status
	return apiErr
}

// GetCard fetches a single card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	var card Card
	u := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}
	return &card, nil
}

// GetCardByName fetches a card by exact name.
func (c *Client) GetCardByName(ctx context.Context, name string) (*Card, error) {
	var card Card
	u := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}
	return &card, nil
}

// SearchOptions controls a card search request.
type SearchOptions struct {
	// Order is the Scryfall sort order (e.g. "name", "released", "cmc").
	Order string
	// Dir is the sort direction ("asc", "desc", "auto").
	Dir string
	// Page is the 1-based result page; zero means first page.
	Page int
	// IncludeExtras includes tokens and other extras when true.
	IncludeExtras bool
}

// SearchCards runs a Scryfall full-text search and returns one page of
// results. An empty result set is returned as an empty page, not an error.
func (c *Client) SearchCards(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.Dir != "" {
		params.Set("dir", opts.Dir)
	}
	if opts.Page > 1 {
		params.Set("page", fmt.Sprintf("%d", opts.Page))
	}
	if opts.IncludeExtras {
		params.Set("include_extras", "true")
	}

	var result SearchResult
	u := fmt.Sprintf("%s/cards/search?%s", c.baseURL, params.Encode())
	err := c.doRequest(ctx, u, &result)
	if err != nil {
		// Scryfall answers 404 for searches with zero hits.
		if IsNotFound(err) {
			return &SearchResult{Object: "list", Data: []Card{}}, nil
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return &result, nil
}

// NextPage follows a result's next_page URL and returns the following page.
func (c *Client) NextPage(ctx context.Context, prev *SearchResult) (*SearchResult, error) {
	if prev == nil || !prev.HasMore || prev.NextPage == "" {
		return nil, fmt.Errorf("no next page available")
	}
	var result SearchResult
	if err := c.doRequest(ctx, prev.NextPage, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch next page: %w", err)
	}
	return &result, nil
}

// ListSets fetches all Magic sets.
func (c *Client) ListSets(ctx context.Context) ([]Set, error) {
	var list SetList
	u := fmt.Sprintf("%s/sets", c.baseURL)
	if err := c.doRequest(ctx, u, &list); err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	return list.Data, nil
}

// GetSet fetches a single set by its code.
func (c *Client) GetSet(ctx context.Context, code string) (*Set, error) {
	var set Set
	u := fmt.Sprintf("%s/sets/%s", c.baseURL, url.PathEscape(code))
	if err := c.doRequest(ctx, u, &set); err != nil {
		return nil, fmt.Errorf("failed to get set %s: %w", code, err)
	}
	return &set, nil
}
