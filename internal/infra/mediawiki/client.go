// Package mediawiki is a thin client for the MediaWiki Action API. It
// returns raw JSON payloads; per-trigger parsers in the usecase layer
// decode the shapes they expect.
package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/resilience/circuitbreaker"
)

// Client issues GET queries against a wiki's api.php endpoint.
type Client struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates an Action API client with the given HTTP client.
// The HTTP client must carry an explicit timeout.
func NewClient(client *http.Client) *Client {
	return &Client{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ActionAPIConfig()),
	}
}

// QueryURL builds the fully qualified query URL for a wiki host and
// parameter set. url.Values encodes keys in sorted order, so the same
// logical query always yields the same URL and therefore the same cache
// key.
func QueryURL(wiki string, params url.Values) string {
	return fmt.Sprintf("https://%s/w/api.php?%s", wiki, params.Encode())
}

// Get fetches queryURL and returns the raw response body. A non-2xx
// status is an upstream fetch error, never retried here.
func (c *Client) Get(ctx context.Context, queryURL string) ([]byte, error) {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGet(ctx, queryURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("action api circuit breaker open, request rejected",
				slog.String("url", queryURL),
				slog.String("state", c.circuitBreaker.State().String()))
		}
		return nil, &entity.FetchError{URL: queryURL, Err: err}
	}
	return result.([]byte), nil
}

func (c *Client) doGet(ctx context.Context, queryURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "WikiTriggersBot")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}
