// Package feedsource fetches and parses the wikis' featured-content
// syndication feeds. It uses the gofeed library behind a circuit breaker.
package feedsource

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/resilience/circuitbreaker"
)

// Client fetches featured feeds over HTTP.
type Client struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClient creates a feed client with the given HTTP client. The HTTP
// client must carry an explicit timeout so a hanging upstream eventually
// fails with a network error instead of blocking the request.
func NewClient(client *http.Client) *Client {
	return &Client{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeaturedFeedConfig()),
	}
}

// Fetch retrieves and parses the feed at feedURL. Entries with no
// publication time are dropped: the dispatch framework orders and
// timestamps items by publication time, so an undated entry cannot be
// represented.
func (c *Client) Fetch(ctx context.Context, feedURL string) ([]entity.FeedEntry, error) {
	result, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx, feedURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("featured feed circuit breaker open, request rejected",
				slog.String("url", feedURL),
				slog.String("state", c.circuitBreaker.State().String()))
		}
		return nil, &entity.FetchError{URL: feedURL, Err: err}
	}
	return result.([]entity.FeedEntry), nil
}

func (c *Client) doFetch(ctx context.Context, feedURL string) ([]entity.FeedEntry, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "WikiTriggersBot"
	fp.Client = c.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.FeedEntry, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it.PublishedParsed == nil {
			continue
		}

		id := it.GUID
		if id == "" {
			id = it.Link
		}

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		entries = append(entries, entity.FeedEntry{
			ID:        id,
			Published: it.PublishedParsed.UTC(),
			Summary:   summary,
		})
	}

	return entries, nil
}

// DefaultHTTPClient returns the HTTP client used for upstream fetches
// when none is injected.
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
