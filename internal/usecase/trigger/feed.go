package trigger

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/utils/ident"
	"wiki-triggers/internal/utils/wikitime"
	"wiki-triggers/pkg/ttlcache"
)

// FeedClient fetches and parses a featured-content syndication feed.
// Implemented by infra/feedsource.
type FeedClient interface {
	Fetch(ctx context.Context, feedURL string) ([]entity.FeedEntry, error)
}

// EntryExtractor scrapes trigger-specific fields out of a feed entry's
// summary markup. The feed triggers assume well-formed markup, so an
// extraction error fails the whole batch.
type EntryExtractor func(entry entity.FeedEntry) (map[string]any, error)

// FeedSource turns a wiki's featured feed into canonical items. Entries
// are ordered by publication time descending before the limit is applied,
// so the newest entries survive truncation.
type FeedSource struct {
	Feed    string
	Host    func(Fields) string
	Extract EntryExtractor
	Client  FeedClient
	Cache   *ttlcache.Cache
	TTL     time.Duration
}

func (s *FeedSource) Items(ctx context.Context, fields Fields) ([]entity.Item, error) {
	feedURL := fmt.Sprintf("https://%s/w/api.php?action=featuredfeed&feed=%s",
		s.Host(fields), s.Feed)

	entries, err := s.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	// The cache hands out the same backing array to every caller, so
	// sorting must work on a copy.
	entries = slices.Clone(entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Published.After(entries[j].Published)
	})

	items := make([]entity.Item, 0, len(entries))
	for _, entry := range entries {
		item, err := s.parseEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("feed %s: entry %s: %w", s.Feed, entry.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *FeedSource) fetch(ctx context.Context, feedURL string) ([]entity.FeedEntry, error) {
	if cached, ok := s.Cache.Get(feedURL); ok {
		recordCacheLookup("feed", true)
		return cached.([]entity.FeedEntry), nil
	}
	recordCacheLookup("feed", false)

	entries, err := s.Client.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(feedURL, entries, s.TTL)
	return entries, nil
}

func (s *FeedSource) parseEntry(entry entity.FeedEntry) (entity.Item, error) {
	// Feed entry IDs occasionally arrive with an http scheme; StableID
	// canonicalizes so both variants map to one identifier.
	metaID := ident.StableID(entry.ID)

	item := entity.Item{
		CreatedAt: wikitime.ISO8601(entry.Published),
		Meta: entity.Meta{
			ID:        metaID,
			Timestamp: wikitime.Epoch(entry.Published),
		},
		Fields: map[string]any{
			"entry_id": metaID,
			"url":      entry.ID,
		},
	}

	extra, err := s.Extract(entry)
	if err != nil {
		return entity.Item{}, err
	}
	for k, v := range extra {
		item.Fields[k] = v
	}
	return item, nil
}
