package trigger

import (
	"context"
	"net/url"
	"time"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/infra/mediawiki"
	"wiki-triggers/pkg/ttlcache"
)

// QueryClient fetches a structured query endpoint and returns the raw
// JSON payload. Implemented by infra/mediawiki.
type QueryClient interface {
	Get(ctx context.Context, queryURL string) ([]byte, error)
}

// RecordParser decodes the raw query payload into canonical items. An
// absent collection in the payload (no matching page, no revisions) is
// "no items this poll", not an error; parsers return an empty slice for
// that case.
type RecordParser func(raw []byte, fields Fields, wiki string) ([]entity.Item, error)

// QuerySource turns a MediaWiki Action API query into canonical items.
// The query URL is deterministic for a given field set and doubles as
// the cache key.
type QuerySource struct {
	Host   func(Fields) string
	Params func(Fields) url.Values
	Parse  RecordParser
	Client QueryClient
	Cache  *ttlcache.Cache
	TTL    time.Duration
}

func (s *QuerySource) Items(ctx context.Context, fields Fields) ([]entity.Item, error) {
	wiki := s.Host(fields)
	queryURL := mediawiki.QueryURL(wiki, s.Params(fields))

	raw, err := s.fetch(ctx, queryURL)
	if err != nil {
		return nil, err
	}
	return s.Parse(raw, fields, wiki)
}

func (s *QuerySource) fetch(ctx context.Context, queryURL string) ([]byte, error) {
	if cached, ok := s.Cache.Get(queryURL); ok {
		recordCacheLookup("query", true)
		return cached.([]byte), nil
	}
	recordCacheLookup("query", false)

	raw, err := s.Client.Get(ctx, queryURL)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(queryURL, raw, s.TTL)
	return raw, nil
}
