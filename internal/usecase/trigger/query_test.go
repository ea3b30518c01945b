package trigger

import (
	"context"
	"strings"
	"testing"
	"time"

	"wiki-triggers/pkg/ttlcache"
)

type stubQueryClient struct {
	payload []byte
	calls   int
	lastURL string
}

func (c *stubQueryClient) Get(_ context.Context, queryURL string) ([]byte, error) {
	c.calls++
	c.lastURL = queryURL
	return c.payload, nil
}

func newArticleSource(client QueryClient) *QuerySource {
	svc := NewArticle(Deps{
		QueryClient: client,
		Cache:       ttlcache.New(nil),
		TTL:         5 * time.Minute,
	})
	return svc.Source.(*QuerySource)
}

func TestNewArticleParsesRecords(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{
		"query": {"recentchanges": [{
			"title": "Some Article",
			"timestamp": "2015-01-02T00:00:00Z",
			"user": "Editor",
			"newlen": 500,
			"oldlen": 0,
			"comment": "created page"
		}]}
	}`)}

	src := newArticleSource(client)
	items, err := src.Items(context.Background(), Fields{"lang": "en"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	item := items[0]
	if item.Fields["url"] != "https://en.wikipedia.org/wiki/Some_Article" {
		t.Errorf("url = %v", item.Fields["url"])
	}
	if item.Fields["size"] != int64(500) {
		t.Errorf("size = %v", item.Fields["size"])
	}
	if item.CreatedAt != "2015-01-02T00:00:00Z" {
		t.Errorf("created_at = %q", item.CreatedAt)
	}
	if item.Meta.Timestamp != time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC).Unix() {
		t.Errorf("meta.timestamp = %d", item.Meta.Timestamp)
	}
	if !strings.Contains(client.lastURL, "en.wikipedia.org") {
		t.Errorf("query hit %q, want the en host", client.lastURL)
	}
}

func TestNewArticleMissingCollectionIsEmpty(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{"batchcomplete": ""}`)}

	src := newArticleSource(client)
	items, err := src.Items(context.Background(), Fields{"lang": "en"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0 for absent collection", len(items))
	}
}

func TestArticleRevisionsMissingPagesIsEmpty(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{"query": {}}`)}
	svc := ArticleRevisions(Deps{
		QueryClient: client,
		Cache:       ttlcache.New(nil),
		TTL:         5 * time.Minute,
	})
	src := svc.Source.(*QuerySource)

	items, err := src.Items(context.Background(), Fields{"lang": "en", "title": "Coffee"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want 0", len(items))
	}
}

func TestArticleRevisionsParsesDiffURL(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{
		"query": {"pages": {"12345": {"revisions": [{
			"revid": 101,
			"parentid": 100,
			"timestamp": "2015-01-02T00:00:00Z",
			"user": "Editor",
			"size": 1200,
			"comment": "copy edit"
		}]}}}
	}`)}
	svc := ArticleRevisions(Deps{
		QueryClient: client,
		Cache:       ttlcache.New(nil),
		TTL:         5 * time.Minute,
	})
	src := svc.Source.(*QuerySource)

	items, err := src.Items(context.Background(), Fields{"lang": "en", "title": "Coffee"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Fields["url"] != "https://en.wikipedia.org/w/index.php?diff=101&oldid=100" {
		t.Errorf("url = %v", items[0].Fields["url"])
	}
	if items[0].Fields["title"] != "Coffee" {
		t.Errorf("title = %v", items[0].Fields["title"])
	}
}

func TestUserRevisionsParsesContribs(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{
		"query": {"usercontribs": [{
			"revid": 7,
			"parentid": 6,
			"timestamp": "2015-01-01T12:30:00Z",
			"title": "Coffee",
			"size": 900,
			"comment": "reverted vandalism"
		}]}
	}`)}
	svc := UserRevisions(Deps{
		QueryClient: client,
		Cache:       ttlcache.New(nil),
		TTL:         5 * time.Minute,
	})
	src := svc.Source.(*QuerySource)

	items, err := src.Items(context.Background(), Fields{"lang": "en", "user": "ClueBot"})
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Fields["user"] != "ClueBot" {
		t.Errorf("user = %v", items[0].Fields["user"])
	}
	if items[0].Fields["title"] != "Coffee" {
		t.Errorf("title = %v", items[0].Fields["title"])
	}
}

func TestQuerySourceCaches(t *testing.T) {
	client := &stubQueryClient{payload: []byte(`{"query": {"recentchanges": []}}`)}
	src := newArticleSource(client)

	ctx := context.Background()
	if _, err := src.Items(ctx, Fields{"lang": "en"}); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if _, err := src.Items(ctx, Fields{"lang": "en"}); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("two fetches inside TTL made %d upstream calls, want 1", client.calls)
	}

	// A different language is a different query URL, so it misses.
	if _, err := src.Items(ctx, Fields{"lang": "de"}); err != nil {
		t.Fatalf("Items: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("distinct key served from cache, calls = %d", client.calls)
	}
}
