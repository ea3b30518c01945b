package feedsource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wiki-triggers/internal/infra/feedsource"
)

const potdFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Commons picture of the day feed</title>
  <link>https://commons.wikimedia.org</link>
  <item>
    <title>Picture of the day for January 2</title>
    <guid>http://commons.wikimedia.org/wiki/Template:Potd/2015-01-02</guid>
    <pubDate>Fri, 02 Jan 2015 00:00:00 GMT</pubDate>
    <description>&lt;a class="image" href="/wiki/File:B.jpg"&gt;&lt;img src="//x/thumb/B.jpg/300px-B.jpg" alt="B.jpg" width="300"&gt;&lt;/a&gt;</description>
  </item>
  <item>
    <title>Picture of the day for January 1</title>
    <guid>http://commons.wikimedia.org/wiki/Template:Potd/2015-01-01</guid>
    <pubDate>Thu, 01 Jan 2015 00:00:00 GMT</pubDate>
    <description>&lt;a class="image" href="/wiki/File:A.jpg"&gt;&lt;img src="//x/thumb/A.jpg/300px-A.jpg" alt="A.jpg" width="300"&gt;&lt;/a&gt;</description>
  </item>
</channel>
</rss>`

func TestFetchParsesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(potdFeed))
	}))
	defer srv.Close()

	client := feedsource.NewClient(srv.Client())
	entries, err := client.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "http://commons.wikimedia.org/wiki/Template:Potd/2015-01-02" {
		t.Errorf("entry id = %q", entries[0].ID)
	}
	want := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	if !entries[0].Published.Equal(want) {
		t.Errorf("published = %v, want %v", entries[0].Published, want)
	}
	if entries[0].Summary == "" {
		t.Error("summary markup missing")
	}
}

func TestFetchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := feedsource.NewClient(srv.Client())
	if _, err := client.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}
