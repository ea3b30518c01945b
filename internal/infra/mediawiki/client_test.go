package mediawiki_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wiki-triggers/internal/infra/mediawiki"
)

func TestQueryURLDeterministic(t *testing.T) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "recentchanges")
	params.Set("format", "json")

	a := mediawiki.QueryURL("en.wikipedia.org", params)
	b := mediawiki.QueryURL("en.wikipedia.org", params)
	if a != b {
		t.Errorf("same params produced different URLs: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "https://en.wikipedia.org/w/api.php?") {
		t.Errorf("unexpected URL shape: %s", a)
	}
	// Encoded keys are sorted, so the URL is a stable cache key.
	if !strings.Contains(a, "action=query&format=json&list=recentchanges") {
		t.Errorf("params not in sorted order: %s", a)
	}
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":{"recentchanges":[]}}`))
	}))
	defer srv.Close()

	client := mediawiki.NewClient(srv.Client())
	body, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != `{"query":{"recentchanges":[]}}` {
		t.Errorf("body = %s", body)
	}
}

func TestGetNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := mediawiki.NewClient(srv.Client())
	if _, err := client.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
