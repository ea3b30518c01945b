// Command diagnose_feeds probes the featured-content feeds of a set of
// wikis and prints a per-feed status line. Useful when a trigger starts
// returning empty batches and the question is whether the upstream feed
// went stale or the extraction broke.
//
// Usage:
//
//	go run scripts/diagnose_feeds.go [lang ...]
//
// With no arguments it probes en, de, es, fr and ja.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"wiki-triggers/internal/infra/feedsource"
)

var feeds = []string{"potd", "featured", "wotd"}

func main() {
	langs := os.Args[1:]
	if len(langs) == 0 {
		langs = []string{"en", "de", "es", "fr", "ja"}
	}

	client := feedsource.NewClient(feedsource.DefaultHTTPClient(30 * time.Second))
	ctx := context.Background()

	broken := 0
	for _, lang := range langs {
		for _, feed := range feeds {
			url := fmt.Sprintf("https://%s.wikipedia.org/w/api.php?action=featuredfeed&feed=%s", lang, feed)
			start := time.Now()
			entries, err := client.Fetch(ctx, url)
			elapsed := time.Since(start).Round(time.Millisecond)

			switch {
			case err != nil:
				fmt.Printf("FAIL  %s/%s  %v  %v\n", lang, feed, elapsed, err)
				broken++
			case len(entries) == 0:
				fmt.Printf("EMPTY %s/%s  %v  feed parsed but has no dated entries\n", lang, feed, elapsed)
				broken++
			default:
				newest := entries[0].Published
				for _, e := range entries[1:] {
					if e.Published.After(newest) {
						newest = e.Published
					}
				}
				fmt.Printf("OK    %s/%s  %v  %d entries, newest %s\n",
					lang, feed, elapsed, len(entries), newest.Format("2006-01-02"))
			}

			// Be polite to the API servers.
			time.Sleep(500 * time.Millisecond)
		}
	}

	if broken > 0 {
		fmt.Printf("\n%d feed(s) need attention\n", broken)
		os.Exit(1)
	}
}
