package trigger

import (
	"testing"
	"time"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/pkg/ttlcache"
)

func testDeps() Deps {
	return Deps{
		FeedClient:  &stubFeedClient{},
		QueryClient: &stubQueryClient{},
		Hashtags:    &stubHashtagRepo{},
		Cache:       ttlcache.New(nil),
		TTL:         5 * time.Minute,
	}
}

func TestAllRegistersSevenTriggers(t *testing.T) {
	services := All(testDeps())
	want := []string{
		"picture_of_the_day", "article_of_the_day", "word_of_the_day",
		"new_article", "article_revisions", "user_revisions", "new_hashtag",
	}
	if len(services) != len(want) {
		t.Fatalf("got %d triggers, want %d", len(services), len(want))
	}
	for _, slug := range want {
		svc, ok := services[slug]
		if !ok {
			t.Errorf("trigger %q not registered", slug)
			continue
		}
		if svc.Name != slug {
			t.Errorf("trigger %q has name %q", slug, svc.Name)
		}
		if svc.Source == nil {
			t.Errorf("trigger %q has no source", slug)
		}
	}
}

const potdSummary = `
<div>
  <a class="image" href="/wiki/File:Sunrise.jpg">
    <img src="//upload.wikimedia.org/wikipedia/commons/thumb/a/ab/Sunrise.jpg/300px-Sunrise.jpg" alt="Sunrise.jpg" width="300">
  </a>
  <div class="description en">Sunrise over the mountains.</div>
</div>`

func TestExtractPicture(t *testing.T) {
	fields, err := extractPicture(entity.FeedEntry{Summary: potdSummary})
	if err != nil {
		t.Fatalf("extractPicture: %v", err)
	}
	if fields["filename"] != "Sunrise.jpg" {
		t.Errorf("filename = %v", fields["filename"])
	}
	if fields["image_url"] != "//upload.wikimedia.org/wikipedia/commons/a/ab/Sunrise.jpg" {
		t.Errorf("image_url = %v", fields["image_url"])
	}
	if fields["filepage_url"] != "/wiki/File:Sunrise.jpg" {
		t.Errorf("filepage_url = %v", fields["filepage_url"])
	}
	if fields["description"] != "Sunrise over the mountains." {
		t.Errorf("description = %v", fields["description"])
	}
}

func TestExtractPictureMalformedSummary(t *testing.T) {
	_, err := extractPicture(entity.FeedEntry{Summary: "<p>no image markup here</p>"})
	if err == nil {
		t.Fatal("expected extraction error for missing image node")
	}
}

const aotdSummary = `
<p>The coffee plant was first cultivated in East Africa.
(Full` + " " + `article...) <a href="https://en.wikipedia.org/wiki/History_of_coffee" title="History of coffee">Read more</a></p>`

func TestExtractFeaturedArticle(t *testing.T) {
	fields, err := extractFeaturedArticle(entity.FeedEntry{Summary: aotdSummary})
	if err != nil {
		t.Fatalf("extractFeaturedArticle: %v", err)
	}
	if fields["url"] != "https://en.wikipedia.org/wiki/History_of_coffee" {
		t.Errorf("url = %v", fields["url"])
	}
	if fields["title"] != "History of coffee" {
		t.Errorf("title = %v", fields["title"])
	}
	summary, _ := fields["summary"].(string)
	if summary == "" {
		t.Error("summary empty")
	}
}

const wotdSummary = `
<div>
  <div>
    <a href="https://en.wiktionary.org/wiki/serendipity" title="serendipity"><span id="WOTD-rss-title">serendipity</span></a>
  </div>
  <div>noun</div>
  <div id="WOTD-rss-description">An unsought, unintended fortunate discovery.</div>
</div>`

func TestExtractWord(t *testing.T) {
	fields, err := extractWord(entity.FeedEntry{Summary: wotdSummary})
	if err != nil {
		t.Fatalf("extractWord: %v", err)
	}
	if fields["word"] != "serendipity" {
		t.Errorf("word = %v", fields["word"])
	}
	if fields["url"] != "https://en.wiktionary.org/wiki/serendipity" {
		t.Errorf("url = %v", fields["url"])
	}
	if fields["part_of_speech"] != "noun" {
		t.Errorf("part_of_speech = %v", fields["part_of_speech"])
	}
	if fields["definition"] != "An unsought, unintended fortunate discovery." {
		t.Errorf("definition = %v", fields["definition"])
	}
}
