package trigger

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/infra/markup"
	"wiki-triggers/internal/repository"
	"wiki-triggers/internal/utils/ident"
	"wiki-triggers/internal/utils/wikitime"
	"wiki-triggers/pkg/ttlcache"
)

// DefaultLang is the wiki language used when a trigger's lang field is
// not configured.
const DefaultLang = "en"

// Deps bundles the collaborators shared by all trigger services.
type Deps struct {
	FeedClient  FeedClient
	QueryClient QueryClient
	Hashtags    repository.HashtagRepository
	Cache       *ttlcache.Cache
	TTL         time.Duration
	Logger      *slog.Logger
}

// All builds the seven trigger services, keyed by their endpoint slug.
func All(deps Deps) map[string]*Service {
	return map[string]*Service{
		"picture_of_the_day": PictureOfTheDay(deps),
		"article_of_the_day": ArticleOfTheDay(deps),
		"word_of_the_day":    WordOfTheDay(deps),
		"new_article":        NewArticle(deps),
		"article_revisions":  ArticleRevisions(deps),
		"user_revisions":     UserRevisions(deps),
		"new_hashtag":        NewHashtag(deps),
	}
}

func wikipediaHost(fields Fields) string {
	return fmt.Sprintf("%s.wikipedia.org", fields["lang"])
}

// PictureOfTheDay discovers Wikimedia Commons' picture of the day. The
// feed host is fixed, so the trigger has no configurable fields.
func PictureOfTheDay(deps Deps) *Service {
	return &Service{
		Name: "picture_of_the_day",
		Spec: FieldSpec{},
		Source: &FeedSource{
			Feed:    "potd",
			Host:    func(Fields) string { return "commons.wikimedia.org" },
			Extract: extractPicture,
			Client:  deps.FeedClient,
			Cache:   deps.Cache,
			TTL:     deps.TTL,
		},
		Logger: deps.Logger,
	}
}

// extractPicture scrapes the image link, full-resolution URL, file page,
// and English description out of a potd entry summary.
func extractPicture(entry entity.FeedEntry) (map[string]any, error) {
	doc, err := markup.Parse(entry.Summary)
	if err != nil {
		return nil, err
	}

	thumbURL, err := markup.Attr(doc, "a.image img", "src")
	if err != nil {
		return nil, err
	}
	// The feed embeds a sized thumbnail; dropping the "/<width>..."
	// suffix and the thumb/ path segment yields the original file URL.
	width, err := markup.Attr(doc, "a.image img", "width")
	if err != nil {
		return nil, err
	}
	imageURL := thumbURL
	if i := strings.LastIndex(thumbURL, "/"+width); i >= 0 {
		imageURL = thumbURL[:i]
	}
	imageURL = strings.Replace(imageURL, "thumb/", "", 1)

	filename, err := markup.Attr(doc, "a.image img", "alt")
	if err != nil {
		return nil, err
	}
	filePage, err := markup.Attr(doc, "a.image", "href")
	if err != nil {
		return nil, err
	}
	description, err := markup.Text(doc, ".description.en")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"filename":     filename,
		"image_url":    imageURL,
		"filepage_url": filePage,
		"description":  description,
	}, nil
}

// ArticleOfTheDay discovers Wikipedia's today's-featured-article entries
// for a configurable language edition.
func ArticleOfTheDay(deps Deps) *Service {
	return &Service{
		Name: "article_of_the_day",
		Spec: FieldSpec{"lang": DefaultLang},
		Source: &FeedSource{
			Feed:    "featured",
			Host:    wikipediaHost,
			Extract: extractFeaturedArticle,
			Client:  deps.FeedClient,
			Cache:   deps.Cache,
			TTL:     deps.TTL,
		},
		Logger: deps.Logger,
	}
}

// extractFeaturedArticle scrapes the blurb text plus the URL and title of
// the "Full article" link from a featured-article entry summary.
func extractFeaturedArticle(entry entity.FeedEntry) (map[string]any, error) {
	doc, err := markup.Parse(entry.Summary)
	if err != nil {
		return nil, err
	}

	summary, err := markup.Text(doc, "p:first-of-type")
	if err != nil {
		return nil, err
	}
	summary = strings.Replace(summary, "(Full article...)", "", 1)

	readMore, err := markup.Select(doc, "p:first-of-type > a:last-of-type")
	if err != nil {
		return nil, err
	}
	href, ok := readMore.Attr("href")
	if !ok {
		return nil, &entity.ExtractError{Selector: "p:first-of-type > a:last-of-type[href]"}
	}
	title, ok := readMore.Attr("title")
	if !ok {
		return nil, &entity.ExtractError{Selector: "p:first-of-type > a:last-of-type[title]"}
	}

	return map[string]any{
		"summary": summary,
		"url":     href,
		"title":   title,
	}, nil
}

// WordOfTheDay discovers Wiktionary's word of the day for a configurable
// language edition.
func WordOfTheDay(deps Deps) *Service {
	return &Service{
		Name: "word_of_the_day",
		Spec: FieldSpec{"lang": DefaultLang},
		Source: &FeedSource{
			Feed: "wotd",
			Host: func(fields Fields) string {
				return fmt.Sprintf("%s.wiktionary.org", fields["lang"])
			},
			Extract: extractWord,
			Client:  deps.FeedClient,
			Cache:   deps.Cache,
			TTL:     deps.TTL,
		},
		Logger: deps.Logger,
	}
}

// extractWord scrapes the word, its page URL, part of speech, and
// definition from a wotd entry summary. The feed marks the word anchor
// and definition block with well-known element IDs.
func extractWord(entry entity.FeedEntry) (map[string]any, error) {
	doc, err := markup.Parse(entry.Summary)
	if err != nil {
		return nil, err
	}

	defBlock, err := markup.Select(doc, "#WOTD-rss-description")
	if err != nil {
		return nil, err
	}

	titleSpan, err := markup.Select(doc, "#WOTD-rss-title")
	if err != nil {
		return nil, err
	}
	anchor := titleSpan.Parent()
	if !anchor.Is("a") {
		return nil, &entity.ExtractError{Selector: "#WOTD-rss-title parent anchor"}
	}

	word, ok := anchor.Attr("title")
	if !ok {
		return nil, &entity.ExtractError{Selector: "#WOTD-rss-title parent anchor[title]"}
	}
	href, ok := anchor.Attr("href")
	if !ok {
		return nil, &entity.ExtractError{Selector: "#WOTD-rss-title parent anchor[href]"}
	}

	partOfSpeech := anchor.Parent().Next()
	if partOfSpeech.Length() == 0 {
		return nil, &entity.ExtractError{Selector: "#WOTD-rss-title part of speech"}
	}

	return map[string]any{
		"word":           word,
		"url":            href,
		"part_of_speech": strings.TrimSpace(partOfSpeech.Text()),
		"definition":     strings.TrimSpace(defBlock.Text()),
	}, nil
}

// NewArticle discovers newly created articles on a configurable language
// Wikipedia via the recentchanges list.
func NewArticle(deps Deps) *Service {
	return &Service{
		Name: "new_article",
		Spec: FieldSpec{"lang": DefaultLang},
		Source: &QuerySource{
			Host: wikipediaHost,
			Params: func(Fields) url.Values {
				return url.Values{
					"action":      {"query"},
					"list":        {"recentchanges"},
					"rctype":      {"new"},
					"rclimit":     {"50"},
					"rcnamespace": {"0"},
					"rcprop":      {"title|ids|timestamp|user|sizes|comment"},
					"format":      {"json"},
				}
			},
			Parse:  parseNewArticles,
			Client: deps.QueryClient,
			Cache:  deps.Cache,
			TTL:    deps.TTL,
		},
		Logger: deps.Logger,
	}
}

func parseNewArticles(raw []byte, _ Fields, wiki string) ([]entity.Item, error) {
	var resp struct {
		Query struct {
			RecentChanges []struct {
				Title     string `json:"title"`
				Timestamp string `json:"timestamp"`
				User      string `json:"user"`
				NewLen    int64  `json:"newlen"`
				OldLen    int64  `json:"oldlen"`
				Comment   string `json:"comment"`
			} `json:"recentchanges"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("new_article: decode: %w", err)
	}

	items := make([]entity.Item, 0, len(resp.Query.RecentChanges))
	for _, change := range resp.Query.RecentChanges {
		pageURL := fmt.Sprintf("https://%s/wiki/%s",
			wiki, strings.ReplaceAll(change.Title, " ", "_"))
		item, err := queryItem(pageURL, change.Timestamp, map[string]any{
			"url":     pageURL,
			"user":    change.User,
			"size":    change.NewLen - change.OldLen,
			"comment": change.Comment,
			"title":   change.Title,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ArticleRevisions discovers revisions to a configured article title.
func ArticleRevisions(deps Deps) *Service {
	return &Service{
		Name: "article_revisions",
		Spec: FieldSpec{"lang": DefaultLang, "title": "Coffee"},
		Source: &QuerySource{
			Host: wikipediaHost,
			Params: func(fields Fields) url.Values {
				return url.Values{
					"action":  {"query"},
					"prop":    {"revisions"},
					"titles":  {fields["title"]},
					"rvlimit": {"50"},
					"rvprop":  {"ids|timestamp|user|size|comment"},
					"format":  {"json"},
				}
			},
			Parse:  parseArticleRevisions,
			Client: deps.QueryClient,
			Cache:  deps.Cache,
			TTL:    deps.TTL,
		},
		Logger: deps.Logger,
	}
}

type apiRevision struct {
	RevID     int64  `json:"revid"`
	ParentID  int64  `json:"parentid"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Size      int64  `json:"size"`
	Comment   string `json:"comment"`
	Title     string `json:"title"`
}

func parseArticleRevisions(raw []byte, fields Fields, wiki string) ([]entity.Item, error) {
	var resp struct {
		Query struct {
			Pages map[string]struct {
				Revisions []apiRevision `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("article_revisions: decode: %w", err)
	}

	// The query names a single title, so at most one page comes back.
	// A missing page (or a page with no revisions) is an empty result.
	var revisions []apiRevision
	for _, page := range resp.Query.Pages {
		revisions = page.Revisions
		break
	}

	items := make([]entity.Item, 0, len(revisions))
	for _, rev := range revisions {
		diffURL := diffLink(wiki, rev.RevID, rev.ParentID)
		item, err := queryItem(diffURL, rev.Timestamp, map[string]any{
			"url":     diffURL,
			"user":    rev.User,
			"size":    rev.Size,
			"comment": rev.Comment,
			"title":   fields["title"],
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// UserRevisions discovers contributions by a configured user.
func UserRevisions(deps Deps) *Service {
	return &Service{
		Name: "user_revisions",
		Spec: FieldSpec{"lang": DefaultLang, "user": "ClueBot"},
		Source: &QuerySource{
			Host: wikipediaHost,
			Params: func(fields Fields) url.Values {
				return url.Values{
					"action":  {"query"},
					"list":    {"usercontribs"},
					"ucuser":  {fields["user"]},
					"uclimit": {"50"},
					"ucprop":  {"ids|timestamp|title|size|comment"},
					"format":  {"json"},
				}
			},
			Parse:  parseUserRevisions,
			Client: deps.QueryClient,
			Cache:  deps.Cache,
			TTL:    deps.TTL,
		},
		Logger: deps.Logger,
	}
}

func parseUserRevisions(raw []byte, fields Fields, wiki string) ([]entity.Item, error) {
	var resp struct {
		Query struct {
			UserContribs []apiRevision `json:"usercontribs"`
		} `json:"query"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("user_revisions: decode: %w", err)
	}

	items := make([]entity.Item, 0, len(resp.Query.UserContribs))
	for _, contrib := range resp.Query.UserContribs {
		diffURL := diffLink(wiki, contrib.RevID, contrib.ParentID)
		item, err := queryItem(diffURL, contrib.Timestamp, map[string]any{
			"url":     diffURL,
			"user":    fields["user"],
			"size":    contrib.Size,
			"comment": contrib.Comment,
			"title":   contrib.Title,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// NewHashtag discovers edits whose summary carries a hashtag, from the
// historical edit-summary index.
func NewHashtag(deps Deps) *Service {
	return &Service{
		Name: "new_hashtag",
		Spec: FieldSpec{"lang": DefaultLang, "hashtag": "test"},
		Source: &HashtagSource{
			Repo:  deps.Hashtags,
			Cache: deps.Cache,
			TTL:   deps.TTL,
		},
		Logger: deps.Logger,
	}
}

func diffLink(wiki string, revID, parentID int64) string {
	return fmt.Sprintf("https://%s/w/index.php?diff=%d&oldid=%d", wiki, revID, parentID)
}

// queryItem builds the canonical identifier/timestamp pair shared by all
// query-backed triggers and merges the trigger-specific fields in.
func queryItem(canonicalURL, timestamp string, extra map[string]any) (entity.Item, error) {
	when, err := wikitime.Parse(timestamp)
	if err != nil {
		return entity.Item{}, err
	}
	date := wikitime.ISO8601(when)

	fields := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		fields[k] = v
	}
	fields["date"] = date

	return entity.Item{
		CreatedAt: date,
		Meta: entity.Meta{
			ID:        ident.StableID(canonicalURL),
			Timestamp: wikitime.Epoch(when),
		},
		Fields: fields,
	}, nil
}
