package trigger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/repository"
	"wiki-triggers/internal/utils/hashtag"
	"wiki-triggers/internal/utils/ident"
	"wiki-triggers/internal/utils/wikitime"
	"wiki-triggers/pkg/ttlcache"
)

// structuralTags are hashtags produced by templates and parser functions
// rather than editors. A record qualifies only if it carries at least one
// tag outside this set.
var structuralTags = map[string]struct{}{
	"redirect": {},
	"ifexist":  {},
	"if":       {},
}

// HashtagSource serves the new_hashtag trigger from the historical
// edit-summary index. An explicitly empty hashtag field means "all
// hashtags"; that is the one field allowed to bypass the non-empty
// validation rule.
type HashtagSource struct {
	Repo  repository.HashtagRepository
	Cache *ttlcache.Cache
	TTL   time.Duration
}

func (s *HashtagSource) Items(ctx context.Context, fields Fields) ([]entity.Item, error) {
	wiki := fmt.Sprintf("%s.wikipedia.org", fields["lang"])
	tag := fields["hashtag"]

	edits, err := s.lookup(ctx, tag)
	if err != nil {
		return nil, err
	}

	items := make([]entity.Item, 0, len(edits))
	for _, edit := range edits {
		item, tags, err := parseEdit(edit, tag, wiki)
		if err != nil {
			return nil, err
		}
		if !hasSemanticTag(tags) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *HashtagSource) lookup(ctx context.Context, tag string) ([]entity.HashtagEdit, error) {
	key := "all-hashtags"
	if tag != "" {
		key = "hashtags-" + tag
	}

	if cached, ok := s.Cache.Get(key); ok {
		recordCacheLookup("hashtag", true)
		return cached.([]entity.HashtagEdit), nil
	}
	recordCacheLookup("hashtag", false)

	var edits []entity.HashtagEdit
	var err error
	if tag == "" {
		edits, err = s.Repo.All(ctx)
	} else {
		edits, err = s.Repo.ByTag(ctx, tag)
	}
	if err != nil {
		return nil, err
	}
	s.Cache.Set(key, edits, s.TTL)
	return edits, nil
}

func parseEdit(edit entity.HashtagEdit, inputTag, wiki string) (entity.Item, []string, error) {
	when, err := wikitime.Parse(edit.Timestamp)
	if err != nil {
		return entity.Item{}, nil, err
	}

	tags := hashtag.Extract(edit.Comment)
	diffURL := fmt.Sprintf("https://%s/w/index.php?diff=%d&oldid=%d",
		wiki, edit.ThisOldID, edit.LastOldID)
	date := wikitime.ISO8601(when)

	item := entity.Item{
		CreatedAt: date,
		Meta: entity.Meta{
			ID:        ident.StableID(diffURL),
			Timestamp: wikitime.Epoch(when),
		},
		Fields: map[string]any{
			"raw_tags":        tags,
			"input_hashtag":   inputTag,
			"return_hashtags": strings.Join(tags, " "),
			"date":            date,
			"url":             diffURL,
			"user":            edit.UserText,
			"size":            edit.NewLen - edit.OldLen,
			"comment":         edit.Comment,
			"title":           edit.Title,
		},
	}
	return item, tags, nil
}

func hasSemanticTag(tags []string) bool {
	for _, tag := range tags {
		if _, structural := structuralTags[tag]; !structural {
			return true
		}
	}
	return false
}
