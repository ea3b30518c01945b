// Package entity defines the core domain types for the trigger service:
// the canonical trigger item returned to the polling integration platform,
// the raw upstream record shapes, and the domain error taxonomy.
package entity

import (
	"encoding/json"
	"time"
)

// Meta carries the deduplication identifier and the numeric timestamp for
// a trigger item. The id is a deterministic function of the item's
// canonical URL, so the caller can deduplicate across polls.
type Meta struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// Item is the canonical trigger item. CreatedAt and Meta.Timestamp always
// encode the same instant: ISO-8601 UTC with a literal 'Z' suffix, and
// integer epoch seconds. Fields holds the trigger-specific payload (url,
// title, user, size, comment, ...) and is flattened beside created_at and
// meta when marshaled.
type Item struct {
	CreatedAt string
	Meta      Meta
	Fields    map[string]any
}

// MarshalJSON flattens Fields into the top-level object alongside
// created_at and meta. Trigger-specific fields never shadow the two
// reserved keys.
func (it Item) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(it.Fields)+2)
	for k, v := range it.Fields {
		obj[k] = v
	}
	obj["created_at"] = it.CreatedAt
	obj["meta"] = it.Meta
	return json.Marshal(obj)
}

// FeedEntry is one parsed syndication feed entry. ID is the entry's
// canonical URL, Summary is the rich-text markup the per-trigger
// extraction hooks scrape additional fields from.
type FeedEntry struct {
	ID        string
	Published time.Time
	Summary   string
}

// HashtagEdit is a raw row from the historical edit-summary index.
// Column names follow the MediaWiki recentchanges schema.
type HashtagEdit struct {
	Timestamp string // compact form, YYYYMMDDHHMMSS
	Comment   string
	ThisOldID int64
	LastOldID int64
	UserText  string
	NewLen    int64
	OldLen    int64
	Title     string
}
