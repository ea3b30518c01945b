// Package wikitime converts between the timestamp representations used by
// the upstream wiki platforms and the two encodings every trigger item
// carries: an ISO-8601 string and integer epoch seconds.
package wikitime

import (
	"time"

	"wiki-triggers/internal/domain/entity"
)

// compactLayout is the MediaWiki database timestamp form (rc_timestamp).
const compactLayout = "20060102150405"

// isoLayout is the Action API timestamp form, always UTC.
const isoLayout = "2006-01-02T15:04:05Z"

// Parse accepts either supported string representation and returns the
// instant in UTC. Anything else is a FormatError: an unknown layout means
// the upstream data contract changed, so callers must not guess.
func Parse(value string) (time.Time, error) {
	if t, err := time.Parse(isoLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(compactLayout, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, &entity.FormatError{Value: value}
}

// Epoch returns the instant as integer seconds since the Unix epoch.
func Epoch(t time.Time) int64 {
	return t.UTC().Unix()
}

// ISO8601 returns the instant as an ISO-8601 string in UTC with second
// precision and a literal 'Z' suffix.
func ISO8601(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
