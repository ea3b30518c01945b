package repository

import (
	"context"

	"wiki-triggers/internal/domain/entity"
)

// HashtagRepository reads the historical edit-summary index. The index is
// maintained by a separate ingestion job; this service only queries it.
type HashtagRepository interface {
	// ByTag returns the most recent edits whose summary carries the
	// given hashtag, newest first.
	ByTag(ctx context.Context, tag string) ([]entity.HashtagEdit, error)
	// All returns the most recent hashtag-tagged edits regardless of
	// tag, newest first.
	All(ctx context.Context) ([]entity.HashtagEdit, error)
}
