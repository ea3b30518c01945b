package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"wiki-triggers/internal/domain/entity"
	"wiki-triggers/internal/repository"
	"wiki-triggers/internal/resilience/circuitbreaker"
)

// rowLimit caps how many edits a single lookup returns. The dispatch
// framework truncates further to the caller's limit.
const rowLimit = 50

const editColumns = `
rc.rc_timestamp, rc.rc_comment, rc.rc_this_oldid, rc.rc_last_oldid,
rc.rc_user_text, rc.rc_new_len, rc.rc_old_len, rc.rc_title`

// HashtagRepo queries the hashtag index tables. All database calls go
// through a circuit breaker so a dead index host fails fast instead of
// tying up request handlers.
type HashtagRepo struct {
	db *circuitbreaker.DBCircuitBreaker
}

// NewHashtagRepo creates a hashtag index repository over the given
// circuit-breaker-wrapped connection pool.
func NewHashtagRepo(db *circuitbreaker.DBCircuitBreaker) repository.HashtagRepository {
	return &HashtagRepo{db: db}
}

func (repo *HashtagRepo) ByTag(ctx context.Context, tag string) ([]entity.HashtagEdit, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM recentchanges rc
INNER JOIN hashtags h ON h.ht_rc_id = rc.rc_id
WHERE LOWER(h.ht_text) = LOWER($1)
ORDER BY rc.rc_timestamp DESC
LIMIT %d`, editColumns, rowLimit)

	rows, err := repo.db.QueryContext(ctx, query, tag)
	if err != nil {
		return nil, fmt.Errorf("ByTag: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEdits(rows)
}

func scanEdits(rows *sql.Rows) ([]entity.HashtagEdit, error) {
	edits := make([]entity.HashtagEdit, 0, rowLimit)
	for rows.Next() {
		var e entity.HashtagEdit
		if err := rows.Scan(&e.Timestamp, &e.Comment, &e.ThisOldID, &e.LastOldID,
			&e.UserText, &e.NewLen, &e.OldLen, &e.Title); err != nil {
			return nil, fmt.Errorf("scanEdits: %w", err)
		}
		edits = append(edits, e)
	}
	return edits, rows.Err()
}

func (repo *HashtagRepo) All(ctx context.Context) ([]entity.HashtagEdit, error) {
	query := fmt.Sprintf(`
SELECT DISTINCT %s
FROM recentchanges rc
INNER JOIN hashtags h ON h.ht_rc_id = rc.rc_id
ORDER BY rc.rc_timestamp DESC
LIMIT %d`, editColumns, rowLimit)

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("All: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEdits(rows)
}
