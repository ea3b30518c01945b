package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/hashtags.sql
var seedHashtagsSQL string

// MigrateUp creates the hashtag index schema. The table and column
// names mirror the MediaWiki recentchanges layout so a dump of the
// public hashtags dataset loads without renaming.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS recentchanges (
    rc_id         SERIAL PRIMARY KEY,
    rc_timestamp  VARCHAR(14) NOT NULL,
    rc_comment    TEXT NOT NULL DEFAULT '',
    rc_this_oldid BIGINT NOT NULL DEFAULT 0,
    rc_last_oldid BIGINT NOT NULL DEFAULT 0,
    rc_user_text  TEXT NOT NULL DEFAULT '',
    rc_new_len    BIGINT NOT NULL DEFAULT 0,
    rc_old_len    BIGINT NOT NULL DEFAULT 0,
    rc_title      TEXT NOT NULL DEFAULT ''
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS hashtags (
    ht_id    SERIAL PRIMARY KEY,
    ht_rc_id INTEGER NOT NULL REFERENCES recentchanges(rc_id) ON DELETE CASCADE,
    ht_text  TEXT NOT NULL
)`); err != nil {
		return err
	}

	// Lookups filter on the tag text and sort by timestamp.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_hashtags_ht_text ON hashtags(ht_text)`,
		`CREATE INDEX IF NOT EXISTS idx_hashtags_ht_rc_id ON hashtags(ht_rc_id)`,
		`CREATE INDEX IF NOT EXISTS idx_recentchanges_timestamp ON recentchanges(rc_timestamp DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Sample rows for local development. The seed script is idempotent,
	// so re-running migration is safe.
	if _, err := db.Exec(seedHashtagsSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the hashtag index schema.
// Use with caution: this deletes all indexed edits.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_hashtags_ht_text`,
		`DROP INDEX IF EXISTS idx_hashtags_ht_rc_id`,
		`DROP INDEX IF EXISTS idx_recentchanges_timestamp`,
		`DROP TABLE IF EXISTS hashtags CASCADE`,
		`DROP TABLE IF EXISTS recentchanges CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
