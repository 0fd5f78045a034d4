package db

import (
	"database/sql"
	"fmt"
)

// MigrateUp creates the schema for the given dialect if it does not exist.
// Four logical tables: users, anime (catalog cache), reviews and user_lists.
func MigrateUp(db *sql.DB, dialect Dialect) error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	now := "CURRENT_TIMESTAMP"
	if dialect == DialectPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
		now = "now()"
	}

	statements := []string{
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS users (
    id       %s,
    name     TEXT NOT NULL DEFAULT '',
    email    TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL
)`, serial),
		`
CREATE TABLE IF NOT EXISTS anime (
    id            BIGINT PRIMARY KEY,
    title         TEXT NOT NULL,
    title_english TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    image_url     TEXT NOT NULL DEFAULT '',
    rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
    genres        TEXT NOT NULL DEFAULT '',
    year          INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'unknown',
    episodes      INTEGER NOT NULL DEFAULT 0,
    duration      TEXT NOT NULL DEFAULT '',
    studio        TEXT NOT NULL DEFAULT '',
    source_medium TEXT NOT NULL DEFAULT ''
)`,
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS reviews (
    id         %s,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    anime_id   BIGINT NOT NULL,
    rating     INTEGER NOT NULL,
    comment    TEXT NOT NULL DEFAULT '',
    photo_url  TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL DEFAULT %s
)`, serial, now),
		fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS user_lists (
    id       %s,
    user_id  BIGINT NOT NULL REFERENCES users(id),
    anime_id BIGINT NOT NULL,
    status   TEXT NOT NULL,
    UNIQUE (user_id, anime_id)
)`, serial),
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Reviews are intentionally NOT unique on (user_id, anime_id): the
	// upstream behavior allows duplicate rows and callers upsert by id.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_reviews_anime_id ON reviews(anime_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_anime_rating ON anime(rating DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_user_lists_user_id ON user_lists(user_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("migrate index: %w", err)
		}
	}

	return nil
}
