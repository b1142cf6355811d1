package postgres

import (
	"context"
	"fmt"
)

// Statements are idempotent so Migrate can run on every start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS shows (
		id BIGSERIAL PRIMARY KEY,
		imdb_id TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		year_start INT,
		year_end INT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS writers (
		id BIGSERIAL PRIMARY KEY,
		imdb_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		image_url TEXT,
		bio TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS show_writers (
		id BIGSERIAL PRIMARY KEY,
		show_id BIGINT NOT NULL REFERENCES shows(id),
		writer_id BIGINT NOT NULL REFERENCES writers(id),
		role TEXT NOT NULL DEFAULT '',
		episode_count INT,
		UNIQUE (show_id, writer_id, role)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_show_writers_show ON show_writers (show_id)`,
	`CREATE INDEX IF NOT EXISTS idx_show_writers_writer ON show_writers (writer_id)`,
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
