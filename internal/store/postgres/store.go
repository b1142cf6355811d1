// Package postgres provides the Postgres-backed persistence layer for
// the show/writer graph.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

// StoreConfig controls the Postgres connection pool.
type StoreConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// dbPool is the slice of pgxpool.Pool the store needs; pgxmock satisfies
// it in tests.
type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store persists shows, writers, and credit links. Every call acquires a
// connection from the pool and releases it before returning; there are no
// cross-call transactions. Idempotence comes from uniqueness constraints
// on the natural keys, not from in-process locking.
type Store struct {
	pool dbPool
}

// NewStore connects a pool using the provided config.
func NewStore(ctx context.Context, cfg StoreConfig) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewStoreWithPool(pool dbPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// UpsertShow inserts the show if new and returns its row id. The no-op
// update on conflict makes RETURNING yield the existing row's id.
func (s *Store) UpsertShow(ctx context.Context, show crawler.ShowRef) (int64, error) {
	const query = `
INSERT INTO shows (imdb_id, title, year_start, year_end)
VALUES ($1, $2, $3, $4)
ON CONFLICT (imdb_id) DO UPDATE SET imdb_id = EXCLUDED.imdb_id
RETURNING id`
	var id int64
	err := s.pool.QueryRow(ctx, query, show.IMDBID, show.Title, show.YearStart, show.YearEnd).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert show %s: %w", show.IMDBID, err)
	}
	return id, nil
}

// UpsertWriter inserts the writer if new and returns their row id.
func (s *Store) UpsertWriter(ctx context.Context, imdbID, name string) (int64, error) {
	const query = `
INSERT INTO writers (imdb_id, name)
VALUES ($1, $2)
ON CONFLICT (imdb_id) DO UPDATE SET imdb_id = EXCLUDED.imdb_id
RETURNING id`
	var id int64
	err := s.pool.QueryRow(ctx, query, imdbID, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert writer %s: %w", imdbID, err)
	}
	return id, nil
}

// LinkShowWriter records one credit edge; duplicate (show, writer, role)
// edges are silently ignored.
func (s *Store) LinkShowWriter(ctx context.Context, showRowID, writerRowID int64, role string, episodeCount *int) error {
	const query = `
INSERT INTO show_writers (show_id, writer_id, role, episode_count)
VALUES ($1, $2, $3, $4)
ON CONFLICT (show_id, writer_id, role) DO NOTHING`
	if _, err := s.pool.Exec(ctx, query, showRowID, writerRowID, role, episodeCount); err != nil {
		return fmt.Errorf("link show %d writer %d: %w", showRowID, writerRowID, err)
	}
	return nil
}

// ExistingShowIDs returns the IMDB ids of every stored show.
func (s *Store) ExistingShowIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, `SELECT imdb_id FROM shows`)
	if err != nil {
		return nil, fmt.Errorf("select show ids: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan show id: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate show ids: %w", err)
	}
	return out, nil
}

// EligibleSeedWriters returns writers linked to at least one show whose
// best episode count meets minEpisodes. An unknown (NULL) episode count
// is deliberately treated as eligible.
func (s *Store) EligibleSeedWriters(ctx context.Context, minEpisodes int) ([]crawler.WriterRef, error) {
	const query = `
SELECT w.imdb_id, w.name
FROM writers w
JOIN show_writers sw ON sw.writer_id = w.id
GROUP BY w.id, w.imdb_id, w.name
HAVING MAX(sw.episode_count) >= $1 OR MAX(sw.episode_count) IS NULL
ORDER BY MAX(sw.episode_count) DESC NULLS LAST, w.name ASC`
	rows, err := s.pool.Query(ctx, query, minEpisodes)
	if err != nil {
		return nil, fmt.Errorf("select seed writers: %w", err)
	}
	defer rows.Close()

	var out []crawler.WriterRef
	for rows.Next() {
		var ref crawler.WriterRef
		if err := rows.Scan(&ref.IMDBID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan seed writer: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seed writers: %w", err)
	}
	return out, nil
}

// CountShows returns the total number of stored shows.
func (s *Store) CountShows(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shows`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count shows: %w", err)
	}
	return n, nil
}

// CountWriters returns the total number of stored writers.
func (s *Store) CountWriters(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM writers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count writers: %w", err)
	}
	return n, nil
}

// OverlapReport returns writers linked to more than one distinct show,
// ordered by show count descending then writer name ascending.
func (s *Store) OverlapReport(ctx context.Context) ([]crawler.Overlap, error) {
	const query = `
SELECT
	w.imdb_id,
	w.name,
	ARRAY_AGG(DISTINCT s.title) AS show_titles,
	ARRAY_AGG(DISTINCT s.id) AS show_ids,
	COUNT(DISTINCT s.id) AS show_count
FROM writers w
JOIN show_writers sw ON sw.writer_id = w.id
JOIN shows s ON s.id = sw.show_id
GROUP BY w.id, w.imdb_id, w.name
HAVING COUNT(DISTINCT s.id) > 1
ORDER BY show_count DESC, w.name ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select overlaps: %w", err)
	}
	defer rows.Close()

	var out []crawler.Overlap
	for rows.Next() {
		var o crawler.Overlap
		if err := rows.Scan(&o.WriterIMDBID, &o.WriterName, &o.ShowTitles, &o.ShowIDs, &o.ShowCount); err != nil {
			return nil, fmt.Errorf("scan overlap: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overlaps: %w", err)
	}
	return out, nil
}

// AllShows returns every stored show ordered by title.
func (s *Store) AllShows(ctx context.Context) ([]crawler.ShowRecord, error) {
	const query = `
SELECT id, imdb_id, title, year_start, year_end
FROM shows
ORDER BY title ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select shows: %w", err)
	}
	defer rows.Close()

	var out []crawler.ShowRecord
	for rows.Next() {
		var rec crawler.ShowRecord
		if err := rows.Scan(&rec.ID, &rec.IMDBID, &rec.Title, &rec.YearStart, &rec.YearEnd); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return out, nil
}

// AllWriters returns every stored writer with their distinct show count,
// ordered by name (case-insensitive).
func (s *Store) AllWriters(ctx context.Context) ([]crawler.WriterRecord, error) {
	const query = `
SELECT w.id, w.imdb_id, w.name, w.image_url, w.bio,
	COUNT(DISTINCT sw.show_id) AS show_count
FROM writers w
LEFT JOIN show_writers sw ON sw.writer_id = w.id
GROUP BY w.id, w.imdb_id, w.name, w.image_url, w.bio
ORDER BY LOWER(w.name) ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select writers: %w", err)
	}
	defer rows.Close()

	var out []crawler.WriterRecord
	for rows.Next() {
		var rec crawler.WriterRecord
		if err := rows.Scan(&rec.ID, &rec.IMDBID, &rec.Name, &rec.ImageURL, &rec.Bio, &rec.ShowCount); err != nil {
			return nil, fmt.Errorf("scan writer: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate writers: %w", err)
	}
	return out, nil
}

// AllLinks returns every show/writer credit edge.
func (s *Store) AllLinks(ctx context.Context) ([]crawler.LinkRecord, error) {
	const query = `
SELECT show_id, writer_id, role, episode_count
FROM show_writers`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select links: %w", err)
	}
	defer rows.Close()

	var out []crawler.LinkRecord
	for rows.Next() {
		var rec crawler.LinkRecord
		if err := rows.Scan(&rec.ShowID, &rec.WriterID, &rec.Role, &rec.EpisodeCount); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return out, nil
}

// WritersMissingDetails returns writers that still lack an image or bio.
func (s *Store) WritersMissingDetails(ctx context.Context) ([]crawler.WriterRecord, error) {
	const query = `
SELECT id, imdb_id, name
FROM writers
WHERE image_url IS NULL OR bio IS NULL
ORDER BY name ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select writers missing details: %w", err)
	}
	defer rows.Close()

	var out []crawler.WriterRecord
	for rows.Next() {
		var rec crawler.WriterRecord
		if err := rows.Scan(&rec.ID, &rec.IMDBID, &rec.Name); err != nil {
			return nil, fmt.Errorf("scan writer: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate writers: %w", err)
	}
	return out, nil
}

// UpdateWriterDetails fills in the image and/or bio for one writer. Nil
// values leave the existing column untouched.
func (s *Store) UpdateWriterDetails(ctx context.Context, imdbID string, imageURL, bio *string) error {
	const query = `
UPDATE writers
SET image_url = COALESCE($2, image_url),
	bio = COALESCE($3, bio)
WHERE imdb_id = $1`
	tag, err := s.pool.Exec(ctx, query, imdbID, imageURL, bio)
	if err != nil {
		return fmt.Errorf("update writer details %s: %w", imdbID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("writer %s not found", imdbID)
	}
	return nil
}
