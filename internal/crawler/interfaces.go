package crawler

import "context"

// ScrapeAdapter turns remote pages into structured show/writer data.
// Implementations are fallible and network-bound; the driver treats any
// error as "no data" for that identifier and moves on.
type ScrapeAdapter interface {
	// FetchShowDetail returns the metadata for one show.
	FetchShowDetail(ctx context.Context, showID string) (ShowRef, error)

	// FetchShowWriters returns the writing credits for one show.
	FetchShowWriters(ctx context.Context, showID string) ([]WriterCredit, error)

	// FetchWriterFilmography returns the TV shows a writer is credited
	// on. Malformed or partial remote data degrades to an empty slice,
	// not an error.
	FetchWriterFilmography(ctx context.Context, writerID string) ([]ShowRef, error)
}

// Store persists the show/writer graph. Writes are idempotent on natural
// keys; repeated upserts of the same row are no-ops. Implementations
// acquire and release their connection per call, so there is no
// cross-call transactional consistency.
type Store interface {
	// UpsertShow inserts the show if new and returns its row id either way.
	UpsertShow(ctx context.Context, show ShowRef) (int64, error)

	// UpsertWriter inserts the writer if new and returns its row id.
	UpsertWriter(ctx context.Context, imdbID, name string) (int64, error)

	// LinkShowWriter records one credit edge. Duplicate
	// (show, writer, role) edges are silently ignored.
	LinkShowWriter(ctx context.Context, showRowID, writerRowID int64, role string, episodeCount *int) error

	// ExistingShowIDs returns the IMDB ids of every stored show.
	ExistingShowIDs(ctx context.Context) (map[string]struct{}, error)

	// EligibleSeedWriters returns writers linked to at least one show
	// whose best episode count meets minEpisodes or is unknown.
	EligibleSeedWriters(ctx context.Context, minEpisodes int) ([]WriterRef, error)

	// CountShows returns the total number of stored shows.
	CountShows(ctx context.Context) (int, error)

	// CountWriters returns the total number of stored writers.
	CountWriters(ctx context.Context) (int, error)

	// OverlapReport returns writers linked to more than one show,
	// ordered by show count descending then name ascending.
	OverlapReport(ctx context.Context) ([]Overlap, error)
}
