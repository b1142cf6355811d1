package crawler

// ShowRef identifies a show discovered during a crawl. Identity is the
// IMDB id; the remaining fields are whatever the source page offered.
type ShowRef struct {
	IMDBID    string `json:"imdb_id"`
	Title     string `json:"title"`
	YearStart *int   `json:"year_start,omitempty"`
	YearEnd   *int   `json:"year_end,omitempty"`
}

// WriterCredit is a single writing credit on a single show. The same
// writer may hold several credits on one show under different roles.
type WriterCredit struct {
	IMDBID       string `json:"imdb_id"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	EpisodeCount *int   `json:"episode_count,omitempty"`
}

// WriterRef is a writer pending a filmography fetch.
type WriterRef struct {
	IMDBID string `json:"imdb_id"`
	Name   string `json:"name"`
}

// StopReason records why an expansion run ended.
type StopReason string

// Stop reasons reported in the run summary.
const (
	// StopTargetReached means the store holds at least target_shows shows.
	StopTargetReached StopReason = "target_reached"
	// StopFrontierExhausted means both queues drained before the target.
	StopFrontierExhausted StopReason = "frontier_exhausted"
	// StopSafetyCap means the iteration limit fired first. The run is
	// incomplete but not an error.
	StopSafetyCap StopReason = "safety_cap"
)

// Overlap describes a writer credited on more than one distinct show.
type Overlap struct {
	WriterIMDBID string   `json:"writer_imdb_id"`
	WriterName   string   `json:"writer_name"`
	ShowCount    int      `json:"show_count"`
	ShowTitles   []string `json:"show_titles"`
	ShowIDs      []int64  `json:"show_ids"`
}

// Summary is produced at the end of every expansion run.
type Summary struct {
	RunID              string     `json:"run_id"`
	Stop               StopReason `json:"stop_reason"`
	Iterations         int        `json:"iterations"`
	ShowsScraped       int        `json:"shows_scraped"`
	ShowsTotal         int        `json:"shows_total"`
	WritersTotal       int        `json:"writers_total"`
	WritersWithOverlap int        `json:"writers_with_overlap"`
	TopOverlaps        []Overlap  `json:"top_overlaps"`
}

// ShowRecord is a stored show row as served by the read API.
type ShowRecord struct {
	ID        int64  `json:"id"`
	IMDBID    string `json:"imdb_id"`
	Title     string `json:"title"`
	YearStart *int   `json:"year_start,omitempty"`
	YearEnd   *int   `json:"year_end,omitempty"`
}

// WriterRecord is a stored writer row, including enrichment columns and
// the number of distinct shows the writer is linked to.
type WriterRecord struct {
	ID        int64   `json:"id"`
	IMDBID    string  `json:"imdb_id"`
	Name      string  `json:"name"`
	ImageURL  *string `json:"image_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	ShowCount int     `json:"show_count"`
}

// LinkRecord is a stored show/writer edge.
type LinkRecord struct {
	ShowID       int64  `json:"show_id"`
	WriterID     int64  `json:"writer_id"`
	Role         string `json:"role,omitempty"`
	EpisodeCount *int   `json:"episode_count,omitempty"`
}
