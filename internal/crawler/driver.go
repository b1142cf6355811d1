package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default driver settings, matching the reference crawl behavior.
const (
	DefaultMaxIterations   = 500
	DefaultShowDelay       = time.Second
	DefaultWriterDelay     = 500 * time.Millisecond
	DefaultTopOverlapLimit = 15
)

// DriverConfig carries the knobs fixed at the start of a run.
type DriverConfig struct {
	// SeedShows are IMDB title ids queued before any stored seeds,
	// used to bootstrap an empty database.
	SeedShows []string
	// MaxIterations bounds the outer loop as a safety valve.
	MaxIterations int
	// ShowDelay is the politeness pause after each successful show fetch.
	ShowDelay time.Duration
	// WriterDelay is the politeness pause before a filmography fetch.
	WriterDelay time.Duration
	// TopOverlapLimit caps the overlap entries carried in the summary.
	TopOverlapLimit int
}

func (c DriverConfig) withDefaults() DriverConfig {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.ShowDelay <= 0 {
		c.ShowDelay = DefaultShowDelay
	}
	if c.WriterDelay <= 0 {
		c.WriterDelay = DefaultWriterDelay
	}
	if c.TopOverlapLimit <= 0 {
		c.TopOverlapLimit = DefaultTopOverlapLimit
	}
	return c
}

// pauseController abstracts the inter-request delay so tests can run
// without sleeping.
type pauseController interface {
	Pause(ctx context.Context, delay time.Duration)
}

type timerPauseController struct{}

func (p *timerPauseController) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Driver runs the expansion loop: drain the show queue, pop one writer,
// repeat until the target is met, the frontier empties, or the safety
// cap fires.
type Driver struct {
	adapter ScrapeAdapter
	store   Store
	cfg     DriverConfig
	logger  *zap.Logger
	pause   pauseController
}

// NewDriver constructs a Driver. Zero-value config fields fall back to
// the package defaults.
func NewDriver(adapter ScrapeAdapter, store Store, cfg DriverConfig, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{
		adapter: adapter,
		store:   store,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		pause:   &timerPauseController{},
	}
}

// ExpandNetwork grows the stored graph until it holds targetShows shows,
// following writers with at least minEpisodes episode credits out to
// shows not yet visited. It always returns a summary; fetch failures are
// recovered per identifier and never abort the run.
func (d *Driver) ExpandNetwork(ctx context.Context, targetShows, minEpisodes int) (Summary, error) {
	runID := uuid.NewString()
	log := d.logger.With(zap.String("run_id", runID))

	existing, err := d.store.ExistingShowIDs(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load existing shows: %w", err)
	}
	scraped := NewTrackerFrom(existing)
	log.Info("Expansion starting",
		zap.Int("existing_shows", scraped.Len()),
		zap.Int("target_shows", targetShows),
		zap.Int("min_episodes", minEpisodes),
	)

	if scraped.Len() >= targetShows {
		log.Info("Target already met, nothing to fetch")
		return d.summarize(ctx, runID, StopTargetReached, 0, 0)
	}

	seeds, err := d.store.EligibleSeedWriters(ctx, minEpisodes)
	if err != nil {
		return Summary{}, fmt.Errorf("load seed writers: %w", err)
	}
	frontier := NewFrontier()
	for _, id := range d.cfg.SeedShows {
		if !scraped.Contains(id) {
			frontier.PushShow(ShowRef{IMDBID: id})
		}
	}
	for _, w := range seeds {
		frontier.PushWriter(w)
	}
	processed := NewTracker()
	log.Info("Seeded frontier",
		zap.Int("shows", frontier.ShowLen()),
		zap.Int("writers", frontier.WriterLen()),
	)

	startCount := scraped.Len()
	stop := StopSafetyCap
	iterations := 0
	for iterations < d.cfg.MaxIterations {
		iterations++

		d.drainShows(ctx, log, frontier, scraped, processed, targetShows, minEpisodes)
		if scraped.Len() < targetShows {
			d.expandOneWriter(ctx, log, frontier, scraped, processed)
		}
		FrontierShowDepth.Set(float64(frontier.ShowLen()))
		FrontierWriterDepth.Set(float64(frontier.WriterLen()))

		if frontier.Empty() {
			stop = StopFrontierExhausted
			break
		}
		if scraped.Len() >= targetShows {
			stop = StopTargetReached
			break
		}
	}

	log.Info("Expansion finished",
		zap.String("stop_reason", string(stop)),
		zap.Int("iterations", iterations),
		zap.Int("shows_scraped", scraped.Len()-startCount),
	)
	return d.summarize(ctx, runID, stop, iterations, scraped.Len()-startCount)
}

// drainShows empties the show queue, fetching and persisting each show
// until the queue runs out or the target is reached. Dedup for shows is
// lazy: already-scraped ids are discarded at pop time.
func (d *Driver) drainShows(
	ctx context.Context,
	log *zap.Logger,
	frontier *Frontier,
	scraped, processed *Tracker,
	targetShows, minEpisodes int,
) {
	for scraped.Len() < targetShows {
		ref, ok := frontier.PopShow()
		if !ok {
			return
		}
		if scraped.Contains(ref.IMDBID) {
			continue
		}

		log.Info("Scraping show",
			zap.String("imdb_id", ref.IMDBID),
			zap.String("title", ref.Title),
			zap.Int("have", scraped.Len()),
			zap.Int("target", targetShows),
		)
		if err := d.scrapeShow(ctx, log, ref, frontier, processed, minEpisodes); err != nil {
			// Not marked scraped, so the id may be re-queued later.
			TotalFetchErrors.Inc()
			log.Warn("Show fetch failed",
				zap.String("imdb_id", ref.IMDBID),
				zap.Error(err),
			)
			continue
		}
		scraped.Mark(ref.IMDBID)
		TotalShowsScraped.Inc()
		d.pause.Pause(ctx, d.cfg.ShowDelay)
	}
}

// scrapeShow fetches one show's detail and credits, persists both, and
// enqueues any newly seen prolific writers.
func (d *Driver) scrapeShow(
	ctx context.Context,
	log *zap.Logger,
	ref ShowRef,
	frontier *Frontier,
	processed *Tracker,
	minEpisodes int,
) error {
	detail, err := d.adapter.FetchShowDetail(ctx, ref.IMDBID)
	if err != nil {
		return fmt.Errorf("fetch show detail: %w", err)
	}
	showRowID, err := d.store.UpsertShow(ctx, detail)
	if err != nil {
		return fmt.Errorf("upsert show: %w", err)
	}

	credits, err := d.adapter.FetchShowWriters(ctx, ref.IMDBID)
	if err != nil {
		// Credits degrade to empty; the show itself is persisted.
		TotalFetchErrors.Inc()
		log.Warn("Writer credits fetch failed",
			zap.String("imdb_id", ref.IMDBID),
			zap.Error(err),
		)
		credits = nil
	}
	for _, credit := range credits {
		writerRowID, err := d.store.UpsertWriter(ctx, credit.IMDBID, credit.Name)
		if err != nil {
			log.Warn("Writer upsert failed",
				zap.String("writer_imdb_id", credit.IMDBID),
				zap.Error(err),
			)
			continue
		}
		if err := d.store.LinkShowWriter(ctx, showRowID, writerRowID, credit.Role, credit.EpisodeCount); err != nil {
			log.Warn("Credit link failed",
				zap.String("writer_imdb_id", credit.IMDBID),
				zap.Error(err),
			)
			continue
		}
		TotalLinksRecorded.Inc()

		if credit.EpisodeCount != nil && *credit.EpisodeCount >= minEpisodes &&
			!processed.Contains(credit.IMDBID) {
			frontier.PushWriter(WriterRef{IMDBID: credit.IMDBID, Name: credit.Name})
		}
	}
	log.Info("Show persisted",
		zap.String("imdb_id", ref.IMDBID),
		zap.Int("writers", len(credits)),
	)
	return nil
}

// expandOneWriter pops a single writer and enqueues the shows from their
// filmography that have not been scraped yet. Writers are marked
// processed before the network call so a broken identifier is never
// retried.
func (d *Driver) expandOneWriter(
	ctx context.Context,
	log *zap.Logger,
	frontier *Frontier,
	scraped, processed *Tracker,
) {
	writer, ok := frontier.PopWriter()
	if !ok {
		return
	}
	if processed.Contains(writer.IMDBID) {
		return
	}
	processed.Mark(writer.IMDBID)
	TotalWritersExpanded.Inc()

	d.pause.Pause(ctx, d.cfg.WriterDelay)
	shows, err := d.adapter.FetchWriterFilmography(ctx, writer.IMDBID)
	if err != nil {
		TotalFetchErrors.Inc()
		log.Warn("Filmography fetch failed",
			zap.String("writer_imdb_id", writer.IMDBID),
			zap.String("name", writer.Name),
			zap.Error(err),
		)
		return
	}

	fresh := 0
	for _, show := range shows {
		if scraped.Contains(show.IMDBID) {
			continue
		}
		frontier.PushShow(show)
		fresh++
	}
	log.Info("Writer expanded",
		zap.String("writer_imdb_id", writer.IMDBID),
		zap.String("name", writer.Name),
		zap.Int("new_shows", fresh),
		zap.Int("total_shows", len(shows)),
	)
}

// summarize builds the end-of-run report from the store's current state.
func (d *Driver) summarize(
	ctx context.Context,
	runID string,
	stop StopReason,
	iterations, showsScraped int,
) (Summary, error) {
	showsTotal, err := d.store.CountShows(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count shows: %w", err)
	}
	writersTotal, err := d.store.CountWriters(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count writers: %w", err)
	}
	overlaps, err := d.store.OverlapReport(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("overlap report: %w", err)
	}
	top := overlaps
	if len(top) > d.cfg.TopOverlapLimit {
		top = top[:d.cfg.TopOverlapLimit]
	}
	return Summary{
		RunID:              runID,
		Stop:               stop,
		Iterations:         iterations,
		ShowsScraped:       showsScraped,
		ShowsTotal:         showsTotal,
		WritersTotal:       writersTotal,
		WritersWithOverlap: len(overlaps),
		TopOverlaps:        top,
	}, nil
}
