package enrich

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
)

// Store is the persistence surface the enricher needs.
type Store interface {
	WritersMissingDetails(ctx context.Context) ([]crawler.WriterRecord, error)
	UpdateWriterDetails(ctx context.Context, imdbID string, imageURL, bio *string) error
}

// DetailFetcher loads one writer's profile page.
type DetailFetcher interface {
	FetchWriterDetails(ctx context.Context, writerID string) (imageURL, bio string, err error)
}

// Config controls enrichment pacing and output.
type Config struct {
	// Delay between writer page fetches.
	Delay time.Duration
	// BatchSize sets how often progress is logged.
	BatchSize int
	// BioLimit caps stored bio length in runes.
	BioLimit int
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.BioLimit <= 0 {
		c.BioLimit = DefaultBioLimit
	}
	return c
}

// Report summarizes one enrichment run.
type Report struct {
	Total   int `json:"total"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Enricher walks writers missing details and fills them in one page at
// a time.
type Enricher struct {
	store   Store
	fetcher DetailFetcher
	cfg     Config
	logger  *zap.Logger
}

// New builds an Enricher.
func New(store Store, fetcher DetailFetcher, cfg Config, logger *zap.Logger) *Enricher {
	return &Enricher{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// Run fetches details for every writer missing them. Per-writer fetch
// failures are counted and skipped; the run keeps going. The returned
// report is valid even when the context is canceled midway.
func (e *Enricher) Run(ctx context.Context) (Report, error) {
	writers, err := e.store.WritersMissingDetails(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list writers missing details: %w", err)
	}

	report := Report{Total: len(writers)}
	e.logger.Info("enrichment starting", zap.Int("writers", report.Total))

	for i, writer := range writers {
		if err := e.enrichOne(ctx, writer, &report); err != nil {
			if ctx.Err() != nil {
				return report, fmt.Errorf("enrichment interrupted: %w", ctx.Err())
			}
			report.Failed++
			e.logger.Warn("writer enrichment failed",
				zap.String("writer_id", writer.IMDBID),
				zap.Error(err),
			)
		}

		if (i+1)%e.cfg.BatchSize == 0 {
			e.logger.Info("enrichment progress",
				zap.Int("done", i+1),
				zap.Int("total", report.Total),
				zap.Int("updated", report.Updated),
				zap.Int("failed", report.Failed),
			)
		}

		if i < len(writers)-1 {
			if err := e.pause(ctx); err != nil {
				return report, fmt.Errorf("enrichment interrupted: %w", err)
			}
		}
	}

	e.logger.Info("enrichment finished",
		zap.Int("total", report.Total),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (e *Enricher) enrichOne(ctx context.Context, writer crawler.WriterRecord, report *Report) error {
	imageURL, bio, err := e.fetcher.FetchWriterDetails(ctx, writer.IMDBID)
	if err != nil {
		return fmt.Errorf("fetch details: %w", err)
	}

	var imagePtr, bioPtr *string
	if imageURL != "" {
		imagePtr = &imageURL
	}
	if bio != "" {
		truncated := TruncateBio(bio, e.cfg.BioLimit)
		bioPtr = &truncated
	}
	if imagePtr == nil && bioPtr == nil {
		report.Skipped++
		return nil
	}

	if err := e.store.UpdateWriterDetails(ctx, writer.IMDBID, imagePtr, bioPtr); err != nil {
		return fmt.Errorf("update writer: %w", err)
	}
	report.Updated++
	return nil
}

func (e *Enricher) pause(ctx context.Context) error {
	if e.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
