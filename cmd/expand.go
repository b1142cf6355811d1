package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/crawler"
	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/imdb"
)

func newExpandCmd() *cobra.Command {
	var (
		targetShows int
		minEpisodes int
		seedShows   []string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Grow the show/writer graph by crawling outward",
		Long: `Expands the stored network: writers already linked to enough
episodes are followed to the other shows they wrote, and those shows'
credits pull in more writers. The run stops when the show target is
reached, the frontier drains, or the iteration cap fires.

An empty database needs at least one --seed show id to start from.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer syncLogger(logger)

			if !cmd.Flags().Changed("target") {
				targetShows = cfg.Expand.TargetShows
			}
			if !cmd.Flags().Changed("min-episodes") {
				minEpisodes = cfg.Expand.MinEpisodes
			}

			ctx := cmd.Context()
			store, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			adapter := imdb.New(imdb.Config{
				BaseURL:   cfg.Scraper.BaseURL,
				UserAgent: cfg.Scraper.UserAgent,
				Timeout:   cfg.ScrapeTimeout(),
			})
			driver := crawler.NewDriver(adapter, store, crawler.DriverConfig{
				SeedShows:       seedShows,
				MaxIterations:   cfg.Expand.MaxIterations,
				ShowDelay:       cfg.ShowDelay(),
				WriterDelay:     cfg.WriterDelay(),
				TopOverlapLimit: cfg.Expand.TopOverlaps,
			}, logger.Named("expand"))

			summary, err := driver.ExpandNetwork(ctx, targetShows, minEpisodes)
			if err != nil {
				return fmt.Errorf("expand network: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return fmt.Errorf("encode summary: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&targetShows, "target", 0, "stop once this many shows are stored (default from config)")
	cmd.Flags().IntVar(&minEpisodes, "min-episodes", 0, "episode credits required to follow a writer; 0 follows every writer (default from config)")
	cmd.Flags().StringSliceVar(&seedShows, "seed", nil, "IMDB title ids (tt...) to bootstrap an empty database")

	return cmd
}
