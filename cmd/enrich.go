package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/enrich"
	"github.com/notactuallytreyanastasio/tv-writer-overlap-explorer/internal/imdb"
)

func newEnrichCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Backfill writer headshots and bios",
		Long: `Walks every stored writer missing an image or bio, fetches their
profile page, and fills in what it finds. Safe to interrupt and re-run;
already-filled writers are not revisited.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer syncLogger(logger)

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
			enricher := enrich.New(store, adapter, enrich.Config{
				Delay:     cfg.EnrichDelay(),
				BatchSize: cfg.Enrich.BatchSize,
			}, logger.Named("enrich"))

			report, err := enricher.Run(ctx)
			if err != nil {
				return fmt.Errorf("enrich writers: %w", err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return nil
		},
	}

	return cmd
}
