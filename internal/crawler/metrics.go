package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalShowsScraped tracks shows successfully fetched and persisted.
	TotalShowsScraped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expand_shows_scraped_total",
		Help: "The total number of shows scraped and saved across runs.",
	})
	// TotalWritersExpanded tracks filmography fetches performed.
	TotalWritersExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expand_writers_expanded_total",
		Help: "The total number of writer filmographies queried.",
	})
	// TotalLinksRecorded tracks show/writer credit edges written.
	TotalLinksRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expand_links_recorded_total",
		Help: "The total number of show-writer credit links upserted.",
	})
	// TotalFetchErrors tracks fetches that failed and were skipped.
	TotalFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "expand_fetch_errors_total",
		Help: "The total number of failed show or writer fetches.",
	})
	// FrontierShowDepth reports the current show queue depth.
	FrontierShowDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "expand_frontier_show_depth",
		Help: "Shows currently queued for a detail fetch.",
	})
	// FrontierWriterDepth reports the current writer queue depth.
	FrontierWriterDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "expand_frontier_writer_depth",
		Help: "Writers currently queued for a filmography fetch.",
	})
)
