// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Expand  ExpandConfig  `mapstructure:"expand"`
	Enrich  EnrichConfig  `mapstructure:"enrich"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the read-only JSON API server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig controls access to the Postgres database.
type DBConfig struct {
	DSN                string `mapstructure:"dsn"`
	MaxConns           int    `mapstructure:"max_conns"`
	MinConns           int    `mapstructure:"min_conns"`
	ConnLifetimeMinute int    `mapstructure:"conn_lifetime_minutes"`
}

// ScraperConfig governs the IMDB scrape adapter.
type ScraperConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ExpandConfig governs the network-expansion crawl driver.
type ExpandConfig struct {
	TargetShows   int `mapstructure:"target_shows"`
	MinEpisodes   int `mapstructure:"min_episodes"`
	MaxIterations int `mapstructure:"max_iterations"`
	ShowDelayMs   int `mapstructure:"show_delay_ms"`
	WriterDelayMs int `mapstructure:"writer_delay_ms"`
	TopOverlaps   int `mapstructure:"top_overlaps"`
}

// EnrichConfig governs the writer-details enrichment job.
type EnrichConfig struct {
	DelayMs   int `mapstructure:"delay_ms"`
	BatchSize int `mapstructure:"batch_size"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TVGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 0)
	v.SetDefault("db.conn_lifetime_minutes", 30)
	v.SetDefault("scraper.base_url", "https://www.imdb.com")
	v.SetDefault("scraper.user_agent", "tv-writer-overlap-explorer/0.1")
	v.SetDefault("scraper.timeout_seconds", 30)
	v.SetDefault("expand.target_shows", 100)
	v.SetDefault("expand.min_episodes", 3)
	v.SetDefault("expand.max_iterations", 500)
	v.SetDefault("expand.show_delay_ms", 1000)
	v.SetDefault("expand.writer_delay_ms", 500)
	v.SetDefault("expand.top_overlaps", 15)
	v.SetDefault("enrich.delay_ms", 500)
	v.SetDefault("enrich.batch_size", 50)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scraper.TimeoutSeconds <= 0 {
		return fmt.Errorf("scraper.timeout_seconds must be > 0")
	}
	if c.Expand.TargetShows <= 0 {
		return fmt.Errorf("expand.target_shows must be > 0")
	}
	if c.Expand.MaxIterations <= 0 {
		return fmt.Errorf("expand.max_iterations must be > 0")
	}
	if c.Enrich.BatchSize <= 0 {
		return fmt.Errorf("enrich.batch_size must be > 0")
	}
	return nil
}

// ScrapeTimeout converts the scraper timeout config into a duration.
func (c Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.Scraper.TimeoutSeconds) * time.Second
}

// ShowDelay is the politeness pause after each successful show fetch.
func (c Config) ShowDelay() time.Duration {
	return time.Duration(c.Expand.ShowDelayMs) * time.Millisecond
}

// WriterDelay is the politeness pause before a filmography fetch.
func (c Config) WriterDelay() time.Duration {
	return time.Duration(c.Expand.WriterDelayMs) * time.Millisecond
}

// EnrichDelay is the pause between writer-detail fetches.
func (c Config) EnrichDelay() time.Duration {
	return time.Duration(c.Enrich.DelayMs) * time.Millisecond
}

// ConnLifetime is the maximum lifetime for pooled database connections.
func (c Config) ConnLifetime() time.Duration {
	return time.Duration(c.DB.ConnLifetimeMinute) * time.Minute
}
