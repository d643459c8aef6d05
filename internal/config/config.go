// Package config defines the top-level configuration for the adjudicator and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by SOOTH_* environment variables.
type Config struct {
	Moltbook  MoltbookConfig  `toml:"moltbook"`
	Coingecko CoingeckoConfig `toml:"coingecko"`
	Scan      ScanConfig      `toml:"scan"`
	Market    MarketConfig    `toml:"market"`
	Data      DataConfig      `toml:"data"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Notify    NotifyConfig    `toml:"notify"`
	LogLevel  string          `toml:"log_level"`
}

// MoltbookConfig holds the forum API endpoint and credentials.
type MoltbookConfig struct {
	BaseURL string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
}

// CoingeckoConfig holds the price API endpoint and cache policy.
type CoingeckoConfig struct {
	BaseURL  string   `toml:"base_url"`
	CacheTTL duration `toml:"cache_ttl"`
}

// ScanConfig holds the prediction scan parameters.
type ScanConfig struct {
	Sorts          []string `toml:"sorts"`
	PostLimit      int      `toml:"post_limit"`
	CommentWorkers int      `toml:"comment_workers"`
	MinQuality     int      `toml:"min_quality"`
}

// MarketConfig holds structured-market posting parameters.
type MarketConfig struct {
	Submolt string `toml:"submolt"`
}

// DataConfig holds the local snapshot directory.
type DataConfig struct {
	Dir string `toml:"dir"`
}

// RedisConfig holds Redis connection parameters for the price cache.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds S3-compatible object storage parameters for snapshot
// archival.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	MoltbookPostID    string   `toml:"moltbook_post_id"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Moltbook: MoltbookConfig{
			BaseURL: "https://www.moltbook.com/api/v1",
		},
		Coingecko: CoingeckoConfig{
			BaseURL:  "https://api.coingecko.com/api/v3",
			CacheTTL: duration{5 * time.Minute},
		},
		Scan: ScanConfig{
			Sorts:          []string{"hot", "new"},
			PostLimit:      50,
			CommentWorkers: 8,
			MinQuality:     2,
		},
		Market: MarketConfig{
			Submolt: "predictmarket",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Moltbook.BaseURL == "" {
		errs = append(errs, "moltbook: base_url must not be empty")
	}
	if c.Coingecko.BaseURL == "" {
		errs = append(errs, "coingecko: base_url must not be empty")
	}

	if c.Scan.PostLimit < 1 {
		errs = append(errs, "scan: post_limit must be >= 1")
	}
	if c.Scan.CommentWorkers < 1 {
		errs = append(errs, "scan: comment_workers must be >= 1")
	}
	if c.Scan.MinQuality < 1 {
		errs = append(errs, "scan: min_quality must be >= 1")
	}
	if len(c.Scan.Sorts) == 0 {
		errs = append(errs, "scan: sorts must not be empty")
	}

	if c.Market.Submolt == "" {
		errs = append(errs, "market: submolt must not be empty")
	}
	if c.Data.Dir == "" {
		errs = append(errs, "data: dir must not be empty")
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty when enabled")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when enabled")
		}
	}

	// Telegram credentials must be set together, or not at all.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
