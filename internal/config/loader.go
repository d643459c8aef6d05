package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SOOTH_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. An empty path skips the
// TOML file entirely and uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	// Last resort for the forum key: the shared agent credentials file at
	// ~/.config/moltbook/credentials.json.
	if cfg.Moltbook.ApiKey == "" {
		cfg.Moltbook.ApiKey = loadMoltbookAPIKey()
	}

	return &cfg, nil
}

// applyEnvOverrides reads well-known SOOTH_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Moltbook ──
	setStr(&cfg.Moltbook.BaseURL, "SOOTH_MOLTBOOK_BASE_URL")
	setStr(&cfg.Moltbook.ApiKey, "SOOTH_MOLTBOOK_API_KEY")

	// ── Coingecko ──
	setStr(&cfg.Coingecko.BaseURL, "SOOTH_COINGECKO_BASE_URL")
	setDuration(&cfg.Coingecko.CacheTTL, "SOOTH_COINGECKO_CACHE_TTL")

	// ── Scan ──
	setStringSlice(&cfg.Scan.Sorts, "SOOTH_SCAN_SORTS")
	setInt(&cfg.Scan.PostLimit, "SOOTH_SCAN_POST_LIMIT")
	setInt(&cfg.Scan.CommentWorkers, "SOOTH_SCAN_COMMENT_WORKERS")
	setInt(&cfg.Scan.MinQuality, "SOOTH_SCAN_MIN_QUALITY")

	// ── Market ──
	setStr(&cfg.Market.Submolt, "SOOTH_MARKET_SUBMOLT")

	// ── Data ──
	setStr(&cfg.Data.Dir, "SOOTH_DATA_DIR")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "SOOTH_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "SOOTH_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SOOTH_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SOOTH_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SOOTH_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SOOTH_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SOOTH_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "SOOTH_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "SOOTH_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "SOOTH_S3_REGION")
	setStr(&cfg.S3.Bucket, "SOOTH_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "SOOTH_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "SOOTH_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "SOOTH_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "SOOTH_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "SOOTH_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "SOOTH_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "SOOTH_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.MoltbookPostID, "SOOTH_NOTIFY_MOLTBOOK_POST_ID")
	setStringSlice(&cfg.Notify.Events, "SOOTH_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SOOTH_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
