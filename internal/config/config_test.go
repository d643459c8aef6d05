package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.moltbook.com/api/v1", cfg.Moltbook.BaseURL)
	assert.Equal(t, []string{"hot", "new"}, cfg.Scan.Sorts)
	assert.Equal(t, 50, cfg.Scan.PostLimit)
	assert.Equal(t, "predictmarket", cfg.Market.Submolt)
	assert.Equal(t, 5*time.Minute, cfg.Coingecko.CacheTTL.Duration)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
log_level = "debug"

[moltbook]
api_key = "mb_test_key"

[coingecko]
cache_ttl = "30s"

[scan]
sorts = ["new"]
post_limit = 10

[s3]
enabled = true
bucket = "snapshots"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "mb_test_key", cfg.Moltbook.ApiKey)
	assert.Equal(t, 30*time.Second, cfg.Coingecko.CacheTTL.Duration)
	assert.Equal(t, []string{"new"}, cfg.Scan.Sorts)
	assert.Equal(t, 10, cfg.Scan.PostLimit)
	// Untouched sections keep their defaults.
	assert.Equal(t, 8, cfg.Scan.CommentWorkers)
	assert.True(t, cfg.S3.Enabled)
	assert.Equal(t, "snapshots", cfg.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	t.Setenv("SOOTH_MOLTBOOK_API_KEY", "env_key")
	t.Setenv("SOOTH_SCAN_POST_LIMIT", "25")
	t.Setenv("SOOTH_SCAN_SORTS", "top, rising")
	t.Setenv("SOOTH_REDIS_ENABLED", "true")
	t.Setenv("SOOTH_COINGECKO_CACHE_TTL", "1m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env_key", cfg.Moltbook.ApiKey)
	assert.Equal(t, 25, cfg.Scan.PostLimit)
	assert.Equal(t, []string{"top", "rising"}, cfg.Scan.Sorts)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Minute, cfg.Coingecko.CacheTTL.Duration)
}

func TestLoad_CredentialsFileFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	credsPath := filepath.Join(home, ".config", "moltbook", "credentials.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(credsPath), 0o755))
	require.NoError(t, os.WriteFile(credsPath, []byte(`{"api_key":"file_key"}`), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file_key", cfg.Moltbook.ApiKey)

	// Env still wins over the credentials file.
	t.Setenv("SOOTH_MOLTBOOK_API_KEY", "env_key")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "env_key", cfg.Moltbook.ApiKey)
}

func TestReadAPIKeyFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"api_key":"abc"}`), 0o600))
	assert.Equal(t, "abc", readAPIKeyFile(path))

	// Missing and malformed files degrade to empty.
	assert.Empty(t, readAPIKeyFile(filepath.Join(dir, "nope.json")))
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
	assert.Empty(t, readAPIKeyFile(path))
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "loud"
	cfg.Moltbook.BaseURL = ""
	cfg.Scan.PostLimit = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "moltbook")
	assert.Contains(t, err.Error(), "post_limit")
}

func TestValidate_ConditionalSections(t *testing.T) {
	cfg := Defaults()
	cfg.S3.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3: bucket")

	cfg = Defaults()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: addr")

	cfg = Defaults()
	cfg.Notify.TelegramToken = "token-without-chat"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestRedactedConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Moltbook.ApiKey = "mb_secret"
	cfg.Redis.Password = "hunter2"
	cfg.S3.AccessKey = "AKIA123"
	cfg.S3.SecretKey = "s3secret"
	cfg.Notify.TelegramToken = "tg_token"

	r := RedactedConfig(&cfg)
	assert.Equal(t, redacted, r.Moltbook.ApiKey)
	assert.Equal(t, redacted, r.Redis.Password)
	assert.Equal(t, redacted, r.S3.AccessKey)
	assert.Equal(t, redacted, r.S3.SecretKey)
	assert.Equal(t, redacted, r.Notify.TelegramToken)

	// The original is untouched.
	assert.Equal(t, "mb_secret", cfg.Moltbook.ApiKey)
}
