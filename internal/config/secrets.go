package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	// Moltbook
	out.Moltbook = cfg.Moltbook
	redact(&out.Moltbook.ApiKey)

	// Redis
	out.Redis = cfg.Redis
	redact(&out.Redis.Password)

	// S3
	out.S3 = cfg.S3
	redact(&out.S3.AccessKey)
	redact(&out.S3.SecretKey)

	// Notify
	out.Notify = cfg.Notify
	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Notify.Events != nil {
		out.Notify.Events = make([]string, len(cfg.Notify.Events))
		copy(out.Notify.Events, cfg.Notify.Events)
	}
	if cfg.Scan.Sorts != nil {
		out.Scan.Sorts = make([]string, len(cfg.Scan.Sorts))
		copy(out.Scan.Sorts, cfg.Scan.Sorts)
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}

// moltbookCredentialsFile is the shared agent credentials location, relative
// to the user's home directory.
var moltbookCredentialsFile = filepath.Join(".config", "moltbook", "credentials.json")

// loadMoltbookAPIKey reads the api_key field from the shared Moltbook
// credentials file. It returns "" when the file is missing or unreadable;
// the fallback is best-effort and validation catches a still-empty key later.
func loadMoltbookAPIKey() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return readAPIKeyFile(filepath.Join(home, moltbookCredentialsFile))
}

func readAPIKeyFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var creds struct {
		APIKey string `json:"api_key"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	return creds.APIKey
}
