package app

import (
	"context"
	"fmt"
	"log/slog"

	s3blob "github.com/soothsayer/adjudicator/internal/blob/s3"
	"github.com/soothsayer/adjudicator/internal/cache/memory"
	"github.com/soothsayer/adjudicator/internal/cache/redis"
	"github.com/soothsayer/adjudicator/internal/config"
	"github.com/soothsayer/adjudicator/internal/domain"
	"github.com/soothsayer/adjudicator/internal/notify"
	"github.com/soothsayer/adjudicator/internal/oracle"
	"github.com/soothsayer/adjudicator/internal/platform/coingecko"
	"github.com/soothsayer/adjudicator/internal/platform/moltbook"
	"github.com/soothsayer/adjudicator/internal/store/jsonfile"
)

// Dependencies bundles every concrete dependency the commands need. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Store  *jsonfile.Store
	Locker domain.Locker

	PriceCache domain.PriceCache
	Moltbook   *moltbook.Client
	Oracle     *oracle.Oracle

	Archiver domain.Archiver
	Notifier *notify.Notifier
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Snapshot store ---
	store, err := jsonfile.New(cfg.Data.Dir)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: store: %w", err)
	}
	deps.Store = store
	deps.Locker = jsonfile.NewLock(store)

	// --- Price cache: Redis when enabled, in-process otherwise ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		deps.PriceCache = redis.NewPriceCache(redisClient, cfg.Coingecko.CacheTTL.Duration)
	} else {
		deps.PriceCache = memory.NewPriceCache()
	}

	// --- Platform clients ---
	deps.Moltbook = moltbook.New(cfg.Moltbook.BaseURL, cfg.Moltbook.ApiKey)
	prices := coingecko.New(cfg.Coingecko.BaseURL)

	deps.Oracle = oracle.New(prices, deps.PriceCache, cfg.Coingecko.CacheTTL.Duration, logger)

	// --- S3 snapshot archival ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: s3: %w", err)
		}

		writer := s3blob.NewWriter(s3Client)
		deps.Archiver = s3blob.NewSnapshotArchiver(writer, store, jsonfile.SnapshotFiles(), logger)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.MoltbookPostID != "" {
		senders = append(senders, notify.NewMoltbookSender(deps.Moltbook, cfg.Notify.MoltbookPostID))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
