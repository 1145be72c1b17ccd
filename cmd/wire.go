package cmd

import (
	"context"
	"errors"
	"fmt"

	"arena-sync/core/config"
	"arena-sync/core/database"
	"arena-sync/core/logger"
	"arena-sync/core/storage"
	"arena-sync/feature/integrity"
	"arena-sync/feature/tournament"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"go.uber.org/zap"
)

// setup loads configuration and builds the logger shared by every command.
// A configuration fallback is logged, not returned.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, cfgErr := config.LoadConfig(".")
	if cfg == nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", cfgErr)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if errors.Is(cfgErr, config.ErrFallback) {
		l.Warn("Configuration could not be fully read, defaults in use", zap.Error(cfgErr))
	}
	return cfg, l, nil
}

// openStore opens the configured settings backend. The returned deps carry
// the live backend for integrity checks.
func openStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (settings.Store, integrity.Deps, error) {
	deps := integrity.Deps{StorageConfig: cfg.Storage}

	switch cfg.Settings.Backend {
	case settings.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, deps, fmt.Errorf("failed to connect to storage: %w", err)
		}
		deps.Storage = client
		l.Info("Using object storage settings",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("object", cfg.Storage.SettingsObject))
		return settings.NewObjectStore(client, cfg.Storage, l), deps, nil
	case settings.BackendDatabase, "":
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, deps, fmt.Errorf("failed to connect to database: %w", err)
		}
		store := settings.NewGormStore(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, deps, err
		}
		if err := store.Check(ctx); err != nil {
			return nil, deps, fmt.Errorf("settings schema check failed: %w", err)
		}
		deps.DB, deps.Migrator = db, store
		l.Info("Using database settings", zap.String("driver", cfg.Database.Driver))
		return store, deps, nil
	default:
		return nil, deps, fmt.Errorf("unsupported settings backend %q", cfg.Settings.Backend)
	}
}

// stack is the assembled tournament feature.
type stack struct {
	store        settings.Store
	discord      *platform.Discord
	source       *feed.Source
	normalizer   *feed.Normalizer
	orchestrator *tsync.Orchestrator
	service      *tournament.Service
	integrity    *integrity.Service
}

// buildStack wires the feed, the Discord adapter and the sync engine.
// CLI runs log notifications; the server posts them to guild channels.
func buildStack(ctx context.Context, cfg *config.Config, l *zap.Logger, channelNotifications bool) (*stack, error) {
	store, deps, err := openStore(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	session, err := platform.NewSession(cfg.Discord)
	if err != nil {
		return nil, err
	}
	discord := platform.NewDiscord(session, cfg.Discord.Limiter(), l)

	var notifier platform.Notifier = platform.NewLogNotifier(l)
	if channelNotifications {
		notifier = platform.NewChannelNotifier(discord, store, cfg.Notifications, l)
	}

	ingestor := feed.NewIngestor(cfg.Feed, nil, l)
	source := feed.NewSource(cfg.Feed, ingestor, feed.NewCache(cfg.Cache), l)
	normalizer := feed.NewNormalizer(cfg.Feed, cfg.Sync.DefaultDuration())

	orchestrator := tsync.NewOrchestrator(discord, source, normalizer, notifier, l)
	remover := tsync.NewRemover(discord, source, normalizer, store, notifier, l)

	deps.Feeds = ingestor
	deps.Breaker = source

	return &stack{
		store:        store,
		discord:      discord,
		source:       source,
		normalizer:   normalizer,
		orchestrator: orchestrator,
		service:      tournament.NewService(store, orchestrator, remover, source, notifier, l),
		integrity:    integrity.NewService(deps, l),
	}, nil
}
