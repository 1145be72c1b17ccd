package tournament

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"go.uber.org/zap"
)

// ErrTeamExists is returned when registering a team twice.
var ErrTeamExists = errors.New("team already registered")

// FeedCache is the administrative view of the feed cache.
type FeedCache interface {
	CachedFeeds() int
	InvalidateAll()
	BreakerState() string
}

// Status summarizes the bot and one guild's configuration.
type Status struct {
	Uptime              string   `json:"uptime"`
	UptimeSeconds       int64    `json:"uptime_seconds"`
	GuildID             string   `json:"guild_id"`
	Teams               []string `json:"teams"`
	AutoSync            bool     `json:"auto_sync"`
	NotificationChannel string   `json:"notification_channel,omitempty"`
	CachedFeeds         int      `json:"cached_feeds"`
	FeedBreaker         string   `json:"feed_breaker"`
}

// Service implements the guild-facing tournament operations.
type Service struct {
	store        settings.Store
	orchestrator *tsync.Orchestrator
	remover      *tsync.Remover
	cache        FeedCache
	notifier     platform.Notifier
	logger       *zap.Logger
	started      time.Time
}

// NewService creates a new tournament service.
func NewService(store settings.Store, orchestrator *tsync.Orchestrator, remover *tsync.Remover, cache FeedCache, notifier platform.Notifier, logger *zap.Logger) *Service {
	return &Service{
		store:        store,
		orchestrator: orchestrator,
		remover:      remover,
		cache:        cache,
		notifier:     notifier,
		logger:       logger,
		started:      time.Now(),
	}
}

// Settings returns the guild's settings.
func (s *Service) Settings(ctx context.Context, guildID string) (settings.GuildSettings, error) {
	return s.store.Get(ctx, guildID)
}

// AddTeam registers a team and returns its normalized slug.
func (s *Service) AddTeam(ctx context.Context, guildID, team string) (string, error) {
	slug, err := settings.NormalizeTeam(team)
	if err != nil {
		return "", err
	}
	added, err := s.store.AddTeam(ctx, guildID, slug)
	if err != nil {
		return "", err
	}
	if !added {
		return slug, fmt.Errorf("%w: %s", ErrTeamExists, slug)
	}
	s.notifier.Notify(ctx, guildID, fmt.Sprintf("Team `%s` has been registered.", slug), platform.CategoryInfo)
	return slug, nil
}

// RemoveTeam unregisters a team and deletes its events.
func (s *Service) RemoveTeam(ctx context.Context, guildID, team string) (*tsync.RemovalReport, error) {
	slug, err := settings.NormalizeTeam(team)
	if err != nil {
		return nil, err
	}
	return s.remover.RemoveTeam(ctx, guildID, slug)
}

// SetNotificationChannel sets the guild's notification channel. An empty id clears it.
func (s *Service) SetNotificationChannel(ctx context.Context, guildID, channelID string) error {
	if err := s.store.SetNotificationChannel(ctx, guildID, channelID); err != nil {
		return err
	}
	if channelID != "" {
		s.notifier.Notify(ctx, guildID, fmt.Sprintf("Notification channel set to <#%s>.", channelID), platform.CategoryInfo)
	}
	return nil
}

// SetAutoSync toggles scheduled passes for the guild.
func (s *Service) SetAutoSync(ctx context.Context, guildID string, enabled bool) error {
	return s.store.SetAutoSync(ctx, guildID, enabled)
}

// Sync runs a pass over every registered team, or only team when it is set.
func (s *Service) Sync(ctx context.Context, guildID, team string, opts tsync.Options) (*tsync.Report, error) {
	current, err := s.store.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	teams := current.Teams
	if team != "" {
		slug, err := settings.NormalizeTeam(team)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(current.Teams, slug) {
			return nil, fmt.Errorf("%w: %s", tsync.ErrTeamNotRegistered, slug)
		}
		teams = []string{slug}
	}

	return s.orchestrator.Run(ctx, guildID, teams, opts), nil
}

// Status reports uptime, the guild's settings and cache state.
func (s *Service) Status(ctx context.Context, guildID string) (*Status, error) {
	current, err := s.store.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	uptime := time.Since(s.started).Truncate(time.Second)
	return &Status{
		Uptime:              uptime.String(),
		UptimeSeconds:       int64(uptime.Seconds()),
		GuildID:             guildID,
		Teams:               current.Teams,
		AutoSync:            current.AutoSync,
		NotificationChannel: current.NotificationChannel,
		CachedFeeds:         s.cache.CachedFeeds(),
		FeedBreaker:         s.cache.BreakerState(),
	}, nil
}

// ResetCache drops every cached feed.
func (s *Service) ResetCache() int {
	n := s.cache.CachedFeeds()
	s.cache.InvalidateAll()
	s.logger.Info("Feed cache cleared", zap.Int("entries", n))
	return n
}
