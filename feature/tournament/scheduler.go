package tournament

import (
	"context"
	"time"

	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const TriggerScheduled = "scheduled"

// Runner runs a sync pass for one guild.
type Runner interface {
	Run(ctx context.Context, guildID string, feedIDs []string, opts tsync.Options) *tsync.Report
}

// GuildLister lists the settings of every known guild.
type GuildLister interface {
	List(ctx context.Context) ([]settings.GuildSettings, error)
}

// Scheduler runs passes for every auto-sync guild at a fixed interval.
type Scheduler struct {
	runner     Runner
	guilds     GuildLister
	interval   time.Duration
	workers    int
	runOnStart bool
	logger     *zap.Logger
}

// NewScheduler creates a scheduler from the sync configuration.
func NewScheduler(cfg tsync.Config, runner Runner, guilds GuildLister, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:     runner,
		guilds:     guilds,
		interval:   cfg.Interval(),
		workers:    cfg.Workers(),
		runOnStart: cfg.RunOnStart,
		logger:     logger,
	}
}

// Start blocks, running a tick every interval until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("workers", s.workers),
	)

	if s.runOnStart {
		s.Tick(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick syncs every guild with auto-sync enabled and at least one team.
// Guilds run concurrently up to the worker limit; it returns the number of guilds synced.
func (s *Scheduler) Tick(ctx context.Context) int {
	all, err := s.guilds.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list guild settings", zap.Error(err))
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	n := 0
	for _, guild := range all {
		if !guild.AutoSync || len(guild.Teams) == 0 {
			continue
		}
		n++
		g.Go(func() error {
			report := s.runner.Run(gctx, guild.GuildID, guild.Teams, tsync.Options{Trigger: TriggerScheduled})
			if skipped := report.Skipped(); len(skipped) > 0 {
				s.logger.Warn("Guild sync incomplete",
					zap.String("guild_id", guild.GuildID),
					zap.Int("skipped_feeds", len(skipped)),
				)
			}
			return nil
		})
	}
	_ = g.Wait()
	return n
}
