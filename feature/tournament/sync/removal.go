package sync

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"arena-sync/core/metrics"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"

	"go.uber.org/zap"
)

// ErrTeamNotRegistered is returned when removing a team the guild never added.
var ErrTeamNotRegistered = errors.New("team not registered")

// FreshSource reads feeds bypassing the cache and evicts cached feeds.
type FreshSource interface {
	Fresh(ctx context.Context, feedID string) (feed.Result, error)
	Invalidate(feedID string)
}

// TeamRegistry is the part of the settings store used by team removal.
type TeamRegistry interface {
	Get(ctx context.Context, guildID string) (settings.GuildSettings, error)
	RemoveTeam(ctx context.Context, guildID, team string) (bool, error)
}

// RemovalReport is the result of removing a team.
type RemovalReport struct {
	Team string `json:"team"`
	// Matched is the number of guild events located at one of the team's tournaments.
	Matched int `json:"matched"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
	// Warning explains why cleanup was partial; empty when it was complete.
	Warning string `json:"warning,omitempty"`
}

// Message renders the report for the user.
func (r *RemovalReport) Message() string {
	return fmt.Sprintf("Team `%s` removed. Deleted %d associated event(s).", r.Team, r.Deleted)
}

// Remover unregisters teams and deletes the events they produced.
type Remover struct {
	platform   platform.Platform
	source     FreshSource
	normalizer *feed.Normalizer
	registry   TeamRegistry
	notifier   platform.Notifier
	logger     *zap.Logger
}

// NewRemover wires the removal dependencies.
func NewRemover(p platform.Platform, source FreshSource, normalizer *feed.Normalizer, registry TeamRegistry, notifier platform.Notifier, logger *zap.Logger) *Remover {
	return &Remover{
		platform:   p,
		source:     source,
		normalizer: normalizer,
		registry:   registry,
		notifier:   notifier,
		logger:     logger,
	}
}

// RemoveTeam deletes every guild event pointing at one of the team's current
// tournaments, then unregisters the team and evicts its cached feed.
//
// Without permission nothing is changed. When the feed or the event listing is
// unavailable the team is still unregistered and the report carries a warning.
func (r *Remover) RemoveTeam(ctx context.Context, guildID, team string) (*RemovalReport, error) {
	log := r.logger.With(zap.String("guild_id", guildID), zap.String("feed_id", team))

	allowed, err := r.platform.CanManageEvents(ctx, guildID)
	if err == nil && !allowed {
		err = platform.ErrPermissionDenied
	}
	if err != nil {
		return nil, fmt.Errorf("remove team %s: %w", team, err)
	}

	current, err := r.registry.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(current.Teams, team) {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotRegistered, team)
	}

	report := &RemovalReport{Team: team}
	r.deleteEvents(ctx, log, guildID, team, report)

	r.source.Invalidate(team)
	if _, err := r.registry.RemoveTeam(ctx, guildID, team); err != nil {
		return report, err
	}

	log.Info("Team removed",
		zap.Int("matched", report.Matched),
		zap.Int("deleted", report.Deleted),
		zap.Int("failed", report.Failed),
	)
	r.notifier.Notify(ctx, guildID, report.Message(), platform.CategoryDelete)
	return report, nil
}

func (r *Remover) deleteEvents(ctx context.Context, log *zap.Logger, guildID, team string, report *RemovalReport) {
	res, err := r.source.Fresh(ctx, team)
	if err != nil {
		log.Warn("Feed unavailable, team events are left in place", zap.Error(err))
		report.Warning = "feed unavailable: " + err.Error()
		return
	}

	owned := make(map[string]struct{})
	for _, id := range feed.IDs(res.Records) {
		owned[r.normalizer.DedupKey(id)] = struct{}{}
	}
	if len(owned) == 0 {
		return
	}

	snapshot, err := r.platform.ListEvents(ctx, guildID)
	if err != nil {
		log.Warn("Event listing failed, team events are left in place", zap.Error(err))
		report.Warning = "event listing failed: " + err.Error()
		return
	}

	for _, ev := range snapshot {
		if _, ok := owned[ev.Location]; !ok {
			continue
		}
		report.Matched++
		err := r.platform.DeleteEvent(ctx, ev)
		metrics.RecordAction("delete", err)
		if err != nil {
			report.Failed++
			log.Warn("Failed to delete event", zap.String("event_id", ev.ID), zap.String("location", ev.Location), zap.Error(err))
			continue
		}
		report.Deleted++
	}
}
