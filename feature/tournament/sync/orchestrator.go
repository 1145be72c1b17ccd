package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"arena-sync/core/metrics"
	"arena-sync/core/reconcile"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/models"
	"arena-sync/feature/tournament/platform"
	events "arena-sync/feature/tournament/reconcile"

	"go.uber.org/zap"
)

const TriggerManual = "manual"

// RecordSource provides the raw records of a feed.
type RecordSource interface {
	Records(ctx context.Context, feedID string) (feed.Result, error)
}

// Options tune a single Run.
type Options struct {
	// Snapshot replaces the platform event listing when non-nil.
	Snapshot []models.PlatformEvent
	// DryRun plans without writing to the platform or notifying.
	DryRun bool
	// Trigger labels the pass in logs and metrics.
	Trigger string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used to filter started tournaments.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator runs sync passes for one guild at a time.
type Orchestrator struct {
	platform   platform.Platform
	source     RecordSource
	normalizer *feed.Normalizer
	notifier   platform.Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrchestrator wires the pass dependencies.
func NewOrchestrator(p platform.Platform, source RecordSource, normalizer *feed.Normalizer, notifier platform.Notifier, logger *zap.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		platform:   p,
		source:     source,
		normalizer: normalizer,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run syncs every feed of guildID in order and sends at most one create and one
// update notification. Feed failures are recorded in the report and never stop the pass.
func (o *Orchestrator) Run(ctx context.Context, guildID string, feedIDs []string, opts Options) *Report {
	trigger := opts.Trigger
	if trigger == "" {
		trigger = TriggerManual
	}
	log := o.logger.With(zap.String("guild_id", guildID), zap.String("trigger", trigger))

	report := &Report{
		GuildID:   guildID,
		Trigger:   trigger,
		DryRun:    opts.DryRun,
		Feeds:     make([]FeedReport, 0, len(feedIDs)),
		StartedAt: o.now().UTC(),
	}
	metrics.RecordPass(trigger)

	for i, feedID := range feedIDs {
		if err := ctx.Err(); err != nil {
			for _, rest := range feedIDs[i:] {
				fr := FeedReport{FeedID: rest}
				fr.fail(StatusCanceled, err)
				report.Feeds = append(report.Feeds, fr)
			}
			log.Warn("Sync pass canceled", zap.Int("remaining_feeds", len(feedIDs)-i))
			break
		}
		report.Feeds = append(report.Feeds, o.syncFeed(ctx, log, guildID, feedID, opts, &report.SyncResult))
	}

	if !opts.DryRun {
		// Events already written are announced even when the pass was canceled.
		o.notify(context.WithoutCancel(ctx), guildID, feedIDs, report.SyncResult)
	}
	report.FinishedAt = o.now().UTC()

	log.Info("Sync pass finished",
		zap.Int("feeds", len(feedIDs)),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failures()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report
}

func (o *Orchestrator) syncFeed(ctx context.Context, log *zap.Logger, guildID, feedID string, opts Options, result *models.SyncResult) FeedReport {
	fr := FeedReport{FeedID: feedID, Status: StatusOK}
	log = log.With(zap.String("feed_id", feedID))

	allowed, err := o.platform.CanManageEvents(ctx, guildID)
	if err != nil {
		status := StatusPlatformError
		switch {
		case errors.Is(err, platform.ErrPermissionDenied):
			status = StatusPermissionDenied
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			status = StatusCanceled
		}
		log.Warn("Skipping feed, permission check failed", zap.String("status", string(status)), zap.Error(err))
		fr.fail(status, err)
		return fr
	}
	if !allowed {
		log.Warn("Skipping feed, cannot manage events")
		fr.fail(StatusPermissionDenied, platform.ErrPermissionDenied)
		return fr
	}

	snapshot := opts.Snapshot
	if snapshot == nil {
		snapshot, err = o.platform.ListEvents(ctx, guildID)
		if err != nil {
			log.Warn("Skipping feed, event snapshot failed", zap.Error(err))
			fr.fail(StatusSnapshotFailed, err)
			return fr
		}
	}

	res, err := o.source.Records(ctx, feedID)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fr.fail(StatusCanceled, err)
			return fr
		}
		log.Warn("Skipping feed, upstream unavailable", zap.Error(err))
		fr.fail(StatusFeedUnavailable, err)
		return fr
	}
	fr.Cached = res.Cached
	fr.Records = len(res.Records)
	fr.Malformed = res.Stats.Malformed

	desired, filtered := o.normalizer.NormalizeAll(res.Records, o.now())
	fr.Events = len(desired)
	fr.Filtered = filtered

	plan := reconcile.BuildPlan[models.TournamentEvent, models.PlatformEvent](events.NewAdapter(), desired, snapshot)
	fr.Plan = plan.Summary

	applied := reconcile.Apply[models.TournamentEvent, models.PlatformEvent](ctx,
		events.NewMutator(o.platform, guildID), plan, reconcile.ApplyOptions{DryRun: opts.DryRun})

	fr.Outcomes = make([]ActionOutcome, 0, len(applied.Outcomes))
	for _, out := range applied.Outcomes {
		view := ActionOutcome{
			Action:    out.Action.Type,
			Key:       out.Action.Key,
			Title:     out.Action.Desired.Title,
			Mismatch:  out.Action.Mismatch,
			Attempted: out.Attempted,
		}
		if out.Err != nil {
			view.Error = out.Err.Error()
		}
		fr.Outcomes = append(fr.Outcomes, view)

		switch {
		case !out.Attempted:
		case out.Err != nil:
			log.Warn("Failed to apply event action",
				zap.String("action", string(out.Action.Type)),
				zap.String("key", out.Action.Key),
				zap.Error(out.Err))
		case out.Action.Type == reconcile.ActionCreate:
			result.AddCreated(out.Action.Key)
		case out.Action.Type == reconcile.ActionUpdate:
			result.AddUpdated(out.Action.Key)
		}
	}
	if err := ctx.Err(); err != nil && !opts.DryRun && len(applied.Outcomes) > len(applied.Succeeded())+len(applied.Failed()) {
		fr.fail(StatusCanceled, err)
	}

	log.Debug("Feed synced",
		zap.Bool("cached", fr.Cached),
		zap.Int("records", fr.Records),
		zap.Int("events", fr.Events),
		zap.Int("filtered", filtered.Filtered()),
		zap.Int("malformed", fr.Malformed),
		zap.Int("creates", plan.Summary.Creates),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("skips", plan.Summary.Skips),
	)
	return fr
}

// notify sends the batched create and update notifications of a pass.
func (o *Orchestrator) notify(ctx context.Context, guildID string, feedIDs []string, result models.SyncResult) {
	teams := strings.Join(feedIDs, ", ")
	if result.Created > 0 {
		msg := fmt.Sprintf("%d new events created for teams: %s:\n%s", result.Created, teams, strings.Join(result.CreatedKeys, "\n"))
		o.notifier.Notify(ctx, guildID, msg, platform.CategoryCreate)
	}
	if result.Updated > 0 {
		msg := fmt.Sprintf("%d events updated for teams: %s:\n%s", result.Updated, teams, strings.Join(result.UpdatedKeys, "\n"))
		o.notifier.Notify(ctx, guildID, msg, platform.CategoryUpdate)
	}
}
