package sync

import (
	"fmt"
	"strings"
	"time"

	"arena-sync/core/reconcile"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/models"
)

// Status is the outcome of one feed within a pass.
type Status string

const (
	StatusOK               Status = "ok"
	StatusPermissionDenied Status = "permission_denied"
	StatusPlatformError    Status = "platform_error"
	StatusSnapshotFailed   Status = "snapshot_failed"
	StatusFeedUnavailable  Status = "feed_unavailable"
	StatusCanceled         Status = "canceled"
)

// ActionOutcome describes one planned action and what happened to it.
type ActionOutcome struct {
	Action    reconcile.ActionType `json:"action"`
	Key       string               `json:"key"`
	Title     string               `json:"title"`
	Mismatch  []string             `json:"mismatch,omitempty"`
	Attempted bool                 `json:"attempted"`
	Error     string               `json:"error,omitempty"`
}

// FeedReport is the result of syncing one feed.
type FeedReport struct {
	FeedID string `json:"feed_id"`
	Status Status `json:"status"`
	// Cached reports whether the records were served from the feed cache.
	Cached bool `json:"cached"`
	// Records is the number of raw records read.
	Records int `json:"records"`
	// Events is the number of valid, future events after normalization.
	Events    int                   `json:"events"`
	Filtered  feed.FilterReport     `json:"filtered"`
	Malformed int                   `json:"malformed"`
	Plan      reconcile.PlanSummary `json:"plan"`
	Outcomes  []ActionOutcome       `json:"outcomes"`
	Err       error                 `json:"-"`
	Error     string                `json:"error,omitempty"`
}

func (f *FeedReport) fail(status Status, err error) {
	f.Status = status
	f.Err = err
	if err != nil {
		f.Error = err.Error()
	}
}

// Failures returns the number of attempted actions that failed.
func (f FeedReport) Failures() int {
	n := 0
	for _, o := range f.Outcomes {
		if o.Attempted && o.Error != "" {
			n++
		}
	}
	return n
}

// Report is the result of one orchestrator invocation.
type Report struct {
	models.SyncResult

	GuildID    string       `json:"guild_id"`
	Trigger    string       `json:"trigger"`
	DryRun     bool         `json:"dry_run"`
	Feeds      []FeedReport `json:"feeds"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Planned sums the plan summaries of every feed.
func (r *Report) Planned() reconcile.PlanSummary {
	var total reconcile.PlanSummary
	for _, f := range r.Feeds {
		total.Desired += f.Plan.Desired
		total.Existing += f.Plan.Existing
		total.Ignored += f.Plan.Ignored
		total.Superseded += f.Plan.Superseded
		total.Creates += f.Plan.Creates
		total.Updates += f.Plan.Updates
		total.Skips += f.Plan.Skips
	}
	return total
}

// Failures returns the number of failed actions across feeds.
func (r *Report) Failures() int {
	n := 0
	for _, f := range r.Feeds {
		n += f.Failures()
	}
	return n
}

// Skipped returns the feeds that did not reach the apply step.
func (r *Report) Skipped() []FeedReport {
	var out []FeedReport
	for _, f := range r.Feeds {
		if f.Status != StatusOK {
			out = append(out, f)
		}
	}
	return out
}

// Summary renders the report as a short human-readable message.
func (r *Report) Summary() string {
	if r.DryRun {
		p := r.Planned()
		return fmt.Sprintf("Dry run: %d events would be created, %d updated, %d unchanged.", p.Creates, p.Updates, p.Skips)
	}
	if r.Created == 0 && r.Updated == 0 {
		return "No team registered or no new events created."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d new events created", r.Created)
	if r.Updated > 0 {
		fmt.Fprintf(&b, ", %d events updated", r.Updated)
	}
	b.WriteString(":\n")
	b.WriteString(strings.Join(r.AffectedKeys(), "\n"))
	return b.String()
}
