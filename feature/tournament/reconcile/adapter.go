package reconcile

import (
	"fmt"
	"time"

	"arena-sync/feature/tournament/models"
)

// EventAdapter implements reconcile.Adapter for tournament events.
// Events are joined on the dedup key, which platform events carry as location.
type EventAdapter struct{}

// NewAdapter creates a new tournament adapter.
func NewAdapter() EventAdapter {
	return EventAdapter{}
}

// Name returns the unique name of this adapter.
func (EventAdapter) Name() string {
	return "tournament"
}

// DesiredKey returns the dedup key of a tournament event.
func (EventAdapter) DesiredKey(ev models.TournamentEvent) string {
	return ev.DedupKey
}

// ExistingKey returns the location of a platform event.
// Events without a location were not created by this engine.
func (EventAdapter) ExistingKey(ev models.PlatformEvent) string {
	return ev.Location
}

// CompareFields compares title, start, end and description.
func (EventAdapter) CompareFields(want models.TournamentEvent, got models.PlatformEvent) []string {
	var mismatches []string

	if want.Title != got.Title {
		mismatches = append(mismatches, fmt.Sprintf("title: want=%q got=%q", want.Title, got.Title))
	}
	if !want.StartTime.Equal(got.StartTime) {
		mismatches = append(mismatches, fmt.Sprintf("start: want=%s got=%s", stamp(want.StartTime), stamp(got.StartTime)))
	}
	if !want.EndTime.Equal(got.EndTime) {
		mismatches = append(mismatches, fmt.Sprintf("end: want=%s got=%s", stamp(want.EndTime), stamp(got.EndTime)))
	}
	// An absent platform description compares as empty.
	if want.Description != got.Description {
		mismatches = append(mismatches, "description")
	}

	return mismatches
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.UTC().Format(time.RFC3339)
}
