package reconcile

import (
	"context"

	"arena-sync/core/metrics"
	"arena-sync/feature/tournament/models"
)

// EventWriter is the part of the platform used to apply a plan.
type EventWriter interface {
	CreateEvent(ctx context.Context, guildID string, ev models.TournamentEvent) error
	UpdateEvent(ctx context.Context, existing models.PlatformEvent, ev models.TournamentEvent) error
}

// Mutator applies planned actions to one guild.
type Mutator struct {
	writer  EventWriter
	guildID string
}

// NewMutator creates a mutator writing to guildID.
func NewMutator(writer EventWriter, guildID string) *Mutator {
	return &Mutator{writer: writer, guildID: guildID}
}

// Create creates the event on the platform.
func (m *Mutator) Create(ctx context.Context, ev models.TournamentEvent) error {
	err := m.writer.CreateEvent(ctx, m.guildID, ev)
	metrics.RecordAction("create", err)
	return err
}

// Update rewrites every mapped field of the existing event.
func (m *Mutator) Update(ctx context.Context, existing models.PlatformEvent, ev models.TournamentEvent) error {
	err := m.writer.UpdateEvent(ctx, existing, ev)
	metrics.RecordAction("update", err)
	return err
}
