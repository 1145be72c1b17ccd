package models

import "time"

// TournamentEvent is the canonical, platform-independent form of a tournament.
// StartTime is always before EndTime.
type TournamentEvent struct {
	// ID is the upstream tournament id.
	ID string `json:"id"`
	// DedupKey is the public tournament URL; it identifies the mirrored event.
	DedupKey string `json:"dedup_key"`
	// Title is the event name.
	Title string `json:"title"`
	// Description is the rendered event description.
	Description string `json:"description"`
	// StartTime is the UTC start instant.
	StartTime time.Time `json:"start_time"`
	// EndTime is the UTC end instant.
	EndTime time.Time `json:"end_time"`
}

// PlatformEvent is a scheduled event as observed on the platform.
type PlatformEvent struct {
	// ID is the platform-assigned event id.
	ID string `json:"id"`
	// GuildID is the guild owning the event.
	GuildID string `json:"guild_id"`
	// Location carries the dedup key for events created by this engine.
	Location string `json:"location"`
	// Title is the event name.
	Title string `json:"title"`
	// Description may be empty.
	Description string `json:"description"`
	// StartTime is the scheduled start.
	StartTime time.Time `json:"start_time"`
	// EndTime is the scheduled end; zero when the platform has none.
	EndTime time.Time `json:"end_time"`
}

// SyncResult aggregates the successful actions of one orchestrator invocation.
type SyncResult struct {
	// Created is the number of events created.
	Created int `json:"created"`
	// Updated is the number of events updated.
	Updated int `json:"updated"`
	// CreatedKeys lists dedup keys of created events in execution order.
	CreatedKeys []string `json:"created_keys"`
	// UpdatedKeys lists dedup keys of updated events in execution order.
	UpdatedKeys []string `json:"updated_keys"`
}

// AffectedKeys returns created keys followed by updated keys.
func (r SyncResult) AffectedKeys() []string {
	keys := make([]string, 0, len(r.CreatedKeys)+len(r.UpdatedKeys))
	keys = append(keys, r.CreatedKeys...)
	return append(keys, r.UpdatedKeys...)
}

// AddCreated records a created event.
func (r *SyncResult) AddCreated(key string) {
	r.Created++
	r.CreatedKeys = append(r.CreatedKeys, key)
}

// AddUpdated records an updated event.
func (r *SyncResult) AddUpdated(key string) {
	r.Updated++
	r.UpdatedKeys = append(r.UpdatedKeys, key)
}
