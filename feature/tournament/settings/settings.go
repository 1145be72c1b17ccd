package settings

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	BackendDatabase = "database"
	BackendObject   = "object"
)

// Config selects the settings backend.
type Config struct {
	// Backend is "database" (gorm) or "object" (one JSON document in object storage).
	Backend string `mapstructure:"backend" default:"database"`
}

// ErrInvalidTeam reports a team slug that cannot name a feed.
var ErrInvalidTeam = errors.New("invalid team slug")

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// GuildSettings is the per-guild configuration.
type GuildSettings struct {
	// GuildID identifies the guild.
	GuildID string `json:"guild_id"`
	// Teams are the registered feed ids in registration order.
	Teams []string `json:"teams"`
	// NotificationChannel receives notifications; empty when unset.
	NotificationChannel string `json:"notification_channel,omitempty"`
	// AutoSync includes the guild in scheduled passes.
	AutoSync bool `json:"auto_sync"`
}

// Defaults returns the settings of a guild that has none stored.
func Defaults(guildID string) GuildSettings {
	return GuildSettings{GuildID: guildID, Teams: []string{}, AutoSync: true}
}

// Store persists guild settings.
type Store interface {
	// Get returns the guild's settings, or Defaults when none are stored.
	Get(ctx context.Context, guildID string) (GuildSettings, error)
	// List returns every guild with stored settings.
	List(ctx context.Context) ([]GuildSettings, error)
	// AddTeam registers a team; false when it was already registered.
	AddTeam(ctx context.Context, guildID, team string) (bool, error)
	// RemoveTeam unregisters a team; false when it was not registered.
	RemoveTeam(ctx context.Context, guildID, team string) (bool, error)
	// SetNotificationChannel sets or clears (empty id) the notification channel.
	SetNotificationChannel(ctx context.Context, guildID, channelID string) error
	// SetAutoSync toggles scheduled passes for the guild.
	SetAutoSync(ctx context.Context, guildID string, enabled bool) error
	// NotificationChannel returns the guild's notification channel.
	NotificationChannel(ctx context.Context, guildID string) (string, error)
}

// NormalizeTeam trims and lowercases a team slug and validates it.
func NormalizeTeam(team string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(team))
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTeam, team)
	}
	return slug, nil
}
