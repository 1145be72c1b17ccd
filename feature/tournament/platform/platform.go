package platform

import (
	"context"

	"arena-sync/feature/tournament/models"
)

// Platform is the chat platform holding scheduled events.
type Platform interface {
	// CanManageEvents reports whether the bot may manage events in the guild.
	CanManageEvents(ctx context.Context, guildID string) (bool, error)
	// ListEvents returns a fresh snapshot of the guild's scheduled events.
	ListEvents(ctx context.Context, guildID string) ([]models.PlatformEvent, error)
	// CreateEvent creates an external, guild-only event located at ev.DedupKey.
	CreateEvent(ctx context.Context, guildID string, ev models.TournamentEvent) error
	// UpdateEvent rewrites every mapped field of existing.
	UpdateEvent(ctx context.Context, existing models.PlatformEvent, ev models.TournamentEvent) error
	// DeleteEvent removes an event.
	DeleteEvent(ctx context.Context, existing models.PlatformEvent) error
}

// Category classifies notifications.
type Category string

const (
	CategoryCreate Category = "create"
	CategoryUpdate Category = "update"
	CategoryDelete Category = "delete"
	CategoryInfo   Category = "info"
)

// Prefix returns the emoji shown before messages of the category.
func (c Category) Prefix() string {
	switch c {
	case CategoryCreate:
		return "✅"
	case CategoryUpdate:
		return "🔄"
	case CategoryDelete:
		return "🗑️"
	default:
		return "ℹ️"
	}
}

// Notifier delivers human-readable notifications. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, guildID, message string, category Category)
}

// ChannelSource resolves the notification channel of a guild.
// An empty channel means notifications are not configured.
type ChannelSource interface {
	NotificationChannel(ctx context.Context, guildID string) (string, error)
}
