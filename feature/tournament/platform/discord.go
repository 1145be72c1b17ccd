package platform

import (
	"context"
	"fmt"
	"sync"

	"arena-sync/feature/tournament/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// API is the subset of *discordgo.Session used by the adapter.
type API interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildScheduledEvents(guildID string, userCount bool, options ...discordgo.RequestOption) ([]*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventCreate(guildID string, event *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventEdit(guildID, eventID string, event *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventDelete(guildID, eventID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ API = (*discordgo.Session)(nil)

// Discord implements Platform on top of the Discord REST API.
type Discord struct {
	api     API
	limiter *rate.Limiter
	logger  *zap.Logger

	mu    sync.Mutex
	botID string
}

var _ Platform = (*Discord)(nil)

// NewSession creates a REST-only discordgo session for a bot token.
func NewSession(cfg Config) (*discordgo.Session, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is not configured")
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return s, nil
}

// NewDiscord creates the adapter. Every REST call waits on limiter.
func NewDiscord(api API, limiter *rate.Limiter, logger *zap.Logger) *Discord {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Discord{api: api, limiter: limiter, logger: logger}
}

// CanManageEvents checks Administrator or Manage Events on the bot member.
// The guild owner always may.
func (d *Discord) CanManageEvents(ctx context.Context, guildID string) (bool, error) {
	botID, err := d.self(ctx)
	if err != nil {
		return false, err
	}

	if err := d.wait(ctx); err != nil {
		return false, err
	}
	guild, err := d.api.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return false, classify("get guild", err)
	}

	if err := d.wait(ctx); err != nil {
		return false, err
	}
	member, err := d.api.GuildMember(guildID, botID, discordgo.WithContext(ctx))
	if err != nil {
		return false, classify("get bot member", err)
	}

	return hasManageEvents(guild, member, botID), nil
}

// hasManageEvents combines @everyone and member role permissions.
func hasManageEvents(guild *discordgo.Guild, member *discordgo.Member, userID string) bool {
	if guild.OwnerID == userID {
		return true
	}

	memberRoles := make(map[string]struct{}, len(member.Roles))
	for _, id := range member.Roles {
		memberRoles[id] = struct{}{}
	}

	var perms int64
	for _, role := range guild.Roles {
		// The @everyone role shares the guild id.
		if _, ok := memberRoles[role.ID]; ok || role.ID == guild.ID {
			perms |= role.Permissions
		}
	}

	return perms&discordgo.PermissionAdministrator != 0 || perms&discordgo.PermissionManageEvents != 0
}

// ListEvents returns the guild's scheduled events.
func (d *Discord) ListEvents(ctx context.Context, guildID string) ([]models.PlatformEvent, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	raw, err := d.api.GuildScheduledEvents(guildID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classify("list events", err)
	}

	events := make([]models.PlatformEvent, 0, len(raw))
	for _, ev := range raw {
		if ev == nil {
			continue
		}
		events = append(events, toPlatformEvent(guildID, ev))
	}
	return events, nil
}

func toPlatformEvent(guildID string, ev *discordgo.GuildScheduledEvent) models.PlatformEvent {
	pe := models.PlatformEvent{
		ID:          ev.ID,
		GuildID:     guildID,
		Location:    ev.EntityMetadata.Location,
		Title:       ev.Name,
		Description: ev.Description,
		StartTime:   ev.ScheduledStartTime.UTC(),
	}
	if ev.ScheduledEndTime != nil {
		pe.EndTime = ev.ScheduledEndTime.UTC()
	}
	return pe
}

// CreateEvent creates an external, guild-only scheduled event.
func (d *Discord) CreateEvent(ctx context.Context, guildID string, ev models.TournamentEvent) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	_, err := d.api.GuildScheduledEventCreate(guildID, eventParams(ev), discordgo.WithContext(ctx))
	if err != nil {
		return classify("create event", err)
	}
	d.logger.Debug("Created scheduled event", zap.String("guild", guildID), zap.String("key", ev.DedupKey))
	return nil
}

// UpdateEvent rewrites name, description, times, entity type, location and privacy.
func (d *Discord) UpdateEvent(ctx context.Context, existing models.PlatformEvent, ev models.TournamentEvent) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	_, err := d.api.GuildScheduledEventEdit(existing.GuildID, existing.ID, eventParams(ev), discordgo.WithContext(ctx))
	if err != nil {
		return classify("update event", err)
	}
	d.logger.Debug("Updated scheduled event", zap.String("guild", existing.GuildID), zap.String("key", ev.DedupKey))
	return nil
}

// DeleteEvent deletes a scheduled event.
func (d *Discord) DeleteEvent(ctx context.Context, existing models.PlatformEvent) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	if err := d.api.GuildScheduledEventDelete(existing.GuildID, existing.ID, discordgo.WithContext(ctx)); err != nil {
		return classify("delete event", err)
	}
	return nil
}

func eventParams(ev models.TournamentEvent) *discordgo.GuildScheduledEventParams {
	start := ev.StartTime.UTC()
	end := ev.EndTime.UTC()
	return &discordgo.GuildScheduledEventParams{
		Name:               ev.Title,
		Description:        ev.Description,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     &discordgo.GuildScheduledEventEntityMetadata{Location: ev.DedupKey},
	}
}

// self returns the bot user id, fetched once.
func (d *Discord) self(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.botID != "" {
		return d.botID, nil
	}

	if err := d.wait(ctx); err != nil {
		return "", err
	}
	u, err := d.api.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", classify("get bot user", err)
	}
	d.botID = u.ID
	return d.botID, nil
}

func (d *Discord) wait(ctx context.Context) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// sendMessage posts content to a channel.
func (d *Discord) sendMessage(ctx context.Context, channelID, content string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}
	if _, err := d.api.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx)); err != nil {
		return classify("send message", err)
	}
	return nil
}
