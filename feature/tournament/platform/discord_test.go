package platform

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"arena-sync/feature/tournament/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// fakeAPI is an in-memory Discord REST API.
type fakeAPI struct {
	botID     string
	guild     *discordgo.Guild
	member    *discordgo.Member
	events    []*discordgo.GuildScheduledEvent
	created   []*discordgo.GuildScheduledEventParams
	edited    map[string]*discordgo.GuildScheduledEventParams
	deleted   []string
	messages  map[string][]string
	userCalls int
	err       error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		botID:    "bot",
		guild:    &discordgo.Guild{ID: "g1", OwnerID: "owner"},
		member:   &discordgo.Member{User: &discordgo.User{ID: "bot"}},
		edited:   map[string]*discordgo.GuildScheduledEventParams{},
		messages: map[string][]string{},
	}
}

func (f *fakeAPI) User(userID string, _ ...discordgo.RequestOption) (*discordgo.User, error) {
	f.userCalls++
	return &discordgo.User{ID: f.botID}, nil
}

func (f *fakeAPI) Guild(string, ...discordgo.RequestOption) (*discordgo.Guild, error) {
	return f.guild, f.err
}

func (f *fakeAPI) GuildMember(string, string, ...discordgo.RequestOption) (*discordgo.Member, error) {
	return f.member, f.err
}

func (f *fakeAPI) GuildScheduledEvents(string, bool, ...discordgo.RequestOption) ([]*discordgo.GuildScheduledEvent, error) {
	return f.events, f.err
}

func (f *fakeAPI) GuildScheduledEventCreate(_ string, p *discordgo.GuildScheduledEventParams, _ ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &discordgo.GuildScheduledEvent{}, nil
}

func (f *fakeAPI) GuildScheduledEventEdit(_, eventID string, p *discordgo.GuildScheduledEventParams, _ ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edited[eventID] = p
	return &discordgo.GuildScheduledEvent{}, nil
}

func (f *fakeAPI) GuildScheduledEventDelete(_, eventID string, _ ...discordgo.RequestOption) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeAPI) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.messages[channelID] = append(f.messages[channelID], content)
	return &discordgo.Message{}, nil
}

func restError(status int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status, Status: http.StatusText(status)}}
}

var start = time.Date(2024, 5, 4, 20, 0, 0, 0, time.UTC)

func tournament() models.TournamentEvent {
	return models.TournamentEvent{
		ID:          "abc",
		DedupKey:    "https://lichess.org/tournament/abc",
		Title:       "Blitz Arena",
		Description: "desc",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}
}

func TestHasManageEvents(t *testing.T) {
	tests := []struct {
		name     string
		owner    string
		roles    []*discordgo.Role
		assigned []string
		want     bool
	}{
		{"owner", "bot", nil, nil, true},
		{"no permissions", "owner", []*discordgo.Role{{ID: "g1"}}, nil, false},
		{"everyone has manage events", "owner", []*discordgo.Role{{ID: "g1", Permissions: discordgo.PermissionManageEvents}}, nil, true},
		{"member role administrator", "owner", []*discordgo.Role{{ID: "g1"}, {ID: "r1", Permissions: discordgo.PermissionAdministrator}}, []string{"r1"}, true},
		{"unassigned role ignored", "owner", []*discordgo.Role{{ID: "g1"}, {ID: "r1", Permissions: discordgo.PermissionManageEvents}}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guild := &discordgo.Guild{ID: "g1", OwnerID: tt.owner, Roles: tt.roles}
			member := &discordgo.Member{Roles: tt.assigned}
			assert.Equal(t, tt.want, hasManageEvents(guild, member, "bot"))
		})
	}
}

func TestDiscord_CanManageEvents(t *testing.T) {
	api := newFakeAPI()
	api.guild.Roles = []*discordgo.Role{{ID: "g1"}, {ID: "mod", Permissions: discordgo.PermissionManageEvents}}
	api.member.Roles = []string{"mod"}
	d := NewDiscord(api, nil, zap.NewNop())

	ok, err := d.CanManageEvents(context.Background(), "g1")
	require.NoError(t, err)
	assert.True(t, ok)

	api.member.Roles = nil
	ok, err = d.CanManageEvents(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, api.userCalls)
}

func TestDiscord_ListEvents(t *testing.T) {
	end := start.Add(time.Hour)
	api := newFakeAPI()
	api.events = []*discordgo.GuildScheduledEvent{
		{
			ID:                 "e1",
			Name:               "Blitz Arena",
			Description:        "desc",
			ScheduledStartTime: start,
			ScheduledEndTime:   &end,
			EntityMetadata:     discordgo.GuildScheduledEventEntityMetadata{Location: "https://lichess.org/tournament/abc"},
		},
		{ID: "e2", Name: "Voice hangout", ScheduledStartTime: start},
		nil,
	}
	d := NewDiscord(api, nil, zap.NewNop())

	events, err := d.ListEvents(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.PlatformEvent{
		ID:          "e1",
		GuildID:     "g1",
		Location:    "https://lichess.org/tournament/abc",
		Title:       "Blitz Arena",
		Description: "desc",
		StartTime:   start,
		EndTime:     end,
	}, events[0])
	assert.Empty(t, events[1].Location)
	assert.True(t, events[1].EndTime.IsZero())
}

func TestDiscord_CreateAndUpdate(t *testing.T) {
	api := newFakeAPI()
	d := NewDiscord(api, nil, zap.NewNop())
	ev := tournament()

	require.NoError(t, d.CreateEvent(context.Background(), "g1", ev))
	require.Len(t, api.created, 1)
	p := api.created[0]
	assert.Equal(t, "Blitz Arena", p.Name)
	assert.Equal(t, "desc", p.Description)
	assert.Equal(t, start, *p.ScheduledStartTime)
	assert.Equal(t, start.Add(time.Hour), *p.ScheduledEndTime)
	assert.Equal(t, discordgo.GuildScheduledEventEntityTypeExternal, p.EntityType)
	assert.Equal(t, discordgo.GuildScheduledEventPrivacyLevelGuildOnly, p.PrivacyLevel)
	assert.Equal(t, ev.DedupKey, p.EntityMetadata.Location)

	existing := models.PlatformEvent{ID: "e9", GuildID: "g1", Location: ev.DedupKey}
	require.NoError(t, d.UpdateEvent(context.Background(), existing, ev))
	require.Contains(t, api.edited, "e9")
	assert.Equal(t, ev.DedupKey, api.edited["e9"].EntityMetadata.Location)

	require.NoError(t, d.DeleteEvent(context.Background(), existing))
	assert.Equal(t, []string{"e9"}, api.deleted)
}

func TestDiscord_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		denied     bool
		statusCode int
	}{
		{"forbidden", restError(http.StatusForbidden), true, 0},
		{"server error", restError(http.StatusInternalServerError), false, http.StatusInternalServerError},
		{"transport", errors.New("connection reset"), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.err = tt.err
			d := NewDiscord(api, nil, zap.NewNop())

			err := d.CreateEvent(context.Background(), "g1", tournament())
			require.Error(t, err)
			assert.Equal(t, tt.denied, errors.Is(err, ErrPermissionDenied))

			if !tt.denied {
				var re *RemoteError
				require.True(t, errors.As(err, &re))
				assert.Equal(t, tt.statusCode, re.StatusCode)
				assert.Equal(t, "create event", re.Op)
			}
		})
	}
}

func TestDiscord_RateLimiterHonorsContext(t *testing.T) {
	api := newFakeAPI()
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	d := NewDiscord(api, limiter, zap.NewNop())

	// Consume the only token.
	require.NoError(t, d.DeleteEvent(context.Background(), models.PlatformEvent{ID: "e1", GuildID: "g1"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.DeleteEvent(ctx, models.PlatformEvent{ID: "e2", GuildID: "g1"})
	assert.ErrorContains(t, err, "rate limiter")
	assert.Equal(t, []string{"e1"}, api.deleted)
}

func TestConfig_Limiter(t *testing.T) {
	l := Config{}.Limiter()
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 2, l.Burst())

	l = Config{RequestsPerSecond: 5, Burst: 1}.Limiter()
	assert.Equal(t, rate.Limit(5), l.Limit())
	assert.Equal(t, 1, l.Burst())
}
