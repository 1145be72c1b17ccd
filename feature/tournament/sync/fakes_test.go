package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/models"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
)

const baseURL = "https://lichess.org/tournament"

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func testNormalizer() *feed.Normalizer {
	return feed.NewNormalizer(feed.Config{TournamentURL: baseURL}, 0)
}

// arena builds a raw record starting offset after testNow and lasting one hour.
func arena(id, name string, offset time.Duration) models.RawRecord {
	start := testNow.Add(offset).UnixMilli()
	return models.RawRecord{
		"id":         id,
		"fullName":   name,
		"startsAt":   start,
		"finishesAt": start + time.Hour.Milliseconds(),
		"minutes":    int64(5),
		"clock":      map[string]any{"increment": int64(2)},
	}
}

// mirror returns the platform event an earlier pass would have created for raw.
func mirror(id string, raw models.RawRecord) models.PlatformEvent {
	ev, err := testNormalizer().Normalize(raw, testNow)
	if err != nil {
		panic(err)
	}
	return models.PlatformEvent{
		ID:          id,
		GuildID:     "g1",
		Location:    ev.DedupKey,
		Title:       ev.Title,
		Description: ev.Description,
		StartTime:   ev.StartTime,
		EndTime:     ev.EndTime,
	}
}

type fakePlatform struct {
	mu        stdsync.Mutex
	denied    bool
	permErr   error
	listErr   error
	events    []models.PlatformEvent
	createErr map[string]error
	deleteErr map[string]error
	created   []models.TournamentEvent
	updated   []models.PlatformEvent
	deleted   []string
	lists     int
	onCreate  func()
}

func (p *fakePlatform) CanManageEvents(context.Context, string) (bool, error) {
	return !p.denied, p.permErr
}

func (p *fakePlatform) ListEvents(context.Context, string) ([]models.PlatformEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists++
	if p.listErr != nil {
		return nil, p.listErr
	}
	return append([]models.PlatformEvent(nil), p.events...), nil
}

func (p *fakePlatform) CreateEvent(_ context.Context, _ string, ev models.TournamentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onCreate != nil {
		p.onCreate()
	}
	if err := p.createErr[ev.DedupKey]; err != nil {
		return err
	}
	p.created = append(p.created, ev)
	return nil
}

func (p *fakePlatform) UpdateEvent(_ context.Context, existing models.PlatformEvent, ev models.TournamentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	existing.Title = ev.Title
	p.updated = append(p.updated, existing)
	return nil
}

func (p *fakePlatform) DeleteEvent(_ context.Context, existing models.PlatformEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.deleteErr[existing.ID]; err != nil {
		return err
	}
	p.deleted = append(p.deleted, existing.ID)
	return nil
}

var _ platform.Platform = (*fakePlatform)(nil)

// fakeSource serves canned records per feed id and counts reads.
type fakeSource struct {
	mu          stdsync.Mutex
	records     map[string][]models.RawRecord
	errs        map[string]error
	reads       map[string]int
	fresh       map[string]int
	invalidated []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		records: map[string][]models.RawRecord{},
		errs:    map[string]error{},
		reads:   map[string]int{},
		fresh:   map[string]int{},
	}
}

func (s *fakeSource) Records(_ context.Context, feedID string) (feed.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[feedID]++
	if err := s.errs[feedID]; err != nil {
		return feed.Result{}, err
	}
	return feed.Result{Records: s.records[feedID]}, nil
}

func (s *fakeSource) Fresh(ctx context.Context, feedID string) (feed.Result, error) {
	s.mu.Lock()
	s.fresh[feedID]++
	s.mu.Unlock()
	return s.Records(ctx, feedID)
}

func (s *fakeSource) Invalidate(feedID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, feedID)
}

type notification struct {
	GuildID  string
	Message  string
	Category platform.Category
}

type recordingNotifier struct {
	mu   stdsync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(_ context.Context, guildID, message string, category platform.Category) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{guildID, message, category})
}

// memoryRegistry is an in-memory TeamRegistry.
type memoryRegistry struct {
	teams  map[string][]string
	getErr error
}

func (r *memoryRegistry) Get(_ context.Context, guildID string) (settings.GuildSettings, error) {
	if r.getErr != nil {
		return settings.GuildSettings{}, r.getErr
	}
	s := settings.Defaults(guildID)
	s.Teams = append(s.Teams, r.teams[guildID]...)
	return s, nil
}

func (r *memoryRegistry) RemoveTeam(_ context.Context, guildID, team string) (bool, error) {
	for i, t := range r.teams[guildID] {
		if t == team {
			r.teams[guildID] = append(r.teams[guildID][:i:i], r.teams[guildID][i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func feedUnavailable(id string, status int) error {
	return &feed.FeedError{FeedID: id, StatusCode: status, Err: fmt.Errorf("unexpected status %d", status)}
}
