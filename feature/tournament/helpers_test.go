package tournament_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	stdsync "sync"
	"testing"
	"time"

	"arena-sync/core/database"
	"arena-sync/feature/tournament"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/models"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type stubPlatform struct {
	mu      stdsync.Mutex
	denied  bool
	events  []models.PlatformEvent
	created []models.TournamentEvent
	deleted []string
}

func (p *stubPlatform) CanManageEvents(context.Context, string) (bool, error) { return !p.denied, nil }

func (p *stubPlatform) ListEvents(context.Context, string) ([]models.PlatformEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PlatformEvent(nil), p.events...), nil
}

func (p *stubPlatform) CreateEvent(_ context.Context, guildID string, ev models.TournamentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, ev)
	p.events = append(p.events, models.PlatformEvent{
		ID: ev.ID, GuildID: guildID, Location: ev.DedupKey, Title: ev.Title,
		Description: ev.Description, StartTime: ev.StartTime, EndTime: ev.EndTime,
	})
	return nil
}

func (p *stubPlatform) UpdateEvent(context.Context, models.PlatformEvent, models.TournamentEvent) error {
	return nil
}

func (p *stubPlatform) DeleteEvent(_ context.Context, ev models.PlatformEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, ev.ID)
	return nil
}

// stubFeeds serves fixed records and implements every feed-facing interface.
type stubFeeds struct {
	mu      stdsync.Mutex
	records map[string][]models.RawRecord
	cached  map[string]bool
}

func (f *stubFeeds) Records(_ context.Context, feedID string) (feed.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs, ok := f.records[feedID]
	if !ok {
		return feed.Result{}, &feed.FeedError{FeedID: feedID, StatusCode: http.StatusNotFound}
	}
	f.cached[feedID] = true
	return feed.Result{Records: recs}, nil
}

func (f *stubFeeds) Fresh(ctx context.Context, feedID string) (feed.Result, error) {
	return f.Records(ctx, feedID)
}

func (f *stubFeeds) Invalidate(feedID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cached, feedID)
}

func (f *stubFeeds) CachedFeeds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cached)
}

func (f *stubFeeds) InvalidateAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cached = map[string]bool{}
}

func (f *stubFeeds) BreakerState() string { return "closed" }

type env struct {
	store    *settings.GormStore
	platform *stubPlatform
	feeds    *stubFeeds
	service  *tournament.Service
	app      *fiber.App
}

func arena(id string, offset time.Duration) models.RawRecord {
	start := testNow.Add(offset).UnixMilli()
	return models.RawRecord{"id": id, "fullName": "Arena " + id, "startsAt": start}
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := settings.NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()))

	e := &env{
		store:    store,
		platform: &stubPlatform{},
		feeds:    &stubFeeds{records: map[string][]models.RawRecord{}, cached: map[string]bool{}},
	}

	log := zap.NewNop()
	normalizer := feed.NewNormalizer(feed.Config{}, 0)
	notifier := platform.NewLogNotifier(log)
	orch := tsync.NewOrchestrator(e.platform, e.feeds, normalizer, notifier, log,
		tsync.WithClock(func() time.Time { return testNow }))
	remover := tsync.NewRemover(e.platform, e.feeds, normalizer, store, notifier, log)

	e.service = tournament.NewService(store, orch, remover, e.feeds, notifier, log)
	e.app = fiber.New()
	require.NoError(t, tournament.NewFeature(e.service).Load(e.app))
	return e
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}
