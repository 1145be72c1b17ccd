package tournament_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"arena-sync/feature/tournament"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingRunner struct {
	mu      sync.Mutex
	guilds  []string
	active  atomic.Int32
	maxSeen atomic.Int32
	delay   time.Duration
}

func (r *recordingRunner) Run(_ context.Context, guildID string, feedIDs []string, opts tsync.Options) *tsync.Report {
	n := r.active.Add(1)
	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(r.delay)
	r.active.Add(-1)

	r.mu.Lock()
	r.guilds = append(r.guilds, guildID)
	r.mu.Unlock()
	return &tsync.Report{GuildID: guildID, Trigger: opts.Trigger}
}

type staticGuilds struct {
	all []settings.GuildSettings
	err error
}

func (g staticGuilds) List(context.Context) ([]settings.GuildSettings, error) { return g.all, g.err }

func guild(id string, autoSync bool, teams ...string) settings.GuildSettings {
	return settings.GuildSettings{GuildID: id, AutoSync: autoSync, Teams: teams}
}

func TestScheduler_TickSelectsGuilds(t *testing.T) {
	runner := &recordingRunner{}
	guilds := staticGuilds{all: []settings.GuildSettings{
		guild("a", true, "alpha"),
		guild("b", false, "beta"),
		guild("c", true),
		guild("d", true, "delta", "echo"),
	}}
	s := tournament.NewScheduler(tsync.Config{Concurrency: 2}, runner, guilds, zap.NewNop())

	n := s.Tick(context.Background())

	assert.Equal(t, 2, n)
	sort.Strings(runner.guilds)
	assert.Equal(t, []string{"a", "d"}, runner.guilds)
}

func TestScheduler_TickRespectsConcurrency(t *testing.T) {
	runner := &recordingRunner{delay: 20 * time.Millisecond}
	var all []settings.GuildSettings
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		all = append(all, guild(id, true, "team"))
	}
	s := tournament.NewScheduler(tsync.Config{Concurrency: 2}, runner, staticGuilds{all: all}, zap.NewNop())

	assert.Equal(t, 6, s.Tick(context.Background()))
	assert.LessOrEqual(t, runner.maxSeen.Load(), int32(2))
	assert.Len(t, runner.guilds, 6)
}

func TestScheduler_TickListFailure(t *testing.T) {
	runner := &recordingRunner{}
	s := tournament.NewScheduler(tsync.Config{}, runner, staticGuilds{err: errors.New("db down")}, zap.NewNop())

	assert.Zero(t, s.Tick(context.Background()))
	assert.Empty(t, runner.guilds)
}

func TestScheduler_StartRunsOnStartAndStops(t *testing.T) {
	runner := &recordingRunner{}
	guilds := staticGuilds{all: []settings.GuildSettings{guild("a", true, "alpha")}}
	s := tournament.NewScheduler(tsync.Config{IntervalSeconds: 3600, RunOnStart: true}, runner, guilds, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		runner.mu.Lock()
		defer runner.mu.Unlock()
		return len(runner.guilds) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
