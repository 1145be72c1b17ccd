package feed

import (
	"context"
	"errors"

	"arena-sync/core/cache"
	"arena-sync/core/metrics"
	"arena-sync/feature/tournament/models"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Fetcher opens a feed stream.
type Fetcher interface {
	Fetch(ctx context.Context, feedID string) (*Stream, error)
}

// Cache holds raw records per feed id.
type Cache = cache.Cache[[]models.RawRecord]

// NewCache creates a feed cache with the configured TTL and load timeout.
func NewCache(cfg cache.Config) *Cache {
	return cache.New[[]models.RawRecord](cfg.TTL(), cache.WithLoadTimeout[[]models.RawRecord](cfg.LoadTimeout()))
}

// Result is the outcome of reading a feed.
type Result struct {
	// Records are the raw records in arrival order.
	Records []models.RawRecord
	// Stats are the stream counters; zero when served from cache.
	Stats Stats
	// Cached reports whether the records came from the cache.
	Cached bool
	// Reason is how the stream ended; empty when served from cache.
	Reason EndReason
}

// Source reads feeds through the cache and a circuit breaker.
type Source struct {
	fetcher Fetcher
	cache   *Cache
	breaker *gobreaker.CircuitBreaker[fetched]
	logger  *zap.Logger
}

type fetched struct {
	records []models.RawRecord
	stats   Stats
	reason  EndReason
}

// NewSource composes fetcher and cache behind a circuit breaker that opens after
// cfg.BreakerThreshold consecutive upstream failures.
func NewSource(cfg Config, fetcher Fetcher, c *Cache, logger *zap.Logger) *Source {
	metrics.SetBreakerState(gobreaker.StateClosed.String())

	breaker := gobreaker.NewCircuitBreaker[fetched](gobreaker.Settings{
		Name:        "feed",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold()
		},
		IsSuccessful: func(err error) bool {
			var fe *FeedError
			if errors.As(err, &fe) && fe.clientError() {
				return true
			}
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Feed circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.SetBreakerState(to.String())
		},
	})

	return &Source{fetcher: fetcher, cache: c, breaker: breaker, logger: logger}
}

// Records returns the records of a feed, served from cache when fresh.
// Only successful fetches are cached.
func (s *Source) Records(ctx context.Context, feedID string) (Result, error) {
	var res Result
	records, hit, err := s.cache.GetOrLoad(ctx, feedID, func(ctx context.Context) ([]models.RawRecord, error) {
		f, err := s.fetch(ctx, feedID)
		if err != nil {
			return nil, err
		}
		res.Stats = f.stats
		res.Reason = f.reason
		return f.records, nil
	})
	metrics.RecordCacheLookup(hit)
	if err != nil {
		return Result{}, err
	}

	res.Records = records
	res.Cached = hit
	return res, nil
}

// Fresh fetches a feed bypassing the cache, without storing the result.
func (s *Source) Fresh(ctx context.Context, feedID string) (Result, error) {
	f, err := s.fetch(ctx, feedID)
	if err != nil {
		return Result{}, err
	}
	return Result{Records: f.records, Stats: f.stats, Reason: f.reason}, nil
}

// Invalidate drops the cached records of a feed.
func (s *Source) Invalidate(feedID string) { s.cache.Invalidate(feedID) }

// InvalidateAll drops every cached feed.
func (s *Source) InvalidateAll() { s.cache.InvalidateAll() }

// CachedFeeds returns the number of fresh cache entries.
func (s *Source) CachedFeeds() int { return s.cache.Len() }

// BreakerState returns the circuit breaker state name.
func (s *Source) BreakerState() string { return s.breaker.State().String() }

func (s *Source) fetch(ctx context.Context, feedID string) (fetched, error) {
	f, err := s.breaker.Execute(func() (fetched, error) {
		stream, err := s.fetcher.Fetch(ctx, feedID)
		if err != nil {
			return fetched{}, err
		}
		records := stream.Collect()
		switch stream.Reason() {
		case ReasonCanceled:
			return fetched{}, context.Cause(ctx)
		case ReasonError:
			return fetched{}, &FeedError{FeedID: feedID, Err: stream.readErr}
		}
		return fetched{records: records, stats: stream.Stats(), reason: stream.Reason()}, nil
	})

	switch {
	case err == nil:
		metrics.RecordFetch("ok")
		metrics.AddMalformed(f.stats.Malformed)
		s.logger.Debug("Fetched feed",
			zap.String("feed", feedID),
			zap.Int("records", len(f.records)),
			zap.Int("malformed", f.stats.Malformed),
			zap.String("end", string(f.reason)),
		)
		return f, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordFetch("breaker_open")
		return fetched{}, &FeedError{FeedID: feedID, Err: err}
	default:
		metrics.RecordFetch("unavailable")
		return fetched{}, err
	}
}
