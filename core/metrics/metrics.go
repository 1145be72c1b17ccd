package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	syncPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_sync_passes_total",
		Help: "Total number of synchronization passes by trigger (scheduler, api, cli)",
	}, []string{"trigger"})

	syncActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_sync_actions_total",
		Help: "Total number of executed platform actions by action and outcome",
	}, []string{"action", "outcome"})

	feedFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_sync_feed_fetch_total",
		Help: "Total number of upstream feed fetches by outcome (ok, unavailable, breaker_open)",
	}, []string{"outcome"})

	feedMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_sync_feed_malformed_lines_total",
		Help: "Total number of feed lines that failed to decode",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_sync_feed_cache_lookups_total",
		Help: "Total number of feed cache lookups by result (hit, miss)",
	}, []string{"result"})

	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arena_sync_breaker_state",
		Help: "Feed circuit breaker state (closed=1, half-open=1, open=1; others 0)",
	}, []string{"state"})
)

var breakerStates = []string{"closed", "half-open", "open"}

// RecordPass increments the pass counter for a trigger.
func RecordPass(trigger string) {
	syncPasses.WithLabelValues(trigger).Inc()
}

// RecordAction records an executed platform action.
func RecordAction(action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	syncActions.WithLabelValues(action, outcome).Inc()
}

// RecordFetch records an upstream feed fetch outcome.
func RecordFetch(outcome string) {
	feedFetches.WithLabelValues(outcome).Inc()
}

// AddMalformed adds n malformed feed lines.
func AddMalformed(n int) {
	if n > 0 {
		feedMalformed.Add(float64(n))
	}
}

// RecordCacheLookup records a feed cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// SetBreakerState records the active circuit breaker state.
func SetBreakerState(state string) {
	for _, s := range breakerStates {
		value := 0.0
		if s == state {
			value = 1.0
		}
		breakerState.WithLabelValues(s).Set(value)
	}
}

// Handler exposes the default registry as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
