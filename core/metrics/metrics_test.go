package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAction(t *testing.T) {
	okBefore := testutil.ToFloat64(syncActions.WithLabelValues("create", "ok"))
	errBefore := testutil.ToFloat64(syncActions.WithLabelValues("create", "error"))

	RecordAction("create", nil)
	RecordAction("create", errors.New("remote"))
	RecordAction("create", nil)

	assert.Equal(t, okBefore+2, testutil.ToFloat64(syncActions.WithLabelValues("create", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(syncActions.WithLabelValues("create", "error")))
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("open")
	assert.Equal(t, 1.0, testutil.ToFloat64(breakerState.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(breakerState.WithLabelValues("closed")))

	SetBreakerState("closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(breakerState.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(breakerState.WithLabelValues("closed")))
}

func TestAddMalformed_IgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(feedMalformed)
	AddMalformed(0)
	AddMalformed(-3)
	AddMalformed(2)
	assert.Equal(t, before+2, testutil.ToFloat64(feedMalformed))
}

func TestHandler(t *testing.T) {
	RecordCacheLookup(true)
	RecordFetch("ok")
	RecordPass("api")

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "arena_sync_feed_cache_lookups_total")
	assert.Contains(t, string(body), "arena_sync_passes_total")
}
