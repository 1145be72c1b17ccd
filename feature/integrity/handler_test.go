package integrity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"arena-sync/core/database"
	"arena-sync/core/storage"
	"arena-sync/core/storage/mocks"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type breakerStub string

func (b breakerStub) BreakerState() string { return string(b) }

func setupTestApp(t *testing.T, deps Deps) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, NewFeature(NewService(deps, zap.NewNop())).Load(app))
	return app
}

func databaseDeps(t *testing.T) Deps {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return Deps{DB: db, Migrator: settings.NewGormStore(db), Breaker: breakerStub("closed")}
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandleSchemaCheck(t *testing.T) {
	app := setupTestApp(t, databaseDeps(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode(t, resp)["matched"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/integrity/schema?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["matched"])
}

func TestHandleStorageCheck_NotConfigured(t *testing.T) {
	app := setupTestApp(t, databaseDeps(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrity/storage", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleStorageCheck_Fix(t *testing.T) {
	c := new(mocks.Client)
	c.On("BucketExists", mock.Anything, "arena").Return(false, nil).Twice()
	c.On("MakeBucket", mock.Anything, "arena", mock.Anything).Return(nil).Once()
	c.On("BucketExists", mock.Anything, "arena").Return(true, nil)
	c.On("GetObject", mock.Anything, "arena", "settings.json", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	app := setupTestApp(t, Deps{
		Storage:       c,
		StorageConfig: storage.Config{Bucket: "arena", SettingsObject: "settings.json"},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrity/storage?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["bucket_exists"])
	assert.Equal(t, false, body["object_exists"])
	c.AssertExpectations(t)
}

func TestHandleFeedCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"id":"a1"}`)
	}))
	t.Cleanup(srv.Close)
	ing := feed.NewIngestor(feed.Config{URLTemplate: srv.URL + "/%s", IdleTimeoutSeconds: 1}, srv.Client(), zap.NewNop())

	app := setupTestApp(t, Deps{Feeds: ing})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrity/feed/Alpha", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "alpha", body["team"])
	assert.Equal(t, true, body["reachable"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/integrity/feed/bad!slug", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app := setupTestApp(t, databaseDeps(t))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Contains(t, body, "schema")
	assert.NotContains(t, body, "storage")
	assert.Equal(t, "closed", body["feed_breaker"])
}

func TestFeature(t *testing.T) {
	f := NewFeature(NewService(Deps{}, zap.NewNop()))
	assert.Equal(t, "integrity", f.Name())
	assert.True(t, f.IsEnabled())
	assert.NoError(t, f.Load(fiber.New()))
}
