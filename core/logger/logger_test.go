package logger

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"error", Config{Level: "error", Format: "console"}, zapcore.ErrorLevel, zapcore.WarnLevel},
		{"info json", Config{Level: "info", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
		{"warn", Config{Level: "warn", Format: "json"}, zapcore.WarnLevel, zapcore.InfoLevel},
		{"unknown falls back to info", Config{Level: "loud", Format: "json"}, zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.muted))
		})
	}
}

func TestNew_ErrorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	l, err := New(&Config{Level: "info", Format: "json", ErrorFile: path})
	require.NoError(t, err)

	l.Info("routine message")
	l.Error("sync failed", zap.String("guild", "g1"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync failed")
	assert.NotContains(t, string(data), "routine message")
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		WithRayID(base, c).Info("tagged")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("untagged")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ray-123", entries[0].ContextMap()["ray_id"])
	assert.NotContains(t, entries[1].ContextMap(), "ray_id")
}

func TestNew_DebugUsesDevelopmentConfig(t *testing.T) {
	l, err := New(&Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
