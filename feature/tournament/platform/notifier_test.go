package platform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticChannels map[string]string

func (s staticChannels) NotificationChannel(_ context.Context, guildID string) (string, error) {
	if guildID == "broken" {
		return "", errors.New("store offline")
	}
	return s[guildID], nil
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello world", "Hello world"},
		{"backticks", "Code: `x`", "Code: \\`x\\`"},
		{"everyone", "@everyone look", "@\u200beveryone look"},
		{"here", "@here", "@\u200bhere"},
		{"url", "Check https://lichess.org/tournament/abc", "Check <https://lichess.org/tournament/abc>"},
		{"wrapped url stays wrapped", "<https://a.example/x>", "<https://a.example/x>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_Truncates(t *testing.T) {
	out := Sanitize(strings.Repeat("a", 2500))
	assert.Equal(t, maxMessageLength, len([]rune(out)))
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestCategory_Prefix(t *testing.T) {
	assert.Equal(t, "✅ 2 new events", Format("2 new events", CategoryCreate))
	assert.Equal(t, "🔄", CategoryUpdate.Prefix())
	assert.Equal(t, "🗑️", CategoryDelete.Prefix())
	assert.Equal(t, "ℹ️", CategoryInfo.Prefix())
}

func TestChannelNotifier(t *testing.T) {
	api := newFakeAPI()
	d := NewDiscord(api, nil, zap.NewNop())
	channels := staticChannels{"g1": "c1"}

	n := NewChannelNotifier(d, channels, NotificationConfig{Events: true}, zap.NewNop())
	n.Notify(context.Background(), "g1", "1 new events created for teams: t:\nhttps://lichess.org/tournament/a", CategoryCreate)
	n.Notify(context.Background(), "g2", "no channel configured", CategoryCreate)
	n.Notify(context.Background(), "broken", "lookup fails", CategoryCreate)

	assert.Equal(t, []string{"✅ 1 new events created for teams: t:\n<https://lichess.org/tournament/a>"}, api.messages["c1"])
	assert.Len(t, api.messages, 1)
}

func TestChannelNotifier_EventsDisabled(t *testing.T) {
	api := newFakeAPI()
	n := NewChannelNotifier(NewDiscord(api, nil, zap.NewNop()), staticChannels{"g1": "c1"}, NotificationConfig{Events: false}, zap.NewNop())

	n.Notify(context.Background(), "g1", "created", CategoryCreate)
	n.Notify(context.Background(), "g1", "notifications configured", CategoryInfo)

	assert.Equal(t, []string{"ℹ️ notifications configured"}, api.messages["c1"])
}

func TestChannelNotifier_SendFailureSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.err = restError(500)
	core, logs := observer.New(zapcore.WarnLevel)
	n := NewChannelNotifier(NewDiscord(api, nil, zap.NewNop()), staticChannels{"g1": "c1"}, NotificationConfig{Events: true}, zap.New(core))

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), "g1", "created", CategoryCreate)
	})
	assert.Equal(t, 1, logs.FilterMessage("Failed to send notification").Len())
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewLogNotifier(zap.New(core)).Notify(context.Background(), "g1", "3 events updated", CategoryUpdate)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "🔄 3 events updated", entries[0].Message)
		assert.Equal(t, "update", entries[0].ContextMap()["category"])
	}
}
