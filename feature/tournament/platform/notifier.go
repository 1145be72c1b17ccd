package platform

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxMessageLength is the platform's message size limit.
const maxMessageLength = 2000

// sendTimeout bounds a single notification delivery.
const sendTimeout = 10 * time.Second

var urlPattern = regexp.MustCompile(`<?(https?://[^\s<>]+)>?`)

// Sanitize makes text safe to post: mentions are neutralized, backticks
// escaped, links wrapped to suppress previews and the result truncated.
func Sanitize(text string) string {
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "@everyone", "@\u200beveryone")
	text = strings.ReplaceAll(text, "@here", "@\u200bhere")
	text = urlPattern.ReplaceAllString(text, "<$1>")

	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLength-1]) + "…"
}

// Format prefixes a message with its category emoji.
func Format(message string, category Category) string {
	return category.Prefix() + " " + message
}

// ChannelNotifier posts notifications to each guild's configured channel.
type ChannelNotifier struct {
	discord  *Discord
	channels ChannelSource
	enabled  bool
	logger   *zap.Logger
}

// NewChannelNotifier creates a notifier. When cfg.Events is false only info
// messages are delivered.
func NewChannelNotifier(discord *Discord, channels ChannelSource, cfg NotificationConfig, logger *zap.Logger) *ChannelNotifier {
	return &ChannelNotifier{discord: discord, channels: channels, enabled: cfg.Events, logger: logger}
}

// Notify sends message to the guild's notification channel.
// Failures are logged and swallowed.
func (n *ChannelNotifier) Notify(ctx context.Context, guildID, message string, category Category) {
	if !n.enabled && category != CategoryInfo {
		return
	}

	channelID, err := n.channels.NotificationChannel(ctx, guildID)
	if err != nil {
		n.logger.Warn("Failed to resolve notification channel", zap.String("guild", guildID), zap.Error(err))
		return
	}
	if channelID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := n.discord.sendMessage(ctx, channelID, Sanitize(Format(message, category))); err != nil {
		n.logger.Warn("Failed to send notification",
			zap.String("guild", guildID),
			zap.String("channel", channelID),
			zap.Error(err),
		)
	}
}

// LogNotifier writes notifications to the logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier for CLI runs.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at info level.
func (n *LogNotifier) Notify(_ context.Context, guildID, message string, category Category) {
	n.logger.Info(Format(message, category),
		zap.String("guild", guildID),
		zap.String("category", string(category)),
	)
}
