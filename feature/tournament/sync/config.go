package sync

import "time"

// Config controls sync passes.
type Config struct {
	// IntervalSeconds is the time between scheduled passes.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"300"`
	// Concurrency bounds how many guilds are synced at once.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// DefaultDurationMs is assumed for tournaments without an end time.
	DefaultDurationMs int64 `mapstructure:"default_duration_ms" default:"3600000"`
	// RunOnStart runs a pass as soon as the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

// Interval returns the scheduling interval, 5 minutes when unset.
func (c Config) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Workers returns the guild concurrency, at least 1.
func (c Config) Workers() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}

// DefaultDuration returns the assumed tournament length, one hour when unset.
func (c Config) DefaultDuration() time.Duration {
	if c.DefaultDurationMs <= 0 {
		return time.Hour
	}
	return time.Duration(c.DefaultDurationMs) * time.Millisecond
}
