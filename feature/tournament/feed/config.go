package feed

import "time"

// Config holds configuration for the upstream tournament feed.
type Config struct {
	// URLTemplate builds the feed URL; %s is replaced by the escaped feed id.
	URLTemplate string `mapstructure:"url_template" default:"https://lichess.org/api/team/%s/arena"`
	// TournamentURL is the public tournament base URL used for dedup keys.
	TournamentURL string `mapstructure:"tournament_url" default:"https://lichess.org/tournament"`
	// IdleTimeoutSeconds ends a stream when no line arrives in time.
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds" default:"1"`
	// RequestTimeoutSeconds bounds connection setup and response headers.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"30"`
	// UserAgent is sent with every feed request.
	UserAgent string `mapstructure:"user_agent" default:"arena-sync/1.0"`
	// DescriptionHeader is the first line of every event description.
	DescriptionHeader string `mapstructure:"description_header" default:"**Lichess Arena Tournament**"`
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures int `mapstructure:"breaker_failures" default:"5"`
	// BreakerTimeoutSeconds is how long the breaker stays open.
	BreakerTimeoutSeconds int `mapstructure:"breaker_timeout_seconds" default:"60"`
}

// IdleTimeout returns the stream idle timeout, defaulting to one second.
func (c Config) IdleTimeout() time.Duration {
	if c.IdleTimeoutSeconds <= 0 {
		return time.Second
	}
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// RequestTimeout returns the request timeout, defaulting to 30 seconds.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// BreakerTimeout returns the open-state duration, defaulting to one minute.
func (c Config) BreakerTimeout() time.Duration {
	if c.BreakerTimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.BreakerTimeoutSeconds) * time.Second
}

// BreakerThreshold returns the consecutive failure threshold, defaulting to 5.
func (c Config) BreakerThreshold() uint32 {
	if c.BreakerFailures <= 0 {
		return 5
	}
	return uint32(c.BreakerFailures)
}

// withDefaults fills empty string settings.
func (c Config) withDefaults() Config {
	if c.URLTemplate == "" {
		c.URLTemplate = "https://lichess.org/api/team/%s/arena"
	}
	if c.TournamentURL == "" {
		c.TournamentURL = "https://lichess.org/tournament"
	}
	if c.DescriptionHeader == "" {
		c.DescriptionHeader = "**Lichess Arena Tournament**"
	}
	return c
}
