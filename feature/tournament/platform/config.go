package platform

import "golang.org/x/time/rate"

// Config holds configuration for the Discord connection.
type Config struct {
	// Token is the bot token.
	Token string `mapstructure:"token" default:""`
	// RequestsPerSecond limits REST calls issued by the adapter.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"2"`
	// Burst is the limiter burst size.
	Burst int `mapstructure:"burst" default:"2"`
}

// Limiter builds the REST rate limiter, defaulting to 2 requests per second.
func (c Config) Limiter() *rate.Limiter {
	rps, burst := c.RequestsPerSecond, c.Burst
	if rps <= 0 {
		rps = 2
	}
	if burst <= 0 {
		burst = 2
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// NotificationConfig controls notification delivery.
type NotificationConfig struct {
	// Events enables create, update and delete notifications in guild channels.
	Events bool `mapstructure:"events" default:"true"`
}
