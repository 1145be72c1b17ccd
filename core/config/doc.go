// Package config provides configuration management for Arena Sync.
//
// It utilizes Viper for loading configuration from a .env file, an optional
// config.yaml and environment variables. Defaults come from the `default`
// struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port, API key and shutdown timeout
//   - Log: level, format and optional error file
//   - Database: SQLite or MySQL connection for the settings store
//   - Storage: S3/MinIO credentials, bucket and settings object
//   - Settings: settings backend (database or object)
//   - Feed: feed URLs, idle timeout and circuit breaker
//   - Cache: feed cache TTL
//   - Sync: scheduler interval, concurrency and default tournament length
//   - Discord: bot token and REST rate limit
//   - Notifications: channel notification toggles
//
// Environment variables map to keys by replacing dots with underscores,
// e.g. FEED_IDLE_TIMEOUT_SECONDS sets feed.idle_timeout_seconds.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if errors.Is(err, config.ErrFallback) {
//	    log.Print(err) // defaults are in use
//	}
//	fmt.Println(cfg.Server.Port)
package config
