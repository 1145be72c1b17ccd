package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"arena-sync/core/cache"
	"arena-sync/core/database"
	"arena-sync/core/logger"
	"arena-sync/core/server"
	"arena-sync/core/storage"
	"arena-sync/feature/tournament/feed"
	"arena-sync/feature/tournament/platform"
	"arena-sync/feature/tournament/settings"
	tsync "arena-sync/feature/tournament/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrFallback is returned together with a usable configuration when the
// config file could not be used and defaults were applied instead.
var ErrFallback = errors.New("configuration fell back to defaults")

// FileName is the optional config file looked up in the config path.
const FileName = "config.yaml"

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the settings database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Settings selects where guild settings live.
	Settings settings.Config `mapstructure:"settings"`
	// Feed holds configuration for the upstream tournament feed.
	Feed feed.Config `mapstructure:"feed"`
	// Cache holds configuration for the feed cache.
	Cache cache.Config `mapstructure:"cache"`
	// Sync holds configuration for sync passes and the scheduler.
	Sync tsync.Config `mapstructure:"sync"`
	// Discord holds the bot token and REST rate limits.
	Discord platform.Config `mapstructure:"discord"`
	// Notifications controls channel notifications.
	Notifications platform.NotificationConfig `mapstructure:"notifications"`
}

// LoadConfig loads configuration from the .env file, an optional config.yaml
// and environment variables, in increasing precedence, over struct tag defaults.
//
// A config is always returned. When the config file is malformed or values
// cannot be decoded, the error wraps ErrFallback and the returned config holds
// the defaults for whatever could not be read.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := newViper()

	var fallback error
	file := filepath.Join(path, FileName)
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			fallback = fmt.Errorf("%w: read %s: %v", ErrFallback, file, err)
			v = newViper()
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		defaults, derr := Defaults()
		if derr != nil {
			return nil, derr
		}
		return defaults, fmt.Errorf("%w: decode: %v", ErrFallback, err)
	}

	return &config, fallback
}

// Defaults returns the configuration built from struct tag defaults only.
func Defaults() (*Config, error) {
	v := viper.New()
	bindValues(v, Config{}, "")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. FEED_IDLE_TIMEOUT_SECONDS -> feed.idle_timeout_seconds)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
