package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. TRACKR_URL or
// TRACKR_CACHE_EXPIRE.
const EnvPrefix = "TRACKR"

var (
	// ErrInvalidConfig indicates a configuration value that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoURL indicates a command needs the tracker but no URL is set.
	ErrNoURL = errors.New("tracker url is not configured (set url in .trackr.yaml or TRACKR_URL)")
)

// DefaultCachePatterns lists the metadata endpoints that are safe to cache.
var DefaultCachePatterns = map[string][]string{
	"GET": {
		`/rest/api/2/field$`,
		`/rest/api/2/issue/createmeta`,
		`/rest/api/2/issue/[^/]+/editmeta$`,
		`/rest/api/2/user/search`,
		`/rest/api/2/issueLinkType$`,
		`/rest/api/2/serverInfo$`,
	},
}

// CacheConfig controls the request cache.
type CacheConfig struct {
	Enabled  bool                `mapstructure:"enabled"`
	File     string              `mapstructure:"file"`
	Expire   int                 `mapstructure:"expire"`
	Patterns map[string][]string `mapstructure:"patterns"`
}

// Config holds all runtime configuration for a trackr invocation.
// Values are populated from .trackr.yaml, TRACKR_* env vars, and CLI flags.
type Config struct {
	URL           string      `mapstructure:"url"`
	User          string      `mapstructure:"user"`
	Token         string      `mapstructure:"token"`
	FieldsFile    string      `mapstructure:"fields_file"`
	PromoteCustom bool        `mapstructure:"promote_custom"`
	AllowPlugins  bool        `mapstructure:"allow_plugins"`
	Verbose       bool        `mapstructure:"verbose"`
	Cache         CacheConfig `mapstructure:"cache"`
}

// BindEnv maps TRACKR_* environment variables onto configuration keys.
// Nested keys use underscores: cache.expire is TRACKR_CACHE_EXPIRE.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// DefaultCacheFile returns the cache file under the user cache directory.
func DefaultCacheFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "trackr", "requests.cache")
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("url", "")
	viper.SetDefault("user", "")
	viper.SetDefault("token", "")
	viper.SetDefault("fields_file", ".trackr-fields.toml")
	viper.SetDefault("promote_custom", false)
	viper.SetDefault("allow_plugins", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.file", DefaultCacheFile())
	viper.SetDefault("cache.expire", 43200)
	viper.SetDefault("cache.patterns", DefaultCachePatterns)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate checks values that Load cannot reject on type alone.
func (c Config) Validate() error {
	if c.Cache.Expire < 0 {
		return fmt.Errorf("%w: cache.expire must not be negative, got %d", ErrInvalidConfig, c.Cache.Expire)
	}
	for method, list := range c.Cache.Patterns {
		for _, expr := range list {
			if _, err := regexp.Compile(expr); err != nil {
				return fmt.Errorf("%w: cache pattern %q for %s: %w", ErrInvalidConfig, expr, method, err)
			}
		}
	}
	if c.URL != "" && !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("%w: url %q must start with http:// or https://", ErrInvalidConfig, c.URL)
	}
	return nil
}

// RequireURL returns ErrNoURL when no tracker URL is configured.
func (c Config) RequireURL() error {
	if c.URL == "" {
		return ErrNoURL
	}
	return nil
}

// CacheExpire returns the cache lifetime as a duration.
func (c Config) CacheExpire() time.Duration {
	return time.Duration(c.Cache.Expire) * time.Second
}
