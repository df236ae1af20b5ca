package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ghtrending/ghtrending/pkg/filesystem"
	"github.com/ghtrending/ghtrending/pkg/trending"
)

// EnvPrefix prefixes environment overrides, e.g. GHTRENDING_FEED_BASE_URL
const EnvPrefix = "GHTRENDING"

// Config holds the central application configuration
type Config struct {
	// Trending data service the client reads from
	Feed struct {
		BaseURL      string `mapstructure:"base_url"`
		Path         string `mapstructure:"path"`
		Suffix       string `mapstructure:"suffix"`
		DefaultRange string `mapstructure:"default_range"` // e.g. "last_7_days"
	} `mapstructure:"feed"`

	// Optional language colour overrides layered over the embedded table
	Languages struct {
		ColorsPath string `mapstructure:"colors_path"`
		ColorsURL  string `mapstructure:"colors_url"`
	} `mapstructure:"languages"`

	// Star event store used by ingest and publish
	Store struct {
		Driver string `mapstructure:"driver"` // sqlite or postgres
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"store"`

	Ingest struct {
		ArchiveURL string `mapstructure:"archive_url"`
		HoursAgo   int    `mapstructure:"hours_ago"`
	} `mapstructure:"ingest"`

	Publish struct {
		OutputDir    string `mapstructure:"output_dir"`
		Limit        int    `mapstructure:"limit"`        // Repositories per range
		Contributors int    `mapstructure:"contributors"` // Contributors per repository
		Concurrency  int    `mapstructure:"concurrency"`  // Parallel GitHub lookups
	} `mapstructure:"publish"`

	Server struct {
		Addr         string   `mapstructure:"addr"`
		DataDir      string   `mapstructure:"data_dir"`
		AllowOrigins []string `mapstructure:"allow_origins"`
		CacheMaxAge  int      `mapstructure:"cache_max_age"` // Seconds
	} `mapstructure:"server"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feed.base_url", trending.DefaultBaseURL)
	v.SetDefault("feed.path", trending.DefaultPath)
	v.SetDefault("feed.suffix", trending.DefaultSuffix)
	v.SetDefault("feed.default_range", trending.DefaultRange().Key())

	v.SetDefault("languages.colors_path", "")
	v.SetDefault("languages.colors_url", "")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "ghtrending.db")

	v.SetDefault("ingest.archive_url", "https://data.gharchive.org")
	v.SetDefault("ingest.hours_ago", 2)

	v.SetDefault("publish.output_dir", "public")
	v.SetDefault("publish.limit", 20)
	v.SetDefault("publish.contributors", 10)
	v.SetDefault("publish.concurrency", 4)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.data_dir", "public")
	v.SetDefault("server.allow_origins", []string{"*"})
	v.SetDefault("server.cache_max_age", 7200)
}

// ResolvePath returns the file LoadConfig and SaveConfig use for path. It
// tries the current working directory first, then the executable directory.
// Absolute paths are returned as is.
func ResolvePath(path string) string {
	if path == "" {
		path = "config.yaml"
	}

	if filepath.IsAbs(path) {
		return path
	}

	if _, err := os.Stat(path); err != nil {
		if execPath, err := filesystem.GetDefaultPath(path); err == nil {
			if _, err := os.Stat(execPath); err == nil {
				return execPath
			}
		}
	}
	return path
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(ResolvePath(path))
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadConfig loads the configuration from a file. A missing file is not an
// error: defaults and environment overrides are used instead.
func LoadConfig(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values that would otherwise fail much later
func (c *Config) Validate() error {
	if _, err := trending.ParseRange(c.Feed.DefaultRange); err != nil {
		return fmt.Errorf("invalid feed.default_range: %w", err)
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid store.driver %q: must be sqlite or postgres", c.Store.Driver)
	}

	if c.Publish.Limit <= 0 {
		return fmt.Errorf("invalid publish.limit %d: must be positive", c.Publish.Limit)
	}
	if c.Publish.Concurrency <= 0 {
		return fmt.Errorf("invalid publish.concurrency %d: must be positive", c.Publish.Concurrency)
	}
	if c.Ingest.HoursAgo < 0 {
		return fmt.Errorf("invalid ingest.hours_ago %d: must not be negative", c.Ingest.HoursAgo)
	}

	return nil
}

// DefaultRange returns the parsed feed.default_range
func (c *Config) DefaultRange() trending.Range {
	r, err := trending.ParseRange(c.Feed.DefaultRange)
	if err != nil {
		return trending.DefaultRange()
	}
	return r
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(ResolvePath(path))
	v.SetConfigType("yaml")

	v.Set("feed.base_url", config.Feed.BaseURL)
	v.Set("feed.path", config.Feed.Path)
	v.Set("feed.suffix", config.Feed.Suffix)
	v.Set("feed.default_range", config.Feed.DefaultRange)

	v.Set("languages.colors_path", config.Languages.ColorsPath)
	v.Set("languages.colors_url", config.Languages.ColorsURL)

	v.Set("store.driver", config.Store.Driver)
	v.Set("store.dsn", config.Store.DSN)

	v.Set("ingest.archive_url", config.Ingest.ArchiveURL)
	v.Set("ingest.hours_ago", config.Ingest.HoursAgo)

	v.Set("publish.output_dir", config.Publish.OutputDir)
	v.Set("publish.limit", config.Publish.Limit)
	v.Set("publish.contributors", config.Publish.Contributors)
	v.Set("publish.concurrency", config.Publish.Concurrency)

	v.Set("server.addr", config.Server.Addr)
	v.Set("server.data_dir", config.Server.DataDir)
	v.Set("server.allow_origins", config.Server.AllowOrigins)
	v.Set("server.cache_max_age", config.Server.CacheMaxAge)

	return v.WriteConfig()
}
