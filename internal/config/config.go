package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const maxResultsLimit = 1000

// Config holds the application configuration loaded from defaults, configs/.env and the environment.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	DatamuseBaseURL    string        `mapstructure:"datamuse_base_url"`
	MaxResults         int           `mapstructure:"max_results"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	UserAgent          string        `mapstructure:"user_agent"`

	PublishersFile string `mapstructure:"publishers_file"`

	LookupIntervalSeconds int64         `mapstructure:"lookup_interval"`
	LookupInterval        time.Duration `mapstructure:"-"`

	CacheType            string        `mapstructure:"cache_type"`
	CachePath            string        `mapstructure:"cache_path"`
	CacheTTLSeconds      int64         `mapstructure:"cache_ttl_seconds"`
	CacheCleanupSeconds  int64         `mapstructure:"cache_cleanup_interval_seconds"`
	CacheTTL             time.Duration `mapstructure:"-"`
	CacheCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env, environment variables and defaults.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "datamuse-lookup")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("datamuse_base_url", "http://api.datamuse.com")
	v.SetDefault("max_results", maxResultsLimit)
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("user_agent", "datamuse-lookup/1.0")
	v.SetDefault("publishers_file", "")
	v.SetDefault("lookup_interval", 0) // seconds; 0 runs a batch once
	v.SetDefault("cache_type", "none")
	v.SetDefault("cache_path", "./data/lookups.db")
	v.SetDefault("cache_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("cache_cleanup_interval_seconds", int64(time.Hour/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) validate() error {
	cfg.DatamuseBaseURL = strings.TrimSpace(cfg.DatamuseBaseURL)
	if cfg.DatamuseBaseURL == "" {
		return fmt.Errorf("datamuse_base_url must not be empty")
	}
	if cfg.MaxResults < 1 || cfg.MaxResults > maxResultsLimit {
		return fmt.Errorf("invalid max_results %d (must be between 1 and %d)", cfg.MaxResults, maxResultsLimit)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.LookupIntervalSeconds < 0 {
		return fmt.Errorf("invalid lookup_interval (must not be negative)")
	}
	cfg.LookupInterval = time.Duration(cfg.LookupIntervalSeconds) * time.Second

	if cfg.CacheTTLSeconds <= 0 {
		return fmt.Errorf("invalid cache_ttl_seconds (must be positive seconds)")
	}
	if cfg.CacheCleanupSeconds <= 0 {
		return fmt.Errorf("invalid cache_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.CacheCleanupInterval = time.Duration(cfg.CacheCleanupSeconds) * time.Second

	return nil
}
