package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxResults != 1000 {
		t.Fatalf("MaxResults = %d", cfg.MaxResults)
	}
	if cfg.DatamuseBaseURL != "http://api.datamuse.com" {
		t.Fatalf("DatamuseBaseURL = %q", cfg.DatamuseBaseURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.LookupInterval != 0 {
		t.Fatalf("LookupInterval = %v", cfg.LookupInterval)
	}
	if cfg.CacheType != "none" || cfg.CacheTTL != 24*time.Hour || cfg.CacheCleanupInterval != time.Hour {
		t.Fatalf("unexpected cache config %+v", cfg)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MAX_RESULTS", "250")
	t.Setenv("LOOKUP_INTERVAL", "60")
	t.Setenv("CACHE_TYPE", "bbolt")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxResults != 250 {
		t.Fatalf("MaxResults = %d", cfg.MaxResults)
	}
	if cfg.LookupInterval != time.Minute {
		t.Fatalf("LookupInterval = %v", cfg.LookupInterval)
	}
	if cfg.CacheType != "bbolt" {
		t.Fatalf("CacheType = %q", cfg.CacheType)
	}
}

func TestLoadRejectsOutOfRangeMaxResults(t *testing.T) {
	for _, v := range []string{"0", "1001"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("MAX_RESULTS", v)
			if _, err := load(viper.New()); err == nil {
				t.Fatalf("expected error for max_results=%s", v)
			}
		})
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := load(viper.New()); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
