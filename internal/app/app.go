package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/datamuse-lookup/internal/config"
	"github.com/samvad-hq/datamuse-lookup/internal/logger"
	"github.com/samvad-hq/datamuse-lookup/internal/runner"
	"github.com/samvad-hq/datamuse-lookup/internal/storage"
	"github.com/samvad-hq/datamuse-lookup/pkg/datamuse"
	"github.com/samvad-hq/datamuse-lookup/pkg/httpclient"
	"github.com/samvad-hq/datamuse-lookup/pkg/lookups"
	"github.com/samvad-hq/datamuse-lookup/pkg/publishers"
)

// App is the lookup runtime: the Datamuse client plus the optional cache, sinks and
// batch runner built around it.
type App struct {
	cfg      *config.Config
	client   *datamuse.Client
	cache    storage.Cache
	fanout   *publishers.Fanout
	runner   *runner.Service
	seeder   *lookups.Seeder
	interval time.Duration
	log      logger.Logger
}

// New builds the runtime from cfg.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	transport := httpclient.NewRestyClient(httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	})

	client, err := datamuse.New(
		datamuse.WithBaseURL(cfg.DatamuseBaseURL),
		datamuse.WithMaxResults(cfg.MaxResults),
		datamuse.WithHTTPClient(transport),
		datamuse.WithHeaders(map[string]string{"Accept": "application/json"}),
		datamuse.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("init datamuse client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	cache, err := storage.NewCache(cfg.CacheType, cfg.CachePath, storage.Options{
		TTL:             cfg.CacheTTL,
		CleanupInterval: cfg.CacheCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init cache: %w", err)
	}
	log.InfoObj("cache initialized", "cache_config", map[string]any{
		"type":                     cfg.CacheType,
		"path":                     cfg.CachePath,
		"ttl_seconds":              int(cfg.CacheTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.CacheCleanupInterval.Seconds()),
	})

	var pub runner.EventPublisher
	if fanout.Size() > 0 {
		pub = fanout
	}

	return &App{
		cfg:      cfg,
		client:   client,
		cache:    cache,
		fanout:   fanout,
		runner:   runner.NewService(client, cache, pub, log),
		seeder:   lookups.NewSeeder(transport, nil),
		interval: cfg.LookupInterval,
		log:      log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		log.InfoObj("no publishers file configured; events are not published", "publishers_file", "")
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Client exposes the configured Datamuse client for one-off queries.
func (a *App) Client() *datamuse.Client { return a.client }

// Lookup runs a single lookup through the cache and sinks and returns its body.
func (a *App) Lookup(ctx context.Context, l lookups.Lookup) ([]byte, error) {
	results, err := a.runner.Run(ctx, []lookups.Lookup{l})
	if len(results) == 0 {
		if err == nil {
			err = ctx.Err()
		}
		return nil, err
	}
	return results[0].Body, results[0].Err
}

// Seed builds similar lookups from the words on pageURL.
func (a *App) Seed(ctx context.Context, pageURL string, limit int) ([]lookups.Lookup, error) {
	words, err := a.seeder.Words(ctx, pageURL, limit)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no seed words found on %s", pageURL)
	}
	a.log.InfoObj("seed words extracted", "seed_meta", map[string]any{
		"url":   pageURL,
		"count": len(words),
	})
	return lookups.SimilarLookups(words), nil
}

// RunBatch runs ls once, or on every lookup_interval tick until ctx is cancelled when
// an interval is configured.
func (a *App) RunBatch(ctx context.Context, ls []lookups.Lookup, onResult func(runner.Result)) error {
	if a == nil || a.runner == nil {
		return fmt.Errorf("app is not initialized")
	}

	if err := a.runOnce(ctx, ls, onResult); err != nil {
		if a.interval <= 0 {
			return err
		}
		a.log.ErrorObj("initial batch failed", "error", err)
	}
	if a.interval <= 0 {
		return nil
	}

	a.log.InfoObj("batch loop starting", "batch_state", map[string]any{
		"lookups_count":    len(ls),
		"publishers_count": a.fanout.Size(),
		"interval":         a.interval.String(),
	})

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.InfoObj("batch loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := a.runOnce(ctx, ls, onResult); err != nil {
				a.log.ErrorObj("scheduled batch failed", "error", err)
			}
		}
	}
}

func (a *App) runOnce(ctx context.Context, ls []lookups.Lookup, onResult func(runner.Result)) error {
	start := time.Now()
	results, err := a.runner.Run(ctx, ls)
	if onResult != nil {
		for _, r := range results {
			onResult(r)
		}
	}
	a.log.InfoObj("batch completed", "batch_meta", map[string]any{
		"lookups_count": len(ls),
		"completed":     len(results),
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return err
}

// Close releases the cache and sinks.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if err := a.fanout.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
