package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/datamuse-lookup/internal/logger"
	"github.com/samvad-hq/datamuse-lookup/pkg/datamuse"
	"github.com/samvad-hq/datamuse-lookup/pkg/lookups"
	"github.com/samvad-hq/datamuse-lookup/pkg/publishers"
)

// Result is the outcome of a single lookup within a pass.
type Result struct {
	Lookup lookups.Lookup
	URL    string
	Body   []byte
	Cached bool
	Err    error
}

// Service runs lookups through the cache, the Datamuse client and the publishers.
type Service struct {
	client    *datamuse.Client
	cache     ResponseCache
	publisher EventPublisher
	log       logger.Logger
}

// NewService wires a runner. cache and publisher may be nil.
func NewService(client *datamuse.Client, cache ResponseCache, publisher EventPublisher, log logger.Logger) *Service {
	return &Service{
		client:    client,
		cache:     cache,
		publisher: publisher,
		log:       logger.Ensure(log),
	}
}

// Run executes every lookup once. Individual failures are logged and joined into the
// returned error; a cancelled context stops the pass before the next lookup.
func (s *Service) Run(ctx context.Context, ls []lookups.Lookup) ([]Result, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("runner service is not initialized")
	}
	if len(ls) == 0 {
		return nil, fmt.Errorf("no lookups to run")
	}

	results := make([]Result, 0, len(ls))
	var errs []error
	for _, l := range ls {
		if ctx.Err() != nil {
			break
		}

		res := s.runLookup(ctx, l)
		results = append(results, res)
		if res.Err != nil {
			errs = append(errs, res.Err)
			s.log.ErrorObj("lookup failed", "lookup_error", map[string]any{
				"lookup_id": l.ID,
				"kind":      l.Kind,
				"error":     res.Err.Error(),
			})
		}
	}

	return results, errors.Join(errs...)
}

func (s *Service) runLookup(ctx context.Context, l lookups.Lookup) Result {
	res := Result{Lookup: l}

	q, err := l.Query()
	if err != nil {
		res.Err = fmt.Errorf("lookup %s: %w", l.ID, err)
		return res
	}
	res.URL = s.client.URL(q)

	if body, ok := s.cached(res.URL); ok {
		res.Body = body
		res.Cached = true
	} else {
		resp, err := s.client.Do(ctx, q)
		if err != nil {
			res.Err = fmt.Errorf("lookup %s: %w", l.ID, err)
			return res
		}
		res.Body = resp.Body
		s.store(res.URL, resp.Body)
	}

	s.log.InfoObj("lookup completed", "lookup_result", map[string]any{
		"lookup_id":  l.ID,
		"kind":       l.Kind,
		"cached":     res.Cached,
		"body_bytes": len(res.Body),
	})

	if s.publisher != nil {
		evt := publishers.NewLookupEvent(l.ID, string(l.Kind), res.URL, s.client.MaxResults(), res.Body, res.Cached)
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			res.Err = fmt.Errorf("publish lookup %s: %w", l.ID, err)
		}
	}
	return res
}

// cached treats cache failures as misses; the service is still reachable.
func (s *Service) cached(url string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	body, ok, err := s.cache.Get(url)
	if err != nil {
		s.log.WarnObj("cache read failed", "cache_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
		return nil, false
	}
	return body, ok
}

func (s *Service) store(url string, body []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(url, body); err != nil {
		s.log.WarnObj("cache write failed", "cache_error", map[string]any{
			"url":   url,
			"error": err.Error(),
		})
	}
}
