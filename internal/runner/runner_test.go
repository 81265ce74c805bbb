package runner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/samvad-hq/datamuse-lookup/pkg/datamuse"
	"github.com/samvad-hq/datamuse-lookup/pkg/lookups"
	"github.com/samvad-hq/datamuse-lookup/pkg/publishers"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func (m *memCache) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	b, ok := m.entries[key]
	return b, ok, nil
}

func (m *memCache) Put(key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = body
	return nil
}

type fakePublisher struct {
	events []publishers.LookupEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.LookupEvent) (int, error) {
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func newStubService(t *testing.T, hits *atomic.Int32, cache ResponseCache, pub EventPublisher) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("rd") == "broken" {
			http.Error(w, "bad", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"word":"` + r.URL.Query().Get("rd") + `"}]`))
	}))
	t.Cleanup(srv.Close)

	client, err := datamuse.New(datamuse.WithBaseURL(srv.URL), datamuse.WithMaxResults(5))
	if err != nil {
		t.Fatalf("datamuse.New: %v", err)
	}
	return NewService(client, cache, pub, nil)
}

func TestRunPublishesAndCaches(t *testing.T) {
	var hits atomic.Int32
	cache := &memCache{}
	pub := &fakePublisher{}
	svc := newStubService(t, &hits, cache, pub)

	ls := []lookups.Lookup{{ID: "a", Kind: lookups.KindSimilar, Word: "cat"}}

	first, err := svc.Run(context.Background(), ls)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := svc.Run(context.Background(), ls)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if hits.Load() != 1 {
		t.Fatalf("expected one upstream hit, got %d", hits.Load())
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cache flags wrong: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	if string(second[0].Body) != `[{"word":"cat"}]` {
		t.Fatalf("cached body = %q", second[0].Body)
	}
	if len(pub.events) != 2 || pub.events[0].MaxResults != 5 || !strings.HasSuffix(pub.events[0].URL, "/words?rd=cat&max=5") {
		t.Fatalf("unexpected events %+v", pub.events)
	}
}

func TestRunJoinsFailuresAndContinues(t *testing.T) {
	var hits atomic.Int32
	svc := newStubService(t, &hits, nil, nil)

	results, err := svc.Run(context.Background(), []lookups.Lookup{
		{ID: "bad", Kind: lookups.KindSimilar, Word: "broken"},
		{ID: "good", Kind: lookups.KindSimilar, Word: "dog"},
	})
	if !errors.Is(err, datamuse.ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(results) != 2 || results[1].Err != nil || string(results[1].Body) != `[{"word":"dog"}]` {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestRunTreatsCacheErrorsAsMiss(t *testing.T) {
	var hits atomic.Int32
	svc := newStubService(t, &hits, &memCache{getErr: errors.New("disk gone")}, nil)

	if _, err := svc.Run(context.Background(), []lookups.Lookup{{ID: "a", Kind: lookups.KindSimilar, Word: "cat"}}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected upstream fetch on cache error")
	}
}

func TestRunReportsPublishErrors(t *testing.T) {
	var hits atomic.Int32
	svc := newStubService(t, &hits, nil, &fakePublisher{err: errors.New("sink down")})

	_, err := svc.Run(context.Background(), []lookups.Lookup{{ID: "a", Kind: lookups.KindSimilar, Word: "cat"}})
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	var hits atomic.Int32
	svc := newStubService(t, &hits, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := svc.Run(ctx, []lookups.Lookup{{ID: "a", Kind: lookups.KindSimilar, Word: "cat"}})
	if err != nil || len(results) != 0 || hits.Load() != 0 {
		t.Fatalf("expected no work, results=%v err=%v hits=%d", results, err, hits.Load())
	}
}

func TestRunRejectsEmptyBatch(t *testing.T) {
	var hits atomic.Int32
	svc := newStubService(t, &hits, nil, nil)
	if _, err := svc.Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty batch")
	}
}
