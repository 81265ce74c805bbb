package runner

import (
	"context"

	"github.com/samvad-hq/datamuse-lookup/pkg/publishers"
)

// EventPublisher publishes completed lookups downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.LookupEvent) (int, error)
}

// ResponseCache stores response bodies keyed by request URL.
type ResponseCache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, body []byte) error
}
