package publishers

import (
	"time"
)

// LookupEvent is the payload published downstream for every completed lookup.
type LookupEvent struct {
	LookupID    string    `json:"lookup_id"`
	Kind        string    `json:"kind"`
	URL         string    `json:"url"`
	MaxResults  int       `json:"max_results"`
	Cached      bool      `json:"cached"`
	Body        string    `json:"body"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewLookupEvent stamps a LookupEvent with the current UTC time.
func NewLookupEvent(lookupID, kind, url string, maxResults int, body []byte, cached bool) LookupEvent {
	return LookupEvent{
		LookupID:    lookupID,
		Kind:        kind,
		URL:         url,
		MaxResults:  maxResults,
		Cached:      cached,
		Body:        string(body),
		CompletedAt: time.Now().UTC(),
	}
}
