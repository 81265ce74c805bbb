package httpclient

import "context"

// Response is the part of an HTTP response lookups care about.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client issues blocking GET requests. Implementations must honor ctx cancellation.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
