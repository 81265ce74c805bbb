// Package datamuse is a thin client for the Datamuse word-lookup API. Each method maps to
// one query template, performs a single GET and hands back the raw response body.
package datamuse

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/samvad-hq/datamuse-lookup/pkg/httpclient"
)

const (
	// DefaultBaseURL is the public Datamuse host.
	DefaultBaseURL = "http://api.datamuse.com"
	// MaxResultsLimit is the largest result count Datamuse honors.
	MaxResultsLimit = 1000
	// DefaultMaxResults asks for as many results as the service allows.
	DefaultMaxResults = MaxResultsLimit

	maxErrorSnippet = 512
)

// Response is the uninterpreted result of one lookup.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// String returns the body as text.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Client builds Datamuse query URLs and fetches them. It is safe for concurrent use.
type Client struct {
	baseURL    string
	http       httpclient.Client
	headers    map[string]string
	log        Logger
	maxResults atomic.Int64
}

type settings struct {
	baseURL    string
	maxResults int
	http       httpclient.Client
	headers    map[string]string
	log        Logger
}

// Option configures a Client at construction.
type Option func(*settings)

// WithMaxResults sets the result bound (1..MaxResultsLimit).
func WithMaxResults(n int) Option {
	return func(s *settings) { s.maxResults = n }
}

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(c httpclient.Client) Option {
	return func(s *settings) { s.http = c }
}

// WithHeaders adds headers sent on every request.
func WithHeaders(h map[string]string) Option {
	return func(s *settings) {
		if len(h) == 0 {
			return
		}
		if s.headers == nil {
			s.headers = make(map[string]string, len(h))
		}
		for k, v := range h {
			s.headers[k] = v
		}
	}
}

// WithLogger enables debug logging of issued requests.
func WithLogger(l Logger) Option {
	return func(s *settings) { s.log = l }
}

// New constructs a Client. It fails with ErrInvalidArgument when the result bound is out
// of range or the base URL cannot be parsed.
func New(opts ...Option) (*Client, error) {
	s := settings{
		baseURL:    DefaultBaseURL,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	if err := validateMaxResults(s.maxResults); err != nil {
		return nil, err
	}

	base := strings.TrimRight(strings.TrimSpace(s.baseURL), "/")
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, invalidArgument("base url %q is not absolute", s.baseURL)
	}

	if s.http == nil {
		s.http = httpclient.NewRestyClient(httpclient.Options{})
	}
	if s.log == nil {
		s.log = noopLogger{}
	}

	c := &Client{
		baseURL: base,
		http:    s.http,
		headers: s.headers,
		log:     s.log,
	}
	c.maxResults.Store(int64(s.maxResults))
	return c, nil
}

func validateMaxResults(n int) error {
	if n > MaxResultsLimit {
		return invalidArgument("max results cannot exceed %d, got %d", MaxResultsLimit, n)
	}
	if n < 1 {
		return invalidArgument("max results must be at least 1, got %d", n)
	}
	return nil
}

// MaxResults returns the current result bound.
func (c *Client) MaxResults() int {
	return int(c.maxResults.Load())
}

// SetMaxResults changes the result bound. Out-of-range values are rejected and the
// previous bound is kept.
func (c *Client) SetMaxResults(n int) error {
	if err := validateMaxResults(n); err != nil {
		return err
	}
	c.maxResults.Store(int64(n))
	return nil
}

// BaseURL returns the host queries are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// URL renders q against the base URL using the current result bound.
func (c *Client) URL(q Query) string {
	return c.baseURL + string(q.Endpoint) + "?" + q.Encode(c.MaxResults())
}

// Do executes q and returns the body. Any failure to obtain a 2xx body is a *TransportError.
func (c *Client) Do(ctx context.Context, q Query) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := c.URL(q)

	if _, err := url.ParseRequestURI(target); err != nil {
		return nil, &TransportError{URL: target, Err: fmt.Errorf("malformed url: %w", err)}
	}

	c.log.DebugObj("datamuse request", "datamuse_request", map[string]any{
		"url": target,
	})

	resp, err := c.http.Get(ctx, target, c.headers)
	if err != nil {
		c.log.WarnObj("datamuse request failed", "datamuse_error", map[string]any{
			"url":   target,
			"error": err.Error(),
		})
		return nil, &TransportError{URL: target, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < 200 || status > 299 {
		return nil, &TransportError{
			URL:        target,
			StatusCode: status,
			Err:        errors.New(bodySnippet(body)),
		}
	}

	return &Response{URL: target, StatusCode: status, Body: body}, nil
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorSnippet {
		return s[:maxErrorSnippet] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// FindSimilar returns words or phrases with a meaning similar to word.
func (c *Client) FindSimilar(ctx context.Context, word string) (*Response, error) {
	return c.Do(ctx, SimilarQuery(word))
}

// FindSimilarStartsWith returns similar words that begin with startLetter.
func (c *Client) FindSimilarStartsWith(ctx context.Context, word, startLetter string) (*Response, error) {
	return c.Do(ctx, SimilarStartsWithQuery(word, startLetter))
}

// FindSimilarEndsWith returns similar words that end with endLetter.
func (c *Client) FindSimilarEndsWith(ctx context.Context, word, endLetter string) (*Response, error) {
	return c.Do(ctx, SimilarEndsWithQuery(word, endLetter))
}

// WordsStartingWith returns words beginning with startLetter, of any length.
func (c *Client) WordsStartingWith(ctx context.Context, startLetter string) (*Response, error) {
	return c.Do(ctx, StartsWithQuery(startLetter))
}

// WordsStartingWithMissing returns words made of startLetter followed by exactly
// numberMissing unknown letters.
func (c *Client) WordsStartingWithMissing(ctx context.Context, startLetter string, numberMissing int) (*Response, error) {
	q, err := StartsWithMissingQuery(startLetter, numberMissing)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, q)
}

// WordsStartingWithEndingWith returns words that start with startLetter and end with
// endLetter, with any number of letters between.
func (c *Client) WordsStartingWithEndingWith(ctx context.Context, startLetter, endLetter string) (*Response, error) {
	return c.Do(ctx, StartsEndsWithQuery(startLetter, endLetter))
}

// WordsStartingWithEndingWithMissing is WordsStartingWithEndingWith with exactly
// numberMissing letters between start and end.
func (c *Client) WordsStartingWithEndingWithMissing(ctx context.Context, startLetter, endLetter string, numberMissing int) (*Response, error) {
	q, err := StartsEndsWithMissingQuery(startLetter, endLetter, numberMissing)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, q)
}

// SoundsSimilar returns words and phrases that sound like word when spoken.
func (c *Client) SoundsSimilar(ctx context.Context, word string) (*Response, error) {
	return c.Do(ctx, SoundsLikeQuery(word))
}

// SpeltSimilar returns words and phrases spelled like word.
func (c *Client) SpeltSimilar(ctx context.Context, word string) (*Response, error) {
	return c.Do(ctx, SpeltLikeQuery(word))
}

// PrefixHintSuggestions returns autocomplete suggestions for partially typed input.
func (c *Client) PrefixHintSuggestions(ctx context.Context, word string) (*Response, error) {
	return c.Do(ctx, SuggestQuery(word))
}
