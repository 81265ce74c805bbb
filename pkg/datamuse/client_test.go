package datamuse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/datamuse-lookup/pkg/httpclient"
)

type stubResponse struct {
	body   []byte
	status int
}

func (s stubResponse) Body() []byte    { return s.body }
func (s stubResponse) StatusCode() int { return s.status }

// recordingClient captures the last requested URL.
type recordingClient struct {
	url     string
	headers map[string]string
	resp    httpclient.Response
	err     error
}

func (r *recordingClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	r.url = url
	r.headers = headers
	if r.err != nil {
		return nil, r.err
	}
	return r.resp, nil
}

func TestNewDefaultsToServiceLimit(t *testing.T) {
	c := newTestClient(t)
	if c.MaxResults() != DefaultMaxResults {
		t.Fatalf("MaxResults = %d, want %d", c.MaxResults(), DefaultMaxResults)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q", c.BaseURL())
	}
}

func TestNewAcceptsEveryBoundInRange(t *testing.T) {
	for n := 1; n <= MaxResultsLimit; n++ {
		c, err := New(WithMaxResults(n))
		if err != nil {
			t.Fatalf("New(%d): %v", n, err)
		}
		if c.MaxResults() != n {
			t.Fatalf("MaxResults = %d, want %d", c.MaxResults(), n)
		}
	}
}

func TestNewRejectsOutOfRangeBounds(t *testing.T) {
	for _, n := range []int{1001, 5000, 0, -3} {
		if _, err := New(WithMaxResults(n)); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("New(%d) err = %v, want ErrInvalidArgument", n, err)
		}
	}
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	if _, err := New(WithBaseURL("api.datamuse.com")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSetMaxResultsKeepsBoundOnError(t *testing.T) {
	c := newTestClient(t, WithMaxResults(10))
	if err := c.SetMaxResults(1001); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if c.MaxResults() != 10 {
		t.Fatalf("MaxResults changed to %d", c.MaxResults())
	}
	if err := c.SetMaxResults(42); err != nil {
		t.Fatalf("SetMaxResults: %v", err)
	}
	if got := c.URL(SimilarQuery("x")); !strings.HasSuffix(got, "max=42") {
		t.Fatalf("URL does not use new bound: %q", got)
	}
}

func TestClientMethodsRequestExpectedURLs(t *testing.T) {
	rec := &recordingClient{resp: stubResponse{body: []byte("[]"), status: 200}}
	c := newTestClient(t, WithHTTPClient(rec), WithBaseURL("http://stub.local/"), WithMaxResults(7),
		WithHeaders(map[string]string{"Accept": "application/json"}))
	ctx := context.Background()

	calls := []struct {
		call func() (*Response, error)
		want string
	}{
		{func() (*Response, error) { return c.FindSimilar(ctx, "hello world") }, "http://stub.local/words?rd=hello+world&max=7"},
		{func() (*Response, error) { return c.FindSimilarStartsWith(ctx, "cat", "d") }, "http://stub.local/words?rd=cat&sp=d*&max=7"},
		{func() (*Response, error) { return c.FindSimilarEndsWith(ctx, "cat", "t") }, "http://stub.local/words?rd=cat&sp=*t&max=7"},
		{func() (*Response, error) { return c.WordsStartingWith(ctx, "b") }, "http://stub.local/words?sp=b*&max=7"},
		{func() (*Response, error) { return c.WordsStartingWithMissing(ctx, "b", 3) }, "http://stub.local/words?sp=b???&max=7"},
		{func() (*Response, error) { return c.WordsStartingWithEndingWith(ctx, "b", "d") }, "http://stub.local/words?sp=b*d&max=7"},
		{func() (*Response, error) { return c.WordsStartingWithEndingWithMissing(ctx, "b", "d", 2) }, "http://stub.local/words?sp=b??d&max=7"},
		{func() (*Response, error) { return c.SoundsSimilar(ctx, "jirraf") }, "http://stub.local/words?sl=jirraf&max=7"},
		{func() (*Response, error) { return c.SpeltSimilar(ctx, "hipo*") }, "http://stub.local/words?sp=hipo*&max=7"},
		{func() (*Response, error) { return c.PrefixHintSuggestions(ctx, "rawn") }, "http://stub.local/sug?s=rawn&max=7"},
	}

	for _, tc := range calls {
		resp, err := tc.call()
		if err != nil {
			t.Fatalf("call for %s: %v", tc.want, err)
		}
		if rec.url != tc.want {
			t.Fatalf("requested %q, want %q", rec.url, tc.want)
		}
		if resp.URL != tc.want || resp.String() != "[]" {
			t.Fatalf("unexpected response %+v", resp)
		}
		if rec.headers["Accept"] != "application/json" {
			t.Fatalf("headers not forwarded: %v", rec.headers)
		}
	}
}

func TestNegativeMissingFailsBeforeRequest(t *testing.T) {
	rec := &recordingClient{resp: stubResponse{status: 200}}
	c := newTestClient(t, WithHTTPClient(rec))

	if _, err := c.WordsStartingWithMissing(context.Background(), "b", -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if rec.url != "" {
		t.Fatalf("request issued for invalid input: %q", rec.url)
	}
}

func TestDoSurfacesTransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	c := newTestClient(t, WithHTTPClient(&recordingClient{err: cause}))

	resp, err := c.FindSimilar(context.Background(), "test")
	if resp != nil {
		t.Fatalf("expected nil response, got %+v", resp)
	}
	if !errors.Is(err, ErrTransport) || !errors.Is(err, cause) {
		t.Fatalf("expected transport error wrapping cause, got %v", err)
	}
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 || !strings.Contains(te.URL, "rd=test") {
		t.Fatalf("unexpected transport error %#v", te)
	}
}

func TestDoTreatsNon2xxAsTransportFailure(t *testing.T) {
	c := newTestClient(t, WithHTTPClient(&recordingClient{resp: stubResponse{body: []byte("upstream down"), status: 503}}))

	_, err := c.SoundsSimilar(context.Background(), "test")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.StatusCode != 503 || !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEndToEndEchoesConfiguredBound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/words" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("rd") != "test" {
			http.Error(w, "missing rd", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[{"word":"exam","score":` + r.URL.Query().Get("max") + `}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, WithBaseURL(srv.URL), WithMaxResults(500))
	resp, err := c.FindSimilar(context.Background(), "test")
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if !strings.Contains(resp.String(), "500") {
		t.Fatalf("body %q does not contain 500", resp.String())
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestEndToEndPatternReachesServerDecoded(t *testing.T) {
	var gotSP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSP = r.URL.Query().Get("sp")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := newTestClient(t, WithBaseURL(srv.URL))
	if _, err := c.WordsStartingWithEndingWithMissing(context.Background(), "ice c", "m", 2); err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotSP != "ice c??m" {
		t.Fatalf("server saw sp=%q", gotSP)
	}
}

type capturingLogger struct {
	debug []string
	warn  []string
}

func (c *capturingLogger) DebugObj(msg, _ string, _ interface{}) { c.debug = append(c.debug, msg) }
func (c *capturingLogger) WarnObj(msg, _ string, _ interface{})  { c.warn = append(c.warn, msg) }

func TestInjectedLoggerSeesRequestsAndFailures(t *testing.T) {
	log := &capturingLogger{}
	rec := &recordingClient{resp: stubResponse{body: []byte("[]"), status: 200}}
	c := newTestClient(t, WithHTTPClient(rec), WithLogger(log))

	if _, err := c.FindSimilar(context.Background(), "cat"); err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	rec.err = errors.New("reset by peer")
	if _, err := c.FindSimilar(context.Background(), "cat"); err == nil {
		t.Fatalf("expected error")
	}

	if len(log.debug) != 2 || len(log.warn) != 1 {
		t.Fatalf("debug=%v warn=%v", log.debug, log.warn)
	}
}
