package datamuse

import (
	"errors"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestQueryURLs(t *testing.T) {
	c := newTestClient(t, WithMaxResults(25))

	mustQuery := func(q Query, err error) Query {
		t.Helper()
		if err != nil {
			t.Fatalf("build query: %v", err)
		}
		return q
	}

	cases := []struct {
		name string
		q    Query
		want string
	}{
		{"similar phrase", SimilarQuery("hello world"), "http://api.datamuse.com/words?rd=hello+world&max=25"},
		{"similar starts", SimilarStartsWithQuery("cat", "d"), "http://api.datamuse.com/words?rd=cat&sp=d*&max=25"},
		{"similar ends", SimilarEndsWithQuery("cat", "y"), "http://api.datamuse.com/words?rd=cat&sp=*y&max=25"},
		{"starts", StartsWithQuery("bo"), "http://api.datamuse.com/words?sp=bo*&max=25"},
		{"starts missing", mustQuery(StartsWithMissingQuery("b", 3)), "http://api.datamuse.com/words?sp=b???&max=25"},
		{"starts ends", StartsEndsWithQuery("b", "d"), "http://api.datamuse.com/words?sp=b*d&max=25"},
		{"starts ends missing", mustQuery(StartsEndsWithMissingQuery("b", "d", 2)), "http://api.datamuse.com/words?sp=b??d&max=25"},
		{"pattern space", mustQuery(StartsWithMissingQuery("ice c", 2)), "http://api.datamuse.com/words?sp=ice%20c??&max=25"},
		{"sounds", SoundsLikeQuery("jirraf"), "http://api.datamuse.com/words?sl=jirraf&max=25"},
		{"spelt", SpeltLikeQuery("hipopatamus"), "http://api.datamuse.com/words?sp=hipopatamus&max=25"},
		{"suggest", SuggestQuery("rawn do"), "http://api.datamuse.com/sug?s=rawn+do&max=25"},
		{"reserved chars", SimilarQuery("rock&roll=fun"), "http://api.datamuse.com/words?rd=rock%26roll%3Dfun&max=25"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.URL(tc.q); got != tc.want {
				t.Fatalf("URL = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestZeroMissingLettersIsExactPattern(t *testing.T) {
	q, err := StartsEndsWithMissingQuery("b", "d", 0)
	if err != nil {
		t.Fatalf("StartsEndsWithMissingQuery: %v", err)
	}
	if v, _ := q.Get(ParamSpelled); v != "bd" {
		t.Fatalf("sp = %q, want bd", v)
	}
}

func TestNegativeMissingLettersRejected(t *testing.T) {
	if _, err := StartsWithMissingQuery("b", -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := StartsEndsWithMissingQuery("b", "d", -2); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestQueryBuildersDoNotShareParams(t *testing.T) {
	base := SimilarQuery("cat")
	a := base.Pattern(ParamSpelled, "a*")
	b := base.Pattern(ParamSpelled, "b*")

	if enc := a.Encode(1); !strings.Contains(enc, "sp=a*") || strings.Contains(enc, "sp=b*") {
		t.Fatalf("a encoded as %q", enc)
	}
	if enc := b.Encode(1); !strings.Contains(enc, "sp=b*") {
		t.Fatalf("b encoded as %q", enc)
	}
	if enc := base.Encode(1); enc != "rd=cat&max=1" {
		t.Fatalf("base mutated: %q", enc)
	}
}
