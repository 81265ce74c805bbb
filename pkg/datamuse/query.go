package datamuse

import (
	"net/url"
	"strconv"
	"strings"
)

// Endpoint is a path under the service base URL.
type Endpoint string

const (
	EndpointWords   Endpoint = "/words"
	EndpointSuggest Endpoint = "/sug"
)

// Datamuse query keys.
const (
	ParamMeansLike  = "rd"
	ParamSoundsLike = "sl"
	ParamSpelled    = "sp"
	ParamSuggest    = "s"
	ParamMax        = "max"
)

const (
	wildcardAny = "*"
	wildcardOne = "?"
)

type param struct {
	key     string
	value   string
	pattern bool
}

// Query is an endpoint plus an ordered list of parameters. The bound parameter is not
// part of a Query; the Client appends it when the URL is built.
type Query struct {
	Endpoint Endpoint
	params   []param
}

// NewQuery starts an empty query against ep.
func NewQuery(ep Endpoint) Query {
	return Query{Endpoint: ep}
}

// Phrase appends a free-text parameter; spaces encode as '+'.
func (q Query) Phrase(key, value string) Query {
	q.params = append(append([]param(nil), q.params...), param{key: key, value: value})
	return q
}

// Pattern appends a letter-pattern parameter; spaces encode as "%20".
func (q Query) Pattern(key, value string) Query {
	q.params = append(append([]param(nil), q.params...), param{key: key, value: value, pattern: true})
	return q
}

// Encode renders the query string with max appended last.
func (q Query) Encode(max int) string {
	var b strings.Builder
	for _, p := range q.params {
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(escapeValue(p.value, p.pattern))
		b.WriteByte('&')
	}
	b.WriteString(ParamMax)
	b.WriteByte('=')
	b.WriteString(strconv.Itoa(max))
	return b.String()
}

// Get returns the raw (unencoded) value of the first parameter named key.
func (q Query) Get(key string) (string, bool) {
	for _, p := range q.params {
		if p.key == key {
			return p.value, true
		}
	}
	return "", false
}

var wildcardUnescaper = strings.NewReplacer("%2A", wildcardAny, "%3F", wildcardOne)

// escapeValue percent-encodes v but keeps the pattern wildcards readable for the service.
func escapeValue(v string, pattern bool) string {
	s := wildcardUnescaper.Replace(url.QueryEscape(v))
	if pattern {
		// QueryEscape turned literal '+' into %2B, so any '+' left is a space.
		s = strings.ReplaceAll(s, "+", "%20")
	}
	return s
}

func unknownLetters(n int) (string, error) {
	if n < 0 {
		return "", invalidArgument("number of missing letters must not be negative, got %d", n)
	}
	return strings.Repeat(wildcardOne, n), nil
}

// SimilarQuery finds words with a meaning similar to word.
func SimilarQuery(word string) Query {
	return NewQuery(EndpointWords).Phrase(ParamMeansLike, word)
}

// SimilarStartsWithQuery narrows SimilarQuery to words beginning with start.
func SimilarStartsWithQuery(word, start string) Query {
	return SimilarQuery(word).Pattern(ParamSpelled, start+wildcardAny)
}

// SimilarEndsWithQuery narrows SimilarQuery to words ending with end.
func SimilarEndsWithQuery(word, end string) Query {
	return SimilarQuery(word).Pattern(ParamSpelled, wildcardAny+end)
}

// StartsWithQuery matches any word beginning with start.
func StartsWithQuery(start string) Query {
	return NewQuery(EndpointWords).Pattern(ParamSpelled, start+wildcardAny)
}

// StartsWithMissingQuery matches start followed by exactly missing unknown letters.
func StartsWithMissingQuery(start string, missing int) (Query, error) {
	gap, err := unknownLetters(missing)
	if err != nil {
		return Query{}, err
	}
	return NewQuery(EndpointWords).Pattern(ParamSpelled, start+gap), nil
}

// StartsEndsWithQuery matches start, any number of letters, then end.
func StartsEndsWithQuery(start, end string) Query {
	return NewQuery(EndpointWords).Pattern(ParamSpelled, start+wildcardAny+end)
}

// StartsEndsWithMissingQuery matches start, exactly missing unknown letters, then end.
func StartsEndsWithMissingQuery(start, end string, missing int) (Query, error) {
	gap, err := unknownLetters(missing)
	if err != nil {
		return Query{}, err
	}
	return NewQuery(EndpointWords).Pattern(ParamSpelled, start+gap+end), nil
}

// SoundsLikeQuery finds words that sound like word.
func SoundsLikeQuery(word string) Query {
	return NewQuery(EndpointWords).Phrase(ParamSoundsLike, word)
}

// SpeltLikeQuery finds words spelled like word.
func SpeltLikeQuery(word string) Query {
	return NewQuery(EndpointWords).Phrase(ParamSpelled, word)
}

// SuggestQuery asks the autocomplete endpoint what word is being typed.
func SuggestQuery(word string) Query {
	return NewQuery(EndpointSuggest).Phrase(ParamSuggest, word)
}
