package lookups

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/datamuse-lookup/pkg/datamuse"
)

// Kind names one Datamuse query template.
type Kind string

const (
	KindSimilar           Kind = "similar"
	KindSimilarStartsWith Kind = "similar_starts_with"
	KindSimilarEndsWith   Kind = "similar_ends_with"
	KindStartsWith        Kind = "starts_with"
	KindStartsEndingWith  Kind = "starts_ending_with"
	KindSoundsLike        Kind = "sounds_like"
	KindSpeltLike         Kind = "spelt_like"
	KindSuggest           Kind = "suggest"
)

// Kinds lists every supported kind.
var Kinds = []Kind{
	KindSimilar, KindSimilarStartsWith, KindSimilarEndsWith, KindStartsWith,
	KindStartsEndingWith, KindSoundsLike, KindSpeltLike, KindSuggest,
}

// KindList renders Kinds as a comma separated list.
func KindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Lookup is one declared query. Missing selects the exact-length form of
// starts_with and starts_ending_with.
type Lookup struct {
	ID      string `json:"id" yaml:"id"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Word    string `json:"word" yaml:"word"`
	Start   string `json:"start" yaml:"start"`
	End     string `json:"end" yaml:"end"`
	Missing *int   `json:"missing" yaml:"missing"`
}

// Query converts l into the matching datamuse.Query.
func (l Lookup) Query() (datamuse.Query, error) {
	switch l.Kind {
	case KindSimilar:
		return datamuse.SimilarQuery(l.Word), nil
	case KindSimilarStartsWith:
		return datamuse.SimilarStartsWithQuery(l.Word, l.Start), nil
	case KindSimilarEndsWith:
		return datamuse.SimilarEndsWithQuery(l.Word, l.End), nil
	case KindStartsWith:
		if l.Missing != nil {
			return datamuse.StartsWithMissingQuery(l.Start, *l.Missing)
		}
		return datamuse.StartsWithQuery(l.Start), nil
	case KindStartsEndingWith:
		if l.Missing != nil {
			return datamuse.StartsEndsWithMissingQuery(l.Start, l.End, *l.Missing)
		}
		return datamuse.StartsEndsWithQuery(l.Start, l.End), nil
	case KindSoundsLike:
		return datamuse.SoundsLikeQuery(l.Word), nil
	case KindSpeltLike:
		return datamuse.SpeltLikeQuery(l.Word), nil
	case KindSuggest:
		return datamuse.SuggestQuery(l.Word), nil
	default:
		return datamuse.Query{}, fmt.Errorf("unsupported lookup kind %q (want one of: %s)", l.Kind, KindList())
	}
}

// Execute runs l against client.
func Execute(ctx context.Context, client *datamuse.Client, l Lookup) (*datamuse.Response, error) {
	if client == nil {
		return nil, fmt.Errorf("datamuse client is nil")
	}
	q, err := l.Query()
	if err != nil {
		return nil, err
	}
	return client.Do(ctx, q)
}

func sanitizeLookup(l Lookup, index int) Lookup {
	l.ID = strings.TrimSpace(l.ID)
	l.Kind = Kind(strings.ToLower(strings.TrimSpace(string(l.Kind))))
	l.Word = strings.TrimSpace(l.Word)
	l.Start = strings.TrimSpace(l.Start)
	l.End = strings.TrimSpace(l.End)
	if l.ID == "" {
		l.ID = fmt.Sprintf("%s-%d", l.Kind, index)
	}
	return l
}

// Validate checks that the fields l.Kind needs are present.
func (l Lookup) Validate() error {
	needWord := func() error {
		if l.Word == "" {
			return fmt.Errorf("word is required for %s lookup %q", l.Kind, l.ID)
		}
		return nil
	}
	needStart := func() error {
		if l.Start == "" {
			return fmt.Errorf("start is required for %s lookup %q", l.Kind, l.ID)
		}
		return nil
	}
	needEnd := func() error {
		if l.End == "" {
			return fmt.Errorf("end is required for %s lookup %q", l.Kind, l.ID)
		}
		return nil
	}

	if l.Missing != nil && *l.Missing < 0 {
		return fmt.Errorf("missing must not be negative for lookup %q", l.ID)
	}

	switch l.Kind {
	case KindSimilar, KindSoundsLike, KindSpeltLike, KindSuggest:
		return needWord()
	case KindSimilarStartsWith:
		if err := needWord(); err != nil {
			return err
		}
		return needStart()
	case KindSimilarEndsWith:
		if err := needWord(); err != nil {
			return err
		}
		return needEnd()
	case KindStartsWith:
		return needStart()
	case KindStartsEndingWith:
		if err := needStart(); err != nil {
			return err
		}
		return needEnd()
	case "":
		return fmt.Errorf("kind is required for lookup %q", l.ID)
	default:
		return fmt.Errorf("unsupported lookup kind %q (want one of: %s)", l.Kind, KindList())
	}
}
