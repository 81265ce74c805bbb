package lookups

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/datamuse-lookup/pkg/httpclient"
)

const (
	maxSeedBodyBytes = 1 << 20 // 1 MiB
	minSeedWordLen   = 3
)

// Seeder pulls candidate words out of an HTML page so they can be fed into lookups.
type Seeder struct {
	client  httpclient.Client
	headers map[string]string
}

// NewSeeder builds a Seeder over client (or the default resty client).
func NewSeeder(client httpclient.Client, headers map[string]string) *Seeder {
	if client == nil {
		client = httpclient.NewRestyClient(httpclient.Options{})
	}
	return &Seeder{client: client, headers: headers}
}

// Words returns up to limit distinct lowercase words from the visible text of pageURL,
// in order of first appearance. limit <= 0 means no limit.
func (s *Seeder) Words(ctx context.Context, pageURL string, limit int) ([]string, error) {
	resp, err := s.client.Get(ctx, pageURL, s.headers)
	if err != nil {
		return nil, fmt.Errorf("fetch seed page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("seed page returned status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxSeedBodyBytes {
		body = body[:maxSeedBodyBytes]
	}
	return extractWords(body, limit)
}

func extractWords(body []byte, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	seen := make(map[string]struct{})
	var words []string
	for _, field := range strings.FieldsFunc(text, func(r rune) bool { return !unicode.IsLetter(r) }) {
		w := strings.ToLower(field)
		if len([]rune(w)) < minSeedWordLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
		if limit > 0 && len(words) >= limit {
			break
		}
	}
	return words, nil
}

// SimilarLookups turns seed words into similar lookups with ids seed-<word>.
func SimilarLookups(words []string) []Lookup {
	out := make([]Lookup, 0, len(words))
	for _, w := range words {
		out = append(out, Lookup{ID: "seed-" + w, Kind: KindSimilar, Word: w})
	}
	return out
}
