package lookups

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type batchFile struct {
	Lookups []Lookup `json:"lookups" yaml:"lookups"`
}

// LoadBatch reads a YAML or JSON file with a top-level "lookups" list.
func LoadBatch(path string) ([]Lookup, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("lookups file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lookups file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read lookups file: %w", err)
	}

	return ParseBatch(raw, filepath.Ext(path))
}

// ParseBatch decodes, sanitizes and validates batch content. ext picks the decoder;
// an empty ext tries YAML then JSON.
func ParseBatch(data []byte, ext string) ([]Lookup, error) {
	bf, err := decodeBatch(data, ext)
	if err != nil {
		return nil, err
	}
	if len(bf.Lookups) == 0 {
		return nil, errors.New("lookups file contains no lookups entries")
	}

	seen := make(map[string]struct{}, len(bf.Lookups))
	out := make([]Lookup, 0, len(bf.Lookups))
	for i, l := range bf.Lookups {
		l = sanitizeLookup(l, i)
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("lookups[%d]: %w", i, err)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lookup id %q", l.ID)
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}

func decodeBatch(data []byte, ext string) (batchFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var bf batchFile
		if err := d.fn(data, &bf); err != nil {
			lastErr = fmt.Errorf("decode %s lookups: %w", d.name, err)
			continue
		}
		return bf, nil
	}
	if lastErr != nil {
		return batchFile{}, lastErr
	}
	return batchFile{}, errors.New("lookups file format not recognized (expected YAML or JSON)")
}
