package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// ParseDocument splits markdown source into its YAML front-matter header and
// body. Documents without a front-matter block yield an empty header and the
// source unchanged.
func ParseDocument(source []byte) (map[string]any, []byte, error) {
	header := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &header)
	if err != nil {
		return nil, nil, fmt.Errorf("markdown: parse front matter: %w", err)
	}
	return normalizeHeader(header), body, nil
}

// RenderHeader serializes a header mapping as a front-matter block, delimiters
// included. YAML map encoding orders keys deterministically, so repeated
// generate runs produce identical files.
func RenderHeader(header map[string]any) ([]byte, error) {
	if len(header) == 0 {
		return nil, nil
	}
	encoded, err := yaml.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("markdown: encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n\n")
	return buf.Bytes(), nil
}

// MergeHeaders overlays extra keys onto base without clobbering keys base
// already owns. Nested mappings merge recursively. Neither input is mutated.
func MergeHeaders(base, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range extra {
		current, exists := merged[key]
		if !exists {
			merged[key] = value
			continue
		}
		currentMap, currentOK := current.(map[string]any)
		valueMap, valueOK := value.(map[string]any)
		if currentOK && valueOK {
			merged[key] = MergeHeaders(currentMap, valueMap)
		}
	}
	return merged
}

// normalizeHeader rewrites any map[any]any values a YAML decoder may emit
// into map[string]any so downstream comparison sees one mapping shape.
func normalizeHeader(header map[string]any) map[string]any {
	out := make(map[string]any, len(header))
	for key, value := range header {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeHeader(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprintf("%v", k)] = normalizeValue(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeValue(v)
		}
		return out
	default:
		return value
	}
}
