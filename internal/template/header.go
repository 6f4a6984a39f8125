package template

import "fmt"

// HeaderValue is the tagged shape of one front-matter value: a scalar leaf or
// a nested mapping. Making the two cases explicit keeps the key comparison
// recursion exhaustive.
type HeaderValue interface {
	isHeaderValue()
}

// Leaf wraps a scalar header value. Leaf contents never take part in
// structural comparison; only their presence under a key matters.
type Leaf struct {
	Value any
}

// Mapping is a nested header dictionary.
type Mapping struct {
	Entries map[string]HeaderValue
}

func (Leaf) isHeaderValue()    {}
func (Mapping) isHeaderValue() {}

// NormalizeHeader converts a decoded front-matter map into the tagged
// representation.
func NormalizeHeader(header map[string]any) Mapping {
	entries := make(map[string]HeaderValue, len(header))
	for key, value := range header {
		entries[key] = normalizeHeaderValue(value)
	}
	return Mapping{Entries: entries}
}

func normalizeHeaderValue(value any) HeaderValue {
	switch typed := value.(type) {
	case map[string]any:
		return NormalizeHeader(typed)
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for k, v := range typed {
			converted[fmt.Sprintf("%v", k)] = v
		}
		return NormalizeHeader(converted)
	default:
		return Leaf{Value: value}
	}
}

// CompareKeys reports whether candidate preserves template's key structure:
// identical key counts at every nesting level, every template key present,
// and mappings staying mappings. Leaf values are never compared.
func CompareKeys(template, candidate Mapping) bool {
	if len(template.Entries) != len(candidate.Entries) {
		return false
	}
	for key, templateValue := range template.Entries {
		candidateValue, ok := candidate.Entries[key]
		if !ok {
			return false
		}
		templateMapping, templateIsMapping := templateValue.(Mapping)
		if !templateIsMapping {
			continue
		}
		candidateMapping, candidateIsMapping := candidateValue.(Mapping)
		if !candidateIsMapping {
			return false
		}
		if !CompareKeys(templateMapping, candidateMapping) {
			return false
		}
	}
	return true
}
