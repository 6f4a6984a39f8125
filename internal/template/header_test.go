package template

import "testing"

func compare(t *testing.T, template, candidate map[string]any) bool {
	t.Helper()
	return CompareKeys(NormalizeHeader(template), NormalizeHeader(candidate))
}

func TestCompareKeysIgnoresLeafValues(t *testing.T) {
	template := map[string]any{"a": 1, "b": map[string]any{"c": 2}}
	candidate := map[string]any{"a": 9, "b": map[string]any{"c": 7}}
	if !compare(t, template, candidate) {
		t.Fatalf("leaf values must not matter")
	}
}

func TestCompareKeysCountMismatch(t *testing.T) {
	if compare(t, map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}) {
		t.Fatalf("extra candidate key must fail")
	}
	if compare(t, map[string]any{"a": 1, "b": 2}, map[string]any{"a": 1}) {
		t.Fatalf("missing candidate key must fail")
	}
}

func TestCompareKeysMissingKey(t *testing.T) {
	if compare(t, map[string]any{"a": 1, "b": 2}, map[string]any{"a": 1, "c": 2}) {
		t.Fatalf("renamed key must fail")
	}
}

func TestCompareKeysTypeMismatch(t *testing.T) {
	if compare(t, map[string]any{"a": map[string]any{"c": 1}}, map[string]any{"a": 1}) {
		t.Fatalf("mapping flattened to leaf must fail")
	}
}

func TestCompareKeysLeafWhereTemplateExpectsNothing(t *testing.T) {
	// candidate may deepen a leaf into a mapping; only template mappings recurse
	if !compare(t, map[string]any{"a": 1}, map[string]any{"a": map[string]any{"x": 2}}) {
		t.Fatalf("candidate deepening a template leaf is tolerated")
	}
}

func TestCompareKeysNestedMismatch(t *testing.T) {
	template := map[string]any{"a": map[string]any{"b": 1, "c": 2}}
	candidate := map[string]any{"a": map[string]any{"b": 1}}
	if compare(t, template, candidate) {
		t.Fatalf("nested count mismatch must fail")
	}
}

func TestNormalizeHeaderLegacyMaps(t *testing.T) {
	raw := map[string]any{
		"outer": map[any]any{"inner": 1},
	}
	normalized := NormalizeHeader(raw)
	outer, ok := normalized.Entries["outer"].(Mapping)
	if !ok {
		t.Fatalf("map[any]any not normalized to Mapping: %#v", normalized.Entries["outer"])
	}
	if _, ok := outer.Entries["inner"]; !ok {
		t.Fatalf("nested key lost in normalization")
	}
}
