package domain

import (
	"reflect"
	"testing"
)

func TestMerge_EmptyPatchIsNoOp(t *testing.T) {
	base := map[string]any{
		"a": 1,
		"b": map[string]any{"c": "x"},
		"d": []any{1, 2, 3},
	}
	got := Merge(base, map[string]any{})
	if !reflect.DeepEqual(got, base) {
		t.Errorf("empty patch changed the document: got %v, want %v", got, base)
	}
}

func TestMerge_PreservesUntouchedKeys(t *testing.T) {
	base := map[string]any{
		"keep":   "me",
		"nested": map[string]any{"keep": 1, "replace": 2},
	}
	got := Merge(base, map[string]any{
		"nested": map[string]any{"replace": 3},
	})

	if got["keep"] != "me" {
		t.Errorf("top-level key lost: %v", got["keep"])
	}
	nested := got["nested"].(map[string]any)
	if nested["keep"] != 1 {
		t.Errorf("nested sibling lost: %v", nested["keep"])
	}
	if nested["replace"] != 3 {
		t.Errorf("nested key not replaced: %v", nested["replace"])
	}
}

func TestMerge_ArraysReplaceWholesale(t *testing.T) {
	base := map[string]any{"a": []any{1, 2, 3}}
	got := Merge(base, map[string]any{"a": []any{9}})

	want := []any{9}
	if !reflect.DeepEqual(got["a"], want) {
		t.Errorf("got %v, want %v (arrays must replace, not splice)", got["a"], want)
	}
}

func TestMerge_ExplicitNilClears(t *testing.T) {
	base := map[string]any{"a": "value", "b": "other"}
	got := Merge(base, map[string]any{"a": nil})

	if v, present := got["a"]; !present || v != nil {
		t.Errorf("explicit nil should set the key to nil, got %v (present=%v)", v, present)
	}
	if got["b"] != "other" {
		t.Errorf("unrelated key changed: %v", got["b"])
	}
}

func TestMerge_ScalarOverMappingReplaces(t *testing.T) {
	// A malformed patch must degrade to replacement, never fail.
	base := map[string]any{"a": map[string]any{"deep": true}}
	got := Merge(base, map[string]any{"a": "flat"})
	if got["a"] != "flat" {
		t.Errorf("got %v, want scalar replacement", got["a"])
	}

	// And the mirror case: mapping over scalar.
	got = Merge(map[string]any{"a": "flat"}, map[string]any{"a": map[string]any{"deep": true}})
	if _, ok := got["a"].(map[string]any); !ok {
		t.Errorf("got %T, want mapping replacement", got["a"])
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"n": map[string]any{"a": 1}}
	patch := map[string]any{"n": map[string]any{"b": 2}}

	got := Merge(base, patch)

	if _, leaked := base["n"].(map[string]any)["b"]; leaked {
		t.Error("base was mutated by merge")
	}
	// Result must not alias patch structure.
	got["n"].(map[string]any)["b"] = 99
	if patch["n"].(map[string]any)["b"] != 2 {
		t.Error("merged document aliases the patch")
	}
}

func TestMerge_SequentialPatchesLastWinsPerKey(t *testing.T) {
	base := map[string]any{}
	p1 := map[string]any{"a": []any{1}, "b": "first"}
	p2 := map[string]any{"a": []any{2}}

	got := Merge(Merge(base, p1), p2)

	if !reflect.DeepEqual(got["a"], []any{2}) {
		t.Errorf("last patch should win for %q: %v", "a", got["a"])
	}
	if got["b"] != "first" {
		t.Errorf("earlier patch key lost: %v", got["b"])
	}
}

func TestCloneDocument_Isolation(t *testing.T) {
	doc := map[string]any{"m": map[string]any{"k": "v"}, "s": []any{1}}
	clone := CloneDocument(doc)

	clone["m"].(map[string]any)["k"] = "changed"
	clone["s"].([]any)[0] = 2

	if doc["m"].(map[string]any)["k"] != "v" {
		t.Error("clone shares nested map with original")
	}
	if doc["s"].([]any)[0] != 1 {
		t.Error("clone shares slice with original")
	}
}
