package domain

// Patch is a sparse partial update with the same shape as the WorldState
// document. Any subset of branches may be present. An absent key means
// "no change"; an explicit nil value clears the field.
type Patch = map[string]any

// Merge combines patch into base and returns a new document. Neither input
// is mutated, and the result shares no mutable structure with the patch.
//
// The rule is structural: when both sides hold a mapping, their keys merge
// recursively and keys present only in base survive untouched. Every other
// pairing (scalar, sequence, nil, or mismatched kinds) is resolved by the
// patch value replacing the base value wholesale. Sequences replace; they
// are never concatenated or merged element-wise.
//
// Merge is total over any pair of JSON-like values: a malformed patch that
// puts a scalar where a mapping was expected degrades to replacement, it
// never fails.
func Merge(base, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		merged[k] = v
	}
	for k, pv := range patch {
		bv, exists := merged[k]
		if !exists {
			merged[k] = cloneValue(pv)
			continue
		}
		bm, baseIsMap := bv.(map[string]any)
		pm, patchIsMap := pv.(map[string]any)
		if baseIsMap && patchIsMap {
			merged[k] = Merge(bm, pm)
			continue
		}
		merged[k] = cloneValue(pv)
	}
	return merged
}

// CloneDocument deep-copies a JSON-like document so the copy can be mutated
// without aliasing the original. Scalars are shared; maps and slices are not.
func CloneDocument(doc map[string]any) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneDocument(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
