package ref

import (
	"fmt"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// Options tunes one resolution pass.
type Options struct {
	// WriteSlots names the slots the step itself produces. A bare
	// reference to a write-target slot passes through as the literal slot
	// name instead of being read (a geocode step names the slot it fills,
	// it does not read it).
	WriteSlots []string
}

func (o Options) writes(slot string) bool {
	for _, s := range o.WriteSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Resolve replaces every symbolic reference in args with its concrete value
// from the world state. Maps and slices are walked recursively; a string
// that is entirely one reference resolves to the referenced value with its
// native type, while embedded placeholders substitute as text. The input
// map is not mutated. Any failure is a *domain.UnresolvedReferenceError.
func Resolve(args map[string]any, state *domain.WorldState, opts Options) (map[string]any, error) {
	out, err := resolveMap(args, state, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func resolveMap(in map[string]any, state *domain.WorldState, opts Options) (map[string]any, error) {
	out := make(map[string]any, len(in))
	for k, v := range in {
		rv, err := resolveValue(v, state, opts)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}

func resolveValue(v any, state *domain.WorldState, opts Options) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		return resolveMap(val, state, opts)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			rv, err := resolveValue(elem, state, opts)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case string:
		return resolveString(val, state, opts)
	default:
		return v, nil
	}
}

func resolveString(s string, state *domain.WorldState, opts Options) (any, error) {
	if ref, ok := Parse(s); ok {
		return resolveReference(ref, state, opts)
	}
	if placeholderAny.MatchString(s) {
		return substitute(s, state)
	}
	return s, nil
}

func resolveReference(ref Reference, state *domain.WorldState, opts Options) (any, error) {
	switch ref.Kind {
	case KindSlot:
		if opts.writes(ref.Slot) {
			return ref.Raw, nil
		}
		loc := state.Slots().Slot(ref.Slot)
		if !loc.Resolved() {
			return nil, &domain.UnresolvedReferenceError{
				Ref:    ref.Raw,
				Reason: fmt.Sprintf("slot %q has no resolved location yet", ref.Slot),
			}
		}
		return loc.Document(), nil

	case KindPath:
		val, err := lookupPath(state.Document(), ref.Path)
		if err != nil {
			return nil, &domain.UnresolvedReferenceError{Ref: ref.Raw, Reason: err.Error()}
		}
		return val, nil

	case KindOrdinal:
		results := placesResults(state)
		if results == nil {
			if ref.BareDigit {
				// A plain number with no result list to index is
				// treated as a literal, not a dangling reference.
				return ref.Raw, nil
			}
			return nil, &domain.UnresolvedReferenceError{
				Ref:    ref.Raw,
				Reason: "no places results to select from",
			}
		}
		if ref.Index < 0 || ref.Index >= len(results) {
			return nil, &domain.UnresolvedReferenceError{
				Ref:    ref.Raw,
				Reason: fmt.Sprintf("position %d is out of range, only %d results", ref.Index+1, len(results)),
			}
		}
		return results[ref.Index], nil
	}
	return nil, &domain.UnresolvedReferenceError{Ref: ref.Raw, Reason: "unknown reference kind"}
}

// substitute expands placeholders embedded in a larger string, rendering
// each referenced value as text.
func substitute(s string, state *domain.WorldState) (any, error) {
	var failure error
	out := placeholderAny.ReplaceAllStringFunc(s, func(match string) string {
		if failure != nil {
			return match
		}
		ref, ok := Parse(match)
		if !ok || ref.Kind != KindPath {
			failure = &domain.UnresolvedReferenceError{Ref: match, Reason: "malformed placeholder"}
			return match
		}
		val, err := lookupPath(state.Document(), ref.Path)
		if err != nil {
			failure = &domain.UnresolvedReferenceError{Ref: match, Reason: err.Error()}
			return match
		}
		return fmt.Sprint(val)
	})
	if failure != nil {
		return nil, failure
	}
	return out, nil
}

func lookupPath(doc map[string]any, path []Segment) (any, error) {
	var current any = doc
	for _, seg := range path {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%q is not a mapping", seg.Key)
		}
		val, ok := mapping[seg.Key]
		if !ok {
			return nil, fmt.Errorf("key %q not present in state", seg.Key)
		}
		if seg.HasIndex {
			list, ok := val.([]any)
			if !ok {
				return nil, fmt.Errorf("%q is not a list", seg.Key)
			}
			if seg.Index >= len(list) {
				return nil, fmt.Errorf("index %d out of range for %q, length %d", seg.Index, seg.Key, len(list))
			}
			val = list[seg.Index]
		}
		current = val
	}
	return current, nil
}

// placesResults returns the most recent places result list, or nil when no
// places search has run this session.
func placesResults(state *domain.WorldState) []any {
	raw, ok := state.ContextValue("places")
	if !ok {
		return nil
	}
	mapping, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	results, ok := mapping["results"].([]any)
	if !ok {
		return nil
	}
	return results
}
