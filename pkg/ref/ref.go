// Package ref implements the symbolic reference grammar used in plan step
// arguments: bare slot names ("origin", "destination"), placeholder paths
// into the world state document ("${context.places.results[0].placeId}"),
// and ordinal selections into the most recent places results ("second",
// "#2"). Strings are parsed once at the boundary into a typed Reference;
// execution logic never re-parses them.
package ref

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// Kind discriminates the closed set of reference variants.
type Kind int

const (
	// KindSlot is a bare slot name resolving to its structured location.
	KindSlot Kind = iota
	// KindPath is a dotted path with optional [i] indexing, rooted at the
	// state document.
	KindPath
	// KindOrdinal is a 1-based position into the most recent places
	// result list.
	KindOrdinal
)

// Reference is a parsed symbolic argument value.
type Reference struct {
	Kind Kind
	Raw  string

	// Slot is the slot name for KindSlot.
	Slot string
	// Path holds the segments for KindPath.
	Path []Segment
	// Index is the zero-based list index for KindOrdinal.
	Index int
	// BareDigit marks an ordinal written as a plain number with no marker
	// ("2" rather than "#2" or "second"). Such strings are ambiguous, so
	// the resolver only treats them as ordinals when a result list exists.
	BareDigit bool
}

// Segment is one component of a placeholder path: a key, optionally
// followed by a list index.
type Segment struct {
	Key      string
	Index    int
	HasIndex bool
}

var (
	placeholderWhole = regexp.MustCompile(`^(?:\$\{([^{}]+)\}|\{\{([^{}]+)\}\})$`)
	// placeholderAny finds placeholders embedded inside larger strings.
	placeholderAny = regexp.MustCompile(`\$\{([^{}]+)\}|\{\{([^{}]+)\}\}`)
	segmentPattern = regexp.MustCompile(`^([^\[\]]+)(?:\[(\d+)\])?$`)
	hashOrdinal    = regexp.MustCompile(`^#(\d+)$`)
)

var ordinalWords = map[string]int{
	"first":  1,
	"second": 2,
	"third":  3,
	"fourth": 4,
	"fifth":  5,
}

// Parse recognizes a whole string as a reference. The second return is
// false for plain literals (including strings that merely contain an
// embedded placeholder; those are handled by the resolver's substitution
// pass).
func Parse(s string) (Reference, bool) {
	trimmed := strings.TrimSpace(s)

	switch trimmed {
	case domain.SlotOrigin, domain.SlotDestination:
		return Reference{Kind: KindSlot, Raw: trimmed, Slot: trimmed}, true
	}

	if m := placeholderWhole.FindStringSubmatch(trimmed); m != nil {
		expr := m[1]
		if expr == "" {
			expr = m[2]
		}
		path, err := parsePath(expr)
		if err != nil {
			return Reference{}, false
		}
		return Reference{Kind: KindPath, Raw: trimmed, Path: path}, true
	}

	if n, ok := parseOrdinal(trimmed); ok {
		return Reference{Kind: KindOrdinal, Raw: trimmed, Index: n - 1}, true
	}

	if n, err := strconv.Atoi(trimmed); err == nil && n >= 1 {
		return Reference{Kind: KindOrdinal, Raw: trimmed, Index: n - 1, BareDigit: true}, true
	}

	return Reference{}, false
}

func parseOrdinal(s string) (int, bool) {
	lower := strings.ToLower(s)
	lower = strings.TrimSuffix(lower, " one") // "the second one"
	lower = strings.TrimPrefix(lower, "the ")
	if n, ok := ordinalWords[lower]; ok {
		return n, true
	}
	if m := hashOrdinal.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func parsePath(expr string) ([]Segment, error) {
	parts := strings.Split(strings.TrimSpace(expr), ".")
	segs := make([]Segment, 0, len(parts))
	for _, part := range parts {
		m := segmentPattern.FindStringSubmatch(part)
		if m == nil || m[1] == "" {
			return nil, fmt.Errorf("malformed path segment %q", part)
		}
		seg := Segment{Key: m[1]}
		if m[2] != "" {
			idx, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("malformed index in segment %q", part)
			}
			seg.Index = idx
			seg.HasIndex = true
		}
		segs = append(segs, seg)
	}
	return segs, nil
}
