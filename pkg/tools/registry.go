// Package tools provides the capability registry and the invoker, the
// typed-failure boundary between the plan executor and the operations it
// calls, plus the built-in travel capabilities.
package tools

import (
	"sort"
	"strings"

	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Registry maps action names to capabilities. Lookups are
// case-insensitive and follow the alias table, so plans may say "Places",
// "POISearch" or "FindNearestPOI" and still reach PlacesSearch.
type Registry struct {
	caps    map[string]ports.Capability
	aliases map[string]string
}

// NewRegistry builds an empty registry with the default alias table.
func NewRegistry() *Registry {
	return &Registry{
		caps: make(map[string]ports.Capability),
		aliases: map[string]string{
			"places":         "placessearch",
			"poisearch":      "placessearch",
			"findnearestpoi": "placessearch",
		},
	}
}

// Register adds a capability under its name, replacing any previous
// registration.
func (r *Registry) Register(c ports.Capability) {
	r.caps[strings.ToLower(c.Name())] = c
}

// Alias maps an alternate action name onto a canonical capability name.
func (r *Registry) Alias(alias, canonical string) {
	r.aliases[strings.ToLower(alias)] = strings.ToLower(canonical)
}

// Lookup resolves an action name to its capability.
func (r *Registry) Lookup(action string) (ports.Capability, bool) {
	key := strings.ToLower(strings.TrimSpace(action))
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	c, ok := r.caps[key]
	return c, ok
}

// Names lists the canonical capability names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for _, c := range r.caps {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}
