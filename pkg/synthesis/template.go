// Package synthesis renders the final world state into user-facing text.
// The Template synthesizer composes a markdown answer from whatever the
// turn produced, and still writes something helpful when all it has is the
// errors list. An LLM-backed synthesizer plugs in through
// ports.Synthesizer.
package synthesis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/tools"
)

// Template is the built-in synthesizer.
type Template struct{}

// NewTemplate builds the template synthesizer.
func NewTemplate() *Template { return &Template{} }

// Synthesize composes the response from the turn's results, one section
// per capability outcome.
func (t *Template) Synthesize(_ context.Context, state *domain.WorldState) (string, error) {
	var parts []string

	if reply := conversationReply(state); reply != "" {
		parts = append(parts, reply)
	}
	if section := weatherSection(state); section != "" {
		parts = append(parts, section)
	}
	if section := addressSection(state); section != "" {
		parts = append(parts, section)
	}
	if section := placesSection(state); section != "" {
		parts = append(parts, section)
	}
	if section := directionsSection(state); section != "" {
		parts = append(parts, section)
	}

	errs := state.Errors()
	if state.Plan().Status == domain.PlanFailed && len(errs) > 0 {
		apology := "Sorry, I couldn't finish that: " + errs[0]
		if len(parts) > 0 {
			apology += "\n\nHere's what I did find:"
			parts = append([]string{apology}, parts...)
		} else {
			parts = []string{apology}
		}
	}

	if len(parts) == 0 {
		return "I didn't find anything for that. I'm best with weather, directions, and places nearby.", nil
	}
	return strings.Join(parts, "\n\n"), nil
}

func conversationReply(state *domain.WorldState) string {
	conv, ok := contextMap(state, "conversation")
	if !ok {
		return ""
	}
	reply, _ := conv["reply"].(string)
	return reply
}

// weatherSection renders one line per city, in stable label order.
func weatherSection(state *domain.WorldState) string {
	labels := tools.WeatherLabels(state)
	if len(labels) == 0 {
		return ""
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for _, label := range labels {
		report, ok := contextMap(state, "lastWeather_"+label)
		if !ok {
			continue
		}
		city := strings.ReplaceAll(label, "_", " ")
		lines = append(lines, fmt.Sprintf("**%s**: %s, %s%s",
			city, str(report, "summary"), num(report, "temperature"), unitSuffix(str(report, "units"))))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func unitSuffix(units string) string {
	if units == "metric" {
		return "°C"
	}
	return "°F"
}

func addressSection(state *domain.WorldState) string {
	addr, ok := contextMap(state, "address")
	if !ok {
		return ""
	}
	formatted := str(addr, "formatted")
	if formatted == "" {
		return ""
	}
	return "You're near " + formatted + "."
}

func placesSection(state *domain.WorldState) string {
	places, ok := contextMap(state, "places")
	if !ok {
		return ""
	}
	results, _ := places["results"].([]any)
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here's what I found for %q:\n", str(places, "query"))
	for i, raw := range results {
		place, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%d. %s, %s", i+1, str(place, "name"), str(place, "address"))
		if d := str(place, "distance"); d != "" {
			fmt.Fprintf(&b, " (%s)", d)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func directionsSection(state *domain.WorldState) string {
	route, ok := contextMap(state, "directions")
	if !ok {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s): %s, about %s\n",
		str(route, "summary"), str(route, "mode"), str(route, "distance"), str(route, "duration"))
	legs, _ := route["legs"].([]any)
	for _, raw := range legs {
		leg, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s, %s)\n", str(leg, "instruction"), str(leg, "distance"), str(leg, "duration"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func contextMap(state *domain.WorldState, key string) (map[string]any, bool) {
	raw, ok := state.ContextValue(key)
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	return m, ok
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case float64:
		return fmt.Sprintf("%.0f", v)
	case int:
		return fmt.Sprintf("%d", v)
	}
	return "?"
}
