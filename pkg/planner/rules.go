// Package planner provides the built-in deterministic planner. It turns a
// query into a plan with keyword rules, which keeps the assistant usable
// without an LLM and gives the runtime a planner with predictable output.
// An LLM-backed planner plugs in through ports.Planner.
package planner

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ref"
)

// Rules is the keyword planner.
type Rules struct{}

// NewRules builds the keyword planner.
func NewRules() *Rules { return &Rules{} }

var (
	weatherCityPattern   = regexp.MustCompile(`(?i)(?:weather|forecast|temperature)\s+(?:in|at|for)\s+(.+?)[\s?.!]*$`)
	fromToPattern        = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+?)[\s?.!]*$`)
	toOnlyPattern        = regexp.MustCompile(`(?i)(?:directions|route|get|go|way)\s+to\s+(?:the\s+)?(.+?)[\s?.!]*$`)
	placesPattern        = regexp.MustCompile(`(?i)(?:nearest|closest|find(?:\s+me)?|nearby)\s+(?:a\s+|some\s+)?(.+?)(?:\s+near\s+me)?[\s?.!]*$`)
	whereAmIPattern      = regexp.MustCompile(`(?i)where\s+am\s+i|my\s+(?:current\s+)?location`)
	trailingNoise        = regexp.MustCompile(`(?i)\s+(?:please|right now|now|today)$`)
	conjunctionSplitting = regexp.MustCompile(`(?i)\s*(?:,|\band\b)\s*`)
)

// Plan builds the step list for a query.
func (r *Rules) Plan(_ context.Context, query string, state *domain.WorldState) (domain.Plan, error) {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)

	var steps []domain.Step
	switch {
	case whereAmIPattern.MatchString(lower):
		steps = whereAmISteps()
	case strings.Contains(lower, "weather") || strings.Contains(lower, "forecast") || strings.Contains(lower, "temperature"):
		steps = weatherSteps(q, state.Units())
	case fromToPattern.MatchString(lower) || toOnlyPattern.MatchString(lower):
		steps = directionsSteps(q, lower, state)
	case placesPattern.MatchString(lower):
		steps = placesSteps(q, state)
	}
	if len(steps) == 0 {
		steps = []domain.Step{conversationStep("s1", q)}
	}

	return domain.Plan{Steps: steps, Status: domain.PlanInProgress}, nil
}

// Replan substitutes a one-shot conversational fallback after a failure.
// If the failed plan already was the fallback there is nothing left to
// try, and the turn stops with its accumulated errors.
func (r *Rules) Replan(_ context.Context, state *domain.WorldState, _ error) (domain.Plan, error) {
	for _, step := range state.Plan().Steps {
		if strings.HasPrefix(step.ID, "fallback") {
			return domain.Plan{}, nil
		}
	}
	return domain.Plan{
		Steps:  []domain.Step{conversationStep("fallback-1", state.Query())},
		Status: domain.PlanInProgress,
	}, nil
}

func conversationStep(id, query string) domain.Step {
	return domain.Step{ID: id, Action: "Conversation", Args: map[string]any{"query": query}}
}

func whereAmISteps() []domain.Step {
	return []domain.Step{
		{ID: "s1", Action: "Geolocate", Args: map[string]any{"slot": domain.SlotOrigin}},
		{ID: "s2", Action: "ReverseGeocode", Args: map[string]any{"location": domain.SlotOrigin}},
	}
}

// weatherSteps emits a geocode+weather pair per named city, so a
// multi-city question keeps every answer. Without a named city it reports
// the weather where the user is.
func weatherSteps(query, units string) []domain.Step {
	m := weatherCityPattern.FindStringSubmatch(query)
	if m == nil {
		return []domain.Step{
			{ID: "s1", Action: "Geolocate", Args: map[string]any{"slot": domain.SlotOrigin}},
			{ID: "s2", Action: "Weather", Args: map[string]any{
				"location": domain.SlotOrigin, "label": "here", "units": units,
			}},
		}
	}

	var steps []domain.Step
	for _, city := range splitCities(m[1]) {
		n := len(steps)
		steps = append(steps,
			domain.Step{
				ID:     fmt.Sprintf("s%d", n+1),
				Action: "Geocode",
				Args:   map[string]any{"address": city, "slot": domain.SlotDestination},
			},
			domain.Step{
				ID:     fmt.Sprintf("s%d", n+2),
				Action: "Weather",
				Args: map[string]any{
					"location": domain.SlotDestination, "label": city, "units": units,
				},
			},
		)
	}
	return steps
}

func splitCities(phrase string) []string {
	phrase = trailingNoise.ReplaceAllString(strings.TrimSpace(phrase), "")
	parts := conjunctionSplitting.Split(phrase, -1)
	cities := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cities = append(cities, p)
		}
	}
	return cities
}

// directionsSteps resolves both endpoints and routes between them. A
// destination phrased as an ordinal ("the second one") routes to a prior
// places result instead of geocoding.
func directionsSteps(query, lower string, state *domain.WorldState) []domain.Step {
	var originPhrase, destPhrase string
	if m := fromToPattern.FindStringSubmatch(query); m != nil {
		originPhrase, destPhrase = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	} else if m := toOnlyPattern.FindStringSubmatch(query); m != nil {
		destPhrase = strings.TrimSpace(m[1])
	}
	if destPhrase == "" {
		return nil
	}

	var steps []domain.Step
	addStep := func(action string, args map[string]any) {
		steps = append(steps, domain.Step{
			ID:     fmt.Sprintf("s%d", len(steps)+1),
			Action: action,
			Args:   args,
		})
	}

	switch {
	case originPhrase != "":
		addStep("Geocode", map[string]any{"address": originPhrase, "slot": domain.SlotOrigin})
	case !state.Slots().Origin.Resolved():
		addStep("Geolocate", map[string]any{"slot": domain.SlotOrigin})
	}

	destArg := any(domain.SlotDestination)
	if parsed, ok := ref.Parse(destPhrase); ok && parsed.Kind == ref.KindOrdinal {
		// Route straight to the prior result; no geocoding involved.
		destArg = destPhrase
	} else {
		addStep("Geocode", map[string]any{"address": destPhrase, "slot": domain.SlotDestination})
	}

	addStep("Directions", map[string]any{
		"origin":      domain.SlotOrigin,
		"destination": destArg,
		"mode":        travelMode(lower),
	})
	return steps
}

func travelMode(lower string) string {
	switch {
	case strings.Contains(lower, "walk"):
		return "walking"
	case strings.Contains(lower, "transit"), strings.Contains(lower, "train"), strings.Contains(lower, "bus"):
		return "transit"
	}
	return "driving"
}

// placesSteps locates the user, then searches around them.
func placesSteps(query string, state *domain.WorldState) []domain.Step {
	m := placesPattern.FindStringSubmatch(query)
	if m == nil {
		return nil
	}
	term := strings.TrimSpace(m[1])
	if term == "" {
		return nil
	}

	var steps []domain.Step
	near := domain.SlotOrigin
	if !state.Slots().Origin.Resolved() {
		steps = append(steps, domain.Step{
			ID: "s1", Action: "Geolocate", Args: map[string]any{"slot": domain.SlotOrigin},
		})
	}
	steps = append(steps, domain.Step{
		ID:     fmt.Sprintf("s%d", len(steps)+1),
		Action: "PlacesSearch",
		Args:   map[string]any{"query": term, "near": near},
	})
	return steps
}
