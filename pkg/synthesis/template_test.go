package synthesis

import (
	"context"
	"strings"
	"testing"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

func synthesize(t *testing.T, state *domain.WorldState) string {
	t.Helper()
	out, err := NewTemplate().Synthesize(context.Background(), state)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestSynthesize_WeatherPerCity(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"lastWeather_Miami":   map[string]any{"summary": "sunny", "temperature": 85.0, "units": "imperial"},
		"lastWeather_Orlando": map[string]any{"summary": "light rain", "temperature": 78.0, "units": "imperial"},
	}})
	state.SetPlanStatus(domain.PlanCompleted)

	out := synthesize(t, state)
	if !strings.Contains(out, "Miami") || !strings.Contains(out, "sunny") || !strings.Contains(out, "85°F") {
		t.Errorf("missing Miami line: %q", out)
	}
	if !strings.Contains(out, "Orlando") || !strings.Contains(out, "78°F") {
		t.Errorf("missing Orlando line: %q", out)
	}
}

func TestSynthesize_PlacesNumberedList(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"places": map[string]any{
			"query": "coffee",
			"results": []any{
				map[string]any{"name": "Cafe A", "address": "100 Main St", "distance": "0.3 km"},
				map[string]any{"name": "Cafe B", "address": "110 Main St", "distance": "0.6 km"},
			},
		},
	}})
	state.SetPlanStatus(domain.PlanCompleted)

	out := synthesize(t, state)
	if !strings.Contains(out, "1. Cafe A, 100 Main St (0.3 km)") {
		t.Errorf("missing first entry: %q", out)
	}
	if !strings.Contains(out, "2. Cafe B") {
		t.Errorf("missing second entry: %q", out)
	}
}

func TestSynthesize_Directions(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"directions": map[string]any{
			"summary":  "Miami to Orlando",
			"mode":     "driving",
			"distance": "320 km",
			"duration": "4.0 hours",
			"legs": []any{
				map[string]any{"instruction": "Head out from Miami", "distance": "320 km", "duration": "4.0 hours"},
			},
		},
	}})
	state.SetPlanStatus(domain.PlanCompleted)

	out := synthesize(t, state)
	if !strings.Contains(out, "Miami to Orlando") || !strings.Contains(out, "320 km") {
		t.Errorf("missing route summary: %q", out)
	}
	if !strings.Contains(out, "Head out from Miami") {
		t.Errorf("missing leg: %q", out)
	}
}

func TestSynthesize_FailureApologyFromErrors(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.AddError("Nowhereville not found")
	state.SetPlanStatus(domain.PlanFailed)

	out := synthesize(t, state)
	if !strings.Contains(out, "Nowhereville not found") {
		t.Errorf("apology does not surface the error: %q", out)
	}
}

func TestSynthesize_FailureKeepsPartialResults(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"lastWeather_Miami": map[string]any{"summary": "sunny", "temperature": 85.0, "units": "imperial"},
	}})
	state.AddError("Orlandoo not found")
	state.SetPlanStatus(domain.PlanFailed)

	out := synthesize(t, state)
	if !strings.Contains(out, "Orlandoo not found") {
		t.Errorf("missing error: %q", out)
	}
	if !strings.Contains(out, "Miami") {
		t.Errorf("partial weather dropped: %q", out)
	}
}

func TestSynthesize_ConversationPassthrough(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"conversation": map[string]any{"reply": "Hi! Ask me about weather."},
	}})
	state.SetPlanStatus(domain.PlanCompleted)

	if out := synthesize(t, state); out != "Hi! Ask me about weather." {
		t.Errorf("out = %q", out)
	}
}

func TestSynthesize_EmptyState(t *testing.T) {
	out := synthesize(t, domain.NewWorldState("s1"))
	if out == "" {
		t.Error("empty response for empty state")
	}
}
