package planner

import (
	"context"
	"testing"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

func plan(t *testing.T, query string, state *domain.WorldState) domain.Plan {
	t.Helper()
	if state == nil {
		state = domain.NewWorldState("test")
	}
	p, err := NewRules().Plan(context.Background(), query, state)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func actions(p domain.Plan) []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Action
	}
	return out
}

func assertActions(t *testing.T, p domain.Plan, want ...string) {
	t.Helper()
	got := actions(p)
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}
}

func TestPlan_WeatherMultiCity(t *testing.T) {
	p := plan(t, "weather in Miami and Orlando", nil)
	assertActions(t, p, "Geocode", "Weather", "Geocode", "Weather")

	if p.Steps[0].Args["address"] != "Miami" || p.Steps[2].Args["address"] != "Orlando" {
		t.Errorf("cities split wrong: %v, %v", p.Steps[0].Args, p.Steps[2].Args)
	}
	if p.Steps[1].Args["label"] != "Miami" || p.Steps[3].Args["label"] != "Orlando" {
		t.Errorf("labels wrong: %v, %v", p.Steps[1].Args, p.Steps[3].Args)
	}
	// Each weather step reads the slot its geocode just wrote.
	if p.Steps[1].Args["location"] != "destination" {
		t.Errorf("weather location arg = %v", p.Steps[1].Args["location"])
	}

	seen := map[string]bool{}
	for _, s := range p.Steps {
		if seen[s.ID] {
			t.Fatalf("duplicate step id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestPlan_WeatherWithoutCityUsesCurrentLocation(t *testing.T) {
	p := plan(t, "what's the weather?", nil)
	assertActions(t, p, "Geolocate", "Weather")
	if p.Steps[1].Args["location"] != "origin" {
		t.Errorf("location arg = %v", p.Steps[1].Args["location"])
	}
}

func TestPlan_DirectionsFromTo(t *testing.T) {
	p := plan(t, "directions from Miami to Orlando", nil)
	assertActions(t, p, "Geocode", "Geocode", "Directions")

	if p.Steps[0].Args["slot"] != "origin" || p.Steps[0].Args["address"] != "Miami" {
		t.Errorf("origin geocode args = %v", p.Steps[0].Args)
	}
	if p.Steps[1].Args["slot"] != "destination" || p.Steps[1].Args["address"] != "Orlando" {
		t.Errorf("destination geocode args = %v", p.Steps[1].Args)
	}
	if p.Steps[2].Args["mode"] != "driving" {
		t.Errorf("mode = %v", p.Steps[2].Args["mode"])
	}
}

func TestPlan_DirectionsToOnlyGeolocatesOrigin(t *testing.T) {
	p := plan(t, "how do I get to Boston by train", nil)
	assertActions(t, p, "Geolocate", "Geocode", "Directions")
	if p.Steps[2].Args["mode"] != "transit" {
		t.Errorf("mode = %v", p.Steps[2].Args["mode"])
	}
}

func TestPlan_DirectionsToOrdinalSkipsGeocode(t *testing.T) {
	state := domain.NewWorldState("test")
	state.Apply(domain.Patch{"slots": map[string]any{
		"origin": map[string]any{"name": "Home", "lat": 1.0, "lng": 2.0},
	}})

	p := plan(t, "directions to the second one", state)
	assertActions(t, p, "Directions")
	if p.Steps[0].Args["destination"] != "second one" {
		t.Errorf("destination arg = %v", p.Steps[0].Args["destination"])
	}
}

func TestPlan_NearestPlaces(t *testing.T) {
	p := plan(t, "nearest coffee near me", nil)
	assertActions(t, p, "Geolocate", "PlacesSearch")
	if p.Steps[1].Args["query"] != "coffee" {
		t.Errorf("query arg = %v", p.Steps[1].Args["query"])
	}
	if p.Steps[1].Args["near"] != "origin" {
		t.Errorf("near arg = %v", p.Steps[1].Args["near"])
	}
}

func TestPlan_WhereAmI(t *testing.T) {
	p := plan(t, "where am I?", nil)
	assertActions(t, p, "Geolocate", "ReverseGeocode")
}

func TestPlan_FallsBackToConversation(t *testing.T) {
	p := plan(t, "tell me a joke", nil)
	assertActions(t, p, "Conversation")
	if p.Steps[0].Args["query"] != "tell me a joke" {
		t.Errorf("query arg = %v", p.Steps[0].Args)
	}
}

func TestReplan_SubstitutesFallbackOnce(t *testing.T) {
	rules := NewRules()
	state := domain.NewWorldState("test")
	state.SetQuery("weather in Atlantis")
	state.SetPlan(domain.Plan{
		Status: domain.PlanFailed,
		Steps:  []domain.Step{{ID: "s1", Action: "Geocode", Args: map[string]any{"address": "Atlantis"}}},
	})

	next, err := rules.Replan(context.Background(), state, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertActions(t, next, "Conversation")

	// Once the fallback itself is the active plan, replanning stops.
	state.SetPlan(next)
	again, err := rules.Replan(context.Background(), state, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Empty() {
		t.Errorf("second replan should be empty, got %v", actions(again))
	}
}
