package runtime

import (
	"context"
	"strings"
	"testing"

	"github.com/eliasvillacis/vaya/pkg/adapters/memory"
	"github.com/eliasvillacis/vaya/pkg/adapters/offline"
	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/planner"
	"github.com/eliasvillacis/vaya/pkg/ports"
	"github.com/eliasvillacis/vaya/pkg/synthesis"
	"github.com/eliasvillacis/vaya/pkg/tools"
)

// scriptedPlanner serves fixed plans, for scenarios where the keyword
// planner's replanning would get in the way.
type scriptedPlanner struct {
	plan    domain.Plan
	replans []domain.Plan
	asked   int
}

func (p *scriptedPlanner) Plan(context.Context, string, *domain.WorldState) (domain.Plan, error) {
	return p.plan, nil
}

func (p *scriptedPlanner) Replan(context.Context, *domain.WorldState, error) (domain.Plan, error) {
	p.asked++
	if len(p.replans) == 0 {
		return domain.Plan{}, nil
	}
	next := p.replans[0]
	if len(p.replans) > 1 {
		p.replans = p.replans[1:]
	}
	return next, nil
}

func offlineInvoker(t *testing.T) *tools.Invoker {
	t.Helper()
	providers := offline.New()
	reg := tools.NewRegistry()
	reg.Register(&tools.Geocode{Provider: providers.Geocoder})
	reg.Register(&tools.ReverseGeocode{Provider: providers.Geocoder})
	reg.Register(&tools.Geolocate{Provider: providers.Locator})
	reg.Register(&tools.Weather{Provider: providers.Weather})
	reg.Register(&tools.Directions{Provider: providers.Directions})
	reg.Register(&tools.PlacesSearch{Provider: providers.Places})
	reg.Register(&tools.PlaceDetails{Provider: providers.Places})
	reg.Register(&tools.Conversation{Provider: providers.Responder})
	return tools.NewInvoker(reg, nil, nil)
}

func newCoordinator(t *testing.T, p ports.Planner, store ports.MemoryStore) *Coordinator {
	t.Helper()
	if store == nil {
		store = memory.NewStore()
	}
	return NewCoordinator(Config{
		Store:       store,
		Planner:     p,
		Synthesizer: synthesis.NewTemplate(),
		Invoker:     offlineInvoker(t),
	})
}

func TestTurn_WeatherTwoCities(t *testing.T) {
	c := newCoordinator(t, planner.NewRules(), nil)

	result, err := c.Turn(context.Background(), "sess-a", "weather in Miami and Orlando")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != domain.PlanCompleted {
		t.Errorf("status = %s", result.Status)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors = %v", result.Errors)
	}
	// Both cities' reports are kept, keyed by label.
	if _, ok := result.State.ContextValue("lastWeather_Miami"); !ok {
		t.Error("Miami weather missing from context")
	}
	if _, ok := result.State.ContextValue("lastWeather_Orlando"); !ok {
		t.Error("Orlando weather missing from context")
	}
	if !strings.Contains(result.Response, "Miami") || !strings.Contains(result.Response, "Orlando") {
		t.Errorf("response = %q", result.Response)
	}
}

func TestTurn_GeocodeFailureNoReplan(t *testing.T) {
	p := &scriptedPlanner{plan: domain.Plan{
		Status: domain.PlanInProgress,
		Steps: []domain.Step{{
			ID:     "s1",
			Action: "Geocode",
			Args:   map[string]any{"address": "Nowhereville", "slot": "destination"},
		}},
	}}
	c := newCoordinator(t, p, nil)

	result, err := c.Turn(context.Background(), "sess-b", "weather in Nowhereville")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != domain.PlanFailed {
		t.Errorf("status = %s", result.Status)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Nowhereville not found") {
		t.Errorf("errors = %v", result.Errors)
	}
	if result.State.Slots().Destination.Resolved() {
		t.Error("destination slot set despite geocode failure")
	}
	if !strings.Contains(result.Response, "Nowhereville not found") {
		t.Errorf("response hides the failure: %q", result.Response)
	}
	if p.asked != 1 {
		t.Errorf("replan asked %d times", p.asked)
	}
}

func TestTurn_ChainedOrdinalAcrossTurns(t *testing.T) {
	store := memory.NewStore()
	c := newCoordinator(t, planner.NewRules(), store)
	ctx := context.Background()

	first, err := c.Turn(ctx, "sess-c", "nearest coffee near me")
	if err != nil {
		t.Fatal(err)
	}
	if first.Status != domain.PlanCompleted || len(first.Errors) != 0 {
		t.Fatalf("first turn: status=%s errors=%v", first.Status, first.Errors)
	}

	second, err := c.Turn(ctx, "sess-c", "directions to the second one")
	if err != nil {
		t.Fatal(err)
	}
	if second.Status != domain.PlanCompleted {
		t.Errorf("second turn status = %s", second.Status)
	}
	if len(second.Errors) != 0 {
		t.Errorf("second turn errors = %v", second.Errors)
	}
	raw, ok := second.State.ContextValue("directions")
	if !ok {
		t.Fatal("no directions in context")
	}
	route := raw.(map[string]any)
	if dest, _ := route["destination"].(string); !strings.Contains(dest, "#2") {
		t.Errorf("route destination = %q, want the second place", dest)
	}
}

func TestTurn_ReplanFallbackAnswers(t *testing.T) {
	c := newCoordinator(t, planner.NewRules(), nil)

	// Atlantis is not in the gazetteer; the keyword planner's replan
	// substitutes a conversational fallback.
	result, err := c.Turn(context.Background(), "sess-d", "weather in Atlantis")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != domain.PlanCompleted {
		t.Errorf("status = %s", result.Status)
	}
	if len(result.Errors) == 0 {
		t.Error("original failure missing from errors")
	}
	if result.Response == "" {
		t.Error("no response after fallback")
	}
}

func TestTurn_PathologicalReplannerHitsCeiling(t *testing.T) {
	// Always replans the same unresolvable step under a fresh id, which
	// must run into the step ceiling rather than loop forever.
	doomed := func(id string) domain.Plan {
		return domain.Plan{
			Status: domain.PlanInProgress,
			Steps: []domain.Step{{
				ID:     id,
				Action: "Weather",
				Args:   map[string]any{"location": "destination"},
			}},
		}
	}
	p := &scriptedPlanner{
		plan:    doomed("d0"),
		replans: []domain.Plan{doomed("d1"), doomed("d2"), doomed("d3"), doomed("d4"), doomed("d5")},
	}
	store := memory.NewStore()
	c := NewCoordinator(Config{
		Store:       store,
		Planner:     p,
		Synthesizer: synthesis.NewTemplate(),
		Invoker:     offlineInvoker(t),
		MaxSteps:    4,
	})

	result, err := c.Turn(context.Background(), "sess-e", "doomed")
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != domain.PlanFailed {
		t.Errorf("status = %s", result.Status)
	}
	if len(result.Errors) == 0 {
		t.Error("ceiling left no errors")
	}
	if result.Response == "" {
		t.Error("failed turn produced no response")
	}
}

func TestTurn_ConversationPersistsAcrossTurns(t *testing.T) {
	store := memory.NewStore()
	c := newCoordinator(t, planner.NewRules(), store)
	ctx := context.Background()

	if _, err := c.Turn(ctx, "sess-f", "hello"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Turn(ctx, "sess-f", "thanks"); err != nil {
		t.Fatal(err)
	}

	snap, err := store.Load(ctx, "sess-f")
	if err != nil {
		t.Fatal(err)
	}
	msgs, _ := snap.Memory["messages"].([]any)
	// Two turns, a user and an assistant message each.
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	first := msgs[0].(map[string]any)
	if first["role"] != "user" || first["content"] != "hello" {
		t.Errorf("first message = %v", first)
	}
}
