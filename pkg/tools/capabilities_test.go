package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

type stubGeocoder struct {
	byAddress map[string]domain.Location
}

func (g *stubGeocoder) Geocode(_ context.Context, address string) (domain.Location, error) {
	loc, ok := g.byAddress[address]
	if !ok {
		return domain.Location{}, domain.NewToolError("Geocode", domain.FailureNotFound, "%s not found", address)
	}
	return loc, nil
}

func (g *stubGeocoder) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return "1 Test St", nil
}

type stubWeather struct{}

func (stubWeather) CurrentWeather(_ context.Context, lat, lng float64, units string) (ports.WeatherReport, error) {
	return ports.WeatherReport{Location: "Somewhere", Summary: "sunny", Temperature: 75, Units: units}, nil
}

func TestGeocode_WritesRequestedSlot(t *testing.T) {
	g := &Geocode{Provider: &stubGeocoder{byAddress: map[string]domain.Location{
		"Miami": domain.NewLocation("Miami", 25.76, -80.19),
	}}}

	res, err := g.Run(context.Background(), map[string]any{"address": "Miami", "slot": "origin"})
	if err != nil {
		t.Fatal(err)
	}
	slots := res.Patch["slots"].(map[string]any)
	loc := slots["origin"].(map[string]any)
	if loc["name"] != "Miami" || loc["lat"] != 25.76 {
		t.Errorf("unexpected slot patch: %v", loc)
	}
	if got := g.WriteSlots(map[string]any{"slot": "origin"}); len(got) != 1 || got[0] != "origin" {
		t.Errorf("WriteSlots = %v", got)
	}
	if got := g.WriteSlots(nil); len(got) != 1 || got[0] != "destination" {
		t.Errorf("default WriteSlots = %v", got)
	}
}

func TestGeocode_ArgumentValidation(t *testing.T) {
	g := &Geocode{Provider: &stubGeocoder{}}

	for name, args := range map[string]map[string]any{
		"missing address": {"slot": "origin"},
		"bad slot":        {"address": "Miami", "slot": "waypoint"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := g.Run(context.Background(), args)
			var te *domain.ToolError
			if !errors.As(err, &te) || te.Kind != domain.FailureInvalidArgs {
				t.Errorf("want invalid_args, got %v", err)
			}
		})
	}
}

func TestGeocode_NotFoundPassesThrough(t *testing.T) {
	g := &Geocode{Provider: &stubGeocoder{byAddress: map[string]domain.Location{}}}
	_, err := g.Run(context.Background(), map[string]any{"address": "Nowhereville"})

	var te *domain.ToolError
	if !errors.As(err, &te) || te.Kind != domain.FailureNotFound {
		t.Fatalf("want not_found, got %v", err)
	}
}

func TestWeather_KeysResultByLabel(t *testing.T) {
	w := &Weather{Provider: stubWeather{}}

	res, err := w.Run(context.Background(), map[string]any{
		"location": map[string]any{"name": "Miami", "lat": 25.76, "lng": -80.19},
		"label":    "Miami",
	})
	if err != nil {
		t.Fatal(err)
	}
	ctxPatch := res.Patch["context"].(map[string]any)
	report, ok := ctxPatch["lastWeather_Miami"].(map[string]any)
	if !ok {
		t.Fatalf("no lastWeather_Miami key: %v", ctxPatch)
	}
	if report["summary"] != "sunny" {
		t.Errorf("report = %v", report)
	}
}

func TestWeather_LabelDefaultsToLocationName(t *testing.T) {
	w := &Weather{Provider: stubWeather{}}

	res, err := w.Run(context.Background(), map[string]any{
		"location": map[string]any{"name": "New York", "lat": 40.7, "lng": -74.0},
	})
	if err != nil {
		t.Fatal(err)
	}
	ctxPatch := res.Patch["context"].(map[string]any)
	if _, ok := ctxPatch["lastWeather_New_York"]; !ok {
		t.Errorf("spaces in label not normalized: %v", ctxPatch)
	}
}

func TestWeather_RequiresResolvedLocation(t *testing.T) {
	w := &Weather{Provider: stubWeather{}}
	_, err := w.Run(context.Background(), map[string]any{
		"location": map[string]any{"name": "Miami"},
	})
	var te *domain.ToolError
	if !errors.As(err, &te) || te.Kind != domain.FailureInvalidArgs {
		t.Fatalf("want invalid_args, got %v", err)
	}
}

func TestWeatherLabels(t *testing.T) {
	state := domain.NewWorldState("s1")
	state.Apply(domain.Patch{"context": map[string]any{
		"lastWeather_Miami":   map[string]any{"summary": "sunny"},
		"lastWeather_Orlando": map[string]any{"summary": "rain"},
		"places":              map[string]any{},
	}})

	labels := WeatherLabels(state)
	if len(labels) != 2 {
		t.Fatalf("labels = %v", labels)
	}
	seen := map[string]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	if !seen["Miami"] || !seen["Orlando"] {
		t.Errorf("labels = %v", labels)
	}
}
