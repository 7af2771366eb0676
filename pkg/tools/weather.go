package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Weather looks up current conditions at a resolved location. Each result
// is keyed in context by label ("lastWeather_Miami"), so a multi-city
// query keeps every city's report instead of the last one clobbering the
// rest.
type Weather struct {
	Provider ports.WeatherProvider
}

type weatherParams struct {
	Location domain.Location `mapstructure:"location"`
	Label    string          `mapstructure:"label"`
	Units    string          `mapstructure:"units"`
}

func (w *Weather) Name() string { return "Weather" }

func (w *Weather) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p weatherParams
	if err := decodeArgs(w.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if !p.Location.Resolved() {
		return domain.Result{}, domain.NewToolError(w.Name(), domain.FailureInvalidArgs,
			"location with lat/lng is required")
	}
	if p.Units == "" {
		p.Units = "imperial"
	}
	label := p.Label
	if label == "" {
		label = p.Location.Name
	}
	label = strings.ReplaceAll(strings.TrimSpace(label), " ", "_")
	if label == "" {
		label = "here"
	}

	report, err := w.Provider.CurrentWeather(ctx, *p.Location.Lat, *p.Location.Lng, p.Units)
	if err != nil {
		return domain.Result{}, err
	}

	doc := map[string]any{
		"location":    report.Location,
		"summary":     report.Summary,
		"temperature": report.Temperature,
		"units":       report.Units,
		"humidity":    report.Humidity,
	}
	return domain.Result{
		Patch: domain.Patch{"context": map[string]any{
			weatherKey(label): doc,
		}},
		Evidence: map[string]any{"report": doc, "label": label},
		Snippet:  fmt.Sprintf("%s: %s, %.0f %s", report.Location, report.Summary, report.Temperature, report.Units),
	}, nil
}

// weatherKey builds the per-label context key for a weather report.
func weatherKey(label string) string {
	return "lastWeather_" + label
}

// WeatherLabels extracts the labels of every weather report present in the
// state, in no particular order. The synthesizer uses it to render one
// line per city.
func WeatherLabels(state *domain.WorldState) []string {
	var labels []string
	doc := state.Document()
	ctxDoc, _ := doc["context"].(map[string]any)
	for key := range ctxDoc {
		if label, ok := strings.CutPrefix(key, "lastWeather_"); ok {
			labels = append(labels, label)
		}
	}
	return labels
}
