package tools

import (
	"context"
	"fmt"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Directions computes a route between two resolved locations.
type Directions struct {
	Provider ports.DirectionsProvider
}

type directionsParams struct {
	Origin        domain.Location `mapstructure:"origin"`
	Destination   domain.Location `mapstructure:"destination"`
	Mode          string          `mapstructure:"mode"`
	DepartureTime string          `mapstructure:"departureTime"`
}

func (d *Directions) Name() string { return "Directions" }

func (d *Directions) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p directionsParams
	if err := decodeArgs(d.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if !p.Origin.Resolved() {
		return domain.Result{}, domain.NewToolError(d.Name(), domain.FailureInvalidArgs,
			"origin with lat/lng is required")
	}
	if !p.Destination.Resolved() {
		return domain.Result{}, domain.NewToolError(d.Name(), domain.FailureInvalidArgs,
			"destination with lat/lng is required")
	}
	if p.Mode == "" {
		p.Mode = "driving"
	}

	route, err := d.Provider.Directions(ctx, ports.RouteRequest{
		Origin:        p.Origin,
		Destination:   p.Destination,
		Mode:          p.Mode,
		DepartureTime: p.DepartureTime,
	})
	if err != nil {
		return domain.Result{}, err
	}

	legs := make([]any, len(route.Legs))
	for i, leg := range route.Legs {
		legs[i] = map[string]any{
			"instruction": leg.Instruction,
			"distance":    leg.Distance,
			"duration":    leg.Duration,
		}
	}
	doc := map[string]any{
		"summary":     route.Summary,
		"distance":    route.Distance,
		"duration":    route.Duration,
		"mode":        route.Mode,
		"origin":      p.Origin.Name,
		"destination": p.Destination.Name,
		"legs":        legs,
	}
	return domain.Result{
		Patch:    domain.Patch{"context": map[string]any{"directions": doc}},
		Evidence: map[string]any{"route": doc},
		Snippet:  fmt.Sprintf("%s to %s: %s, %s", p.Origin.Name, p.Destination.Name, route.Distance, route.Duration),
	}, nil
}
