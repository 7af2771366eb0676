package tools

import (
	"context"
	"fmt"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

const defaultPlacesLimit = 5

// PlacesSearch finds points of interest near a location. Results land in
// context.places.results, which later steps and turns address by ordinal
// ("the second one") or placeholder path.
type PlacesSearch struct {
	Provider ports.PlacesProvider
}

type placesParams struct {
	Query string          `mapstructure:"query"`
	Near  domain.Location `mapstructure:"near"`
	Limit int             `mapstructure:"limit"`
}

func (s *PlacesSearch) Name() string { return "PlacesSearch" }

func (s *PlacesSearch) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p placesParams
	if err := decodeArgs(s.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if p.Query == "" {
		return domain.Result{}, domain.NewToolError(s.Name(), domain.FailureInvalidArgs, "query is required")
	}
	if !p.Near.Resolved() {
		return domain.Result{}, domain.NewToolError(s.Name(), domain.FailureInvalidArgs,
			"near location with lat/lng is required")
	}
	if p.Limit <= 0 {
		p.Limit = defaultPlacesLimit
	}

	places, err := s.Provider.SearchPlaces(ctx, p.Query, p.Near, p.Limit)
	if err != nil {
		return domain.Result{}, err
	}
	if len(places) == 0 {
		return domain.Result{}, domain.NewToolError(s.Name(), domain.FailureNotFound,
			"no places matching %q near %s", p.Query, p.Near.Name)
	}

	results := make([]any, len(places))
	for i, place := range places {
		results[i] = placeDoc(place)
	}
	return domain.Result{
		Patch: domain.Patch{"context": map[string]any{
			"places": map[string]any{"query": p.Query, "results": results},
		}},
		Evidence: map[string]any{"query": p.Query, "results": results},
		Snippet:  fmt.Sprintf("found %d places for %q", len(places), p.Query),
	}, nil
}

// PlaceDetails fetches one place by its identifier.
type PlaceDetails struct {
	Provider ports.PlacesProvider
}

type placeDetailsParams struct {
	PlaceID string `mapstructure:"placeId"`
}

func (d *PlaceDetails) Name() string { return "PlaceDetails" }

func (d *PlaceDetails) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p placeDetailsParams
	if err := decodeArgs(d.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if p.PlaceID == "" {
		return domain.Result{}, domain.NewToolError(d.Name(), domain.FailureInvalidArgs, "placeId is required")
	}

	place, err := d.Provider.PlaceDetails(ctx, p.PlaceID)
	if err != nil {
		return domain.Result{}, err
	}

	doc := placeDoc(place)
	return domain.Result{
		Patch:    domain.Patch{"context": map[string]any{"placeDetails": doc}},
		Evidence: map[string]any{"place": doc},
		Snippet:  fmt.Sprintf("details for %s", place.Name),
	}, nil
}

func placeDoc(p ports.Place) map[string]any {
	doc := map[string]any{
		"placeId": p.PlaceID,
		"name":    p.Name,
		"address": p.Address,
		"lat":     p.Lat,
		"lng":     p.Lng,
	}
	if p.Distance != "" {
		doc["distance"] = p.Distance
	}
	if p.Rating != 0 {
		doc["rating"] = p.Rating
	}
	return doc
}
