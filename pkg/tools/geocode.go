package tools

import (
	"context"
	"fmt"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Geocode resolves a free-text address into a location and writes it into
// a slot (destination unless the plan says otherwise).
type Geocode struct {
	Provider ports.Geocoder
}

type geocodeParams struct {
	Address string `mapstructure:"address"`
	Slot    string `mapstructure:"slot"`
}

func (g *Geocode) Name() string { return "Geocode" }

// WriteSlots reports the slot this step fills, so the resolver leaves the
// slot-name argument alone.
func (g *Geocode) WriteSlots(args map[string]any) []string {
	slot, _ := args["slot"].(string)
	if slot == "" {
		slot = domain.SlotDestination
	}
	return []string{slot}
}

func (g *Geocode) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p geocodeParams
	if err := decodeArgs(g.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if p.Address == "" {
		return domain.Result{}, domain.NewToolError(g.Name(), domain.FailureInvalidArgs, "address is required")
	}
	slot, err := slotOrDefault(g.Name(), p.Slot, domain.SlotDestination)
	if err != nil {
		return domain.Result{}, err
	}

	loc, err := g.Provider.Geocode(ctx, p.Address)
	if err != nil {
		return domain.Result{}, err
	}

	doc := loc.Document()
	return domain.Result{
		Patch:    domain.Patch{"slots": map[string]any{slot: doc}},
		Evidence: map[string]any{"address": p.Address, "location": doc},
		Snippet:  fmt.Sprintf("geocoded %q to %s", p.Address, loc.Name),
	}, nil
}

// ReverseGeocode turns coordinates back into a readable address.
type ReverseGeocode struct {
	Provider ports.Geocoder
}

type reverseGeocodeParams struct {
	Location domain.Location `mapstructure:"location"`
}

func (g *ReverseGeocode) Name() string { return "ReverseGeocode" }

func (g *ReverseGeocode) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p reverseGeocodeParams
	if err := decodeArgs(g.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	if !p.Location.Resolved() {
		return domain.Result{}, domain.NewToolError(g.Name(), domain.FailureInvalidArgs,
			"location with lat/lng is required")
	}

	address, err := g.Provider.ReverseGeocode(ctx, *p.Location.Lat, *p.Location.Lng)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Patch: domain.Patch{"context": map[string]any{
			"address": map[string]any{
				"formatted": address,
				"lat":       *p.Location.Lat,
				"lng":       *p.Location.Lng,
			},
		}},
		Evidence: map[string]any{"formatted": address},
		Snippet:  fmt.Sprintf("near %s", address),
	}, nil
}

// Geolocate estimates the user's current position and writes it into a
// slot (origin unless the plan says otherwise).
type Geolocate struct {
	Provider ports.Locator
}

type geolocateParams struct {
	Slot string `mapstructure:"slot"`
}

func (g *Geolocate) Name() string { return "Geolocate" }

func (g *Geolocate) WriteSlots(args map[string]any) []string {
	slot, _ := args["slot"].(string)
	if slot == "" {
		slot = domain.SlotOrigin
	}
	return []string{slot}
}

func (g *Geolocate) Run(ctx context.Context, args map[string]any) (domain.Result, error) {
	var p geolocateParams
	if err := decodeArgs(g.Name(), args, &p); err != nil {
		return domain.Result{}, err
	}
	slot, err := slotOrDefault(g.Name(), p.Slot, domain.SlotOrigin)
	if err != nil {
		return domain.Result{}, err
	}

	loc, err := g.Provider.Locate(ctx)
	if err != nil {
		return domain.Result{}, err
	}

	doc := loc.Document()
	return domain.Result{
		Patch:    domain.Patch{"slots": map[string]any{slot: doc}},
		Evidence: map[string]any{"location": doc},
		Snippet:  fmt.Sprintf("located user at %s", loc.Name),
	}, nil
}
