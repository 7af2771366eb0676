package ports

import (
	"context"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// Provider ports wrap the external travel APIs the built-in capabilities
// call. Vendor HTTP clients implement these; the bundled offline adapter
// serves canned data so the assistant works without credentials.

// Geocoder turns free-text addresses into locations and back.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Locator estimates the user's current position (IP lookup, device GPS).
type Locator interface {
	Locate(ctx context.Context) (domain.Location, error)
}

// WeatherReport is one location's current conditions.
type WeatherReport struct {
	Location    string  `json:"location" mapstructure:"location"`
	Summary     string  `json:"summary" mapstructure:"summary"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	Units       string  `json:"units" mapstructure:"units"`
	Humidity    int     `json:"humidity,omitempty" mapstructure:"humidity"`
}

// WeatherProvider reports current conditions at coordinates.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lng float64, units string) (WeatherReport, error)
}

// RouteRequest describes one directions lookup.
type RouteRequest struct {
	Origin        domain.Location
	Destination   domain.Location
	Mode          string // driving, walking, transit
	DepartureTime string
}

// RouteLeg is one instruction segment of a route.
type RouteLeg struct {
	Instruction string `json:"instruction" mapstructure:"instruction"`
	Distance    string `json:"distance" mapstructure:"distance"`
	Duration    string `json:"duration" mapstructure:"duration"`
}

// Route is a computed route between two locations.
type Route struct {
	Summary  string     `json:"summary" mapstructure:"summary"`
	Distance string     `json:"distance" mapstructure:"distance"`
	Duration string     `json:"duration" mapstructure:"duration"`
	Mode     string     `json:"mode" mapstructure:"mode"`
	Legs     []RouteLeg `json:"legs" mapstructure:"legs"`
}

// DirectionsProvider computes routes.
type DirectionsProvider interface {
	Directions(ctx context.Context, req RouteRequest) (Route, error)
}

// Place is one places-search hit.
type Place struct {
	PlaceID  string  `json:"placeId" mapstructure:"placeId"`
	Name     string  `json:"name" mapstructure:"name"`
	Address  string  `json:"address" mapstructure:"address"`
	Lat      float64 `json:"lat" mapstructure:"lat"`
	Lng      float64 `json:"lng" mapstructure:"lng"`
	Distance string  `json:"distance,omitempty" mapstructure:"distance"`
	Rating   float64 `json:"rating,omitempty" mapstructure:"rating"`
}

// PlacesProvider searches points of interest near a location.
type PlacesProvider interface {
	SearchPlaces(ctx context.Context, query string, near domain.Location, limit int) ([]Place, error)
	PlaceDetails(ctx context.Context, placeID string) (Place, error)
}

// Responder generates conversational replies for queries that need no tool
// calls. The LLM-backed implementation lives outside the core; the bundled
// one is a template responder.
type Responder interface {
	Reply(ctx context.Context, query string) (string, error)
}
