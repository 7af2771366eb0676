// Package offline implements every provider port with canned data, so the
// assistant answers end to end without vendor credentials. It doubles as
// the fixture set for the runtime tests.
package offline

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Providers bundles the offline implementations. The zero value is not
// usable; call New.
type Providers struct {
	Geocoder   *Gazetteer
	Locator    *FixedLocator
	Weather    *WeatherTable
	Directions *RouteEstimator
	Places     *PlacesCatalog
	Responder  *TemplateResponder
}

// New builds the full offline provider set.
func New() *Providers {
	gaz := NewGazetteer()
	return &Providers{
		Geocoder:   gaz,
		Locator:    &FixedLocator{Position: domain.NewLocation("New York", 40.7128, -74.0060)},
		Weather:    &WeatherTable{},
		Directions: &RouteEstimator{},
		Places:     NewPlacesCatalog(),
		Responder:  &TemplateResponder{},
	}
}

// Gazetteer geocodes against a fixed city table.
type Gazetteer struct {
	cities map[string]domain.Location
}

// NewGazetteer loads the built-in city table.
func NewGazetteer() *Gazetteer {
	cities := []domain.Location{
		domain.NewLocation("New York", 40.7128, -74.0060),
		domain.NewLocation("Miami", 25.7617, -80.1918),
		domain.NewLocation("Orlando", 28.5384, -81.3789),
		domain.NewLocation("Boston", 42.3601, -71.0589),
		domain.NewLocation("Chicago", 41.8781, -87.6298),
		domain.NewLocation("San Francisco", 37.7749, -122.4194),
		domain.NewLocation("Los Angeles", 34.0522, -118.2437),
		domain.NewLocation("Seattle", 47.6062, -122.3321),
		domain.NewLocation("Austin", 30.2672, -97.7431),
		domain.NewLocation("Denver", 39.7392, -104.9903),
	}
	table := make(map[string]domain.Location, len(cities))
	for _, c := range cities {
		table[normalize(c.Name)] = c
	}
	return &Gazetteer{cities: table}
}

func (g *Gazetteer) Geocode(_ context.Context, address string) (domain.Location, error) {
	key := normalize(address)
	if loc, ok := g.cities[key]; ok {
		return loc, nil
	}
	// Tolerate trailing qualifiers like "Miami, FL" or "downtown Boston".
	for name, loc := range g.cities {
		if strings.Contains(key, name) {
			return loc, nil
		}
	}
	return domain.Location{}, domain.NewToolError("Geocode", domain.FailureNotFound, "%s not found", address)
}

func (g *Gazetteer) ReverseGeocode(_ context.Context, lat, lng float64) (string, error) {
	var best domain.Location
	bestDist := math.Inf(1)
	for _, loc := range g.cities {
		d := haversineKm(lat, lng, *loc.Lat, *loc.Lng)
		if d < bestDist {
			bestDist = d
			best = loc
		}
	}
	if bestDist > 500 {
		return "", domain.NewToolError("ReverseGeocode", domain.FailureNotFound,
			"no known address near %.4f,%.4f", lat, lng)
	}
	return fmt.Sprintf("%s city center", best.Name), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FixedLocator reports a configured position.
type FixedLocator struct {
	Position domain.Location
}

func (l *FixedLocator) Locate(context.Context) (domain.Location, error) {
	if !l.Position.Resolved() {
		return domain.Location{}, domain.NewToolError("Geolocate", domain.FailureUpstream,
			"current location is unavailable")
	}
	return l.Position, nil
}

// WeatherTable derives deterministic conditions from coordinates, so the
// same city always reports the same weather.
type WeatherTable struct{}

var summaries = []string{"clear skies", "partly cloudy", "light rain", "overcast", "sunny"}

func (WeatherTable) CurrentWeather(_ context.Context, lat, lng float64, units string) (ports.WeatherReport, error) {
	seed := int(math.Abs(lat*7+lng*13)) % len(summaries)
	temp := 55 + math.Mod(math.Abs(lat*3+lng*5), 40)
	if units == "metric" {
		temp = (temp - 32) * 5 / 9
	}
	return ports.WeatherReport{
		Location:    fmt.Sprintf("%.2f,%.2f", lat, lng),
		Summary:     summaries[seed],
		Temperature: math.Round(temp),
		Units:       units,
		Humidity:    40 + seed*10,
	}, nil
}

// RouteEstimator computes straight-line routes at mode speed.
type RouteEstimator struct{}

var modeSpeedKmh = map[string]float64{
	"driving": 80,
	"walking": 5,
	"transit": 40,
}

func (RouteEstimator) Directions(_ context.Context, req ports.RouteRequest) (ports.Route, error) {
	if !req.Origin.Resolved() || !req.Destination.Resolved() {
		return ports.Route{}, domain.NewToolError("Directions", domain.FailureInvalidArgs,
			"both endpoints need coordinates")
	}
	speed, ok := modeSpeedKmh[req.Mode]
	if !ok {
		speed = modeSpeedKmh["driving"]
	}

	km := haversineKm(*req.Origin.Lat, *req.Origin.Lng, *req.Destination.Lat, *req.Destination.Lng)
	hours := km / speed
	distance := fmt.Sprintf("%.0f km", km)
	duration := formatHours(hours)

	return ports.Route{
		Summary:  fmt.Sprintf("%s to %s", req.Origin.Name, req.Destination.Name),
		Distance: distance,
		Duration: duration,
		Mode:     req.Mode,
		Legs: []ports.RouteLeg{
			{Instruction: fmt.Sprintf("Head out from %s", req.Origin.Name), Distance: distance, Duration: duration},
			{Instruction: fmt.Sprintf("Arrive at %s", req.Destination.Name), Distance: "0 km", Duration: "0 min"},
		},
	}, nil
}

func formatHours(h float64) string {
	if h < 1 {
		return fmt.Sprintf("%.0f min", h*60)
	}
	return fmt.Sprintf("%.1f hours", h)
}

// PlacesCatalog fabricates points of interest near the search location and
// remembers them so PlaceDetails can answer later.
type PlacesCatalog struct {
	mu    sync.Mutex
	known map[string]ports.Place
}

func NewPlacesCatalog() *PlacesCatalog {
	return &PlacesCatalog{known: make(map[string]ports.Place)}
}

func (c *PlacesCatalog) SearchPlaces(_ context.Context, query string, near domain.Location, limit int) ([]ports.Place, error) {
	if !near.Resolved() {
		return nil, domain.NewToolError("PlacesSearch", domain.FailureInvalidArgs,
			"search location needs coordinates")
	}
	if limit <= 0 || limit > 10 {
		limit = 5
	}

	label := titleCase(query)
	places := make([]ports.Place, 0, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < limit; i++ {
		p := ports.Place{
			PlaceID:  fmt.Sprintf("offline-%s-%d", normalize(strings.ReplaceAll(query, " ", "-")), i+1),
			Name:     fmt.Sprintf("%s Spot #%d", label, i+1),
			Address:  fmt.Sprintf("%d Main St, %s", 100+i*10, near.Name),
			Lat:      *near.Lat + float64(i+1)*0.002,
			Lng:      *near.Lng - float64(i+1)*0.002,
			Distance: fmt.Sprintf("%.1f km", float64(i+1)*0.3),
			Rating:   4.8 - float64(i)*0.2,
		}
		c.known[p.PlaceID] = p
		places = append(places, p)
	}
	return places, nil
}

func (c *PlacesCatalog) PlaceDetails(_ context.Context, placeID string) (ports.Place, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.known[placeID]; ok {
		return p, nil
	}
	return ports.Place{}, domain.NewToolError("PlaceDetails", domain.FailureNotFound,
		"no place with id %s", placeID)
}

// TemplateResponder answers conversational queries from a small phrase
// table.
type TemplateResponder struct{}

func (TemplateResponder) Reply(_ context.Context, query string) (string, error) {
	q := normalize(query)
	switch {
	case q == "":
		return "What can I help you plan today?", nil
	case strings.Contains(q, "hello"), strings.Contains(q, "hi "), q == "hi", strings.Contains(q, "hey"):
		return "Hi! Ask me about weather, directions, or places nearby.", nil
	case strings.Contains(q, "thank"):
		return "Anytime. Safe travels!", nil
	case strings.Contains(q, "help"), strings.Contains(q, "what can you do"):
		return "I can check the weather, find places nearby, and get you directions. Try \"weather in Miami\" or \"nearest coffee\".", nil
	case strings.Contains(q, "bye"):
		return "Goodbye! Come back before your next trip.", nil
	}
	return "I'm best with travel questions: weather, directions, and places. What are you planning?", nil
}

func titleCase(s string) string {
	words := strings.Fields(normalize(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
