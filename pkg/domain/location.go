package domain

// Location is the structured place value carried in a slot: a display name,
// coordinates, and an optional vendor place identifier. Lat/Lng are pointers
// because "unknown" is distinct from zero (0,0 is a real coordinate).
type Location struct {
	Name    string   `json:"name,omitempty" mapstructure:"name"`
	Lat     *float64 `json:"lat" mapstructure:"lat"`
	Lng     *float64 `json:"lng" mapstructure:"lng"`
	PlaceID string   `json:"placeId,omitempty" mapstructure:"placeId"`
}

// NewLocation builds a fully resolved location.
func NewLocation(name string, lat, lng float64) Location {
	return Location{Name: name, Lat: &lat, Lng: &lng}
}

// Resolved reports whether the location carries usable coordinates.
func (l Location) Resolved() bool {
	return l.Lat != nil && l.Lng != nil
}

// Document renders the location as a patch fragment.
func (l Location) Document() map[string]any {
	doc := map[string]any{"name": l.Name}
	if l.Lat != nil {
		doc["lat"] = *l.Lat
	}
	if l.Lng != nil {
		doc["lng"] = *l.Lng
	}
	if l.PlaceID != "" {
		doc["placeId"] = l.PlaceID
	}
	return doc
}

// Slots is the typed view of the slots branch of a WorldState.
type Slots struct {
	Origin        Location `json:"origin" mapstructure:"origin"`
	Destination   Location `json:"destination" mapstructure:"destination"`
	DepartureTime string   `json:"departureTime,omitempty" mapstructure:"departureTime"`
	ModePrefs     []string `json:"modePrefs,omitempty" mapstructure:"modePrefs"`
}

// Slot returns the named slot location. Unknown names return a zero Location.
func (s Slots) Slot(name string) Location {
	switch name {
	case SlotOrigin:
		return s.Origin
	case SlotDestination:
		return s.Destination
	}
	return Location{}
}

// Slot names with guarded merge semantics.
const (
	SlotOrigin      = "origin"
	SlotDestination = "destination"
)
