package vaya

import (
	"context"
	"log/slog"

	"github.com/eliasvillacis/vaya/internal/metrics"
	"github.com/eliasvillacis/vaya/internal/runtime"
	"github.com/eliasvillacis/vaya/pkg/adapters/memory"
	"github.com/eliasvillacis/vaya/pkg/adapters/offline"
	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/planner"
	"github.com/eliasvillacis/vaya/pkg/ports"
	"github.com/eliasvillacis/vaya/pkg/synthesis"
	"github.com/eliasvillacis/vaya/pkg/tools"
)

// Version is the release version of the assistant.
const Version = "0.3.0"

// Assistant is the high-level entry point. It wraps the internal runtime
// and provides a simplified API for consumers: one Ask call per user turn.
type Assistant struct {
	coordinator *runtime.Coordinator
	registry    *tools.Registry
	invoker     *tools.Invoker
	store       ports.MemoryStore
	metrics     *metrics.Set

	planner     ports.Planner
	synthesizer ports.Synthesizer
	providers   *offline.Providers
	logger      *slog.Logger

	maxSteps      int
	maxIterations int
	units         string

	geocoder   ports.Geocoder
	locator    ports.Locator
	weather    ports.WeatherProvider
	directions ports.DirectionsProvider
	places     ports.PlacesProvider
	responder  ports.Responder
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithStore selects the session store (default: in-memory).
func WithStore(store ports.MemoryStore) Option {
	return func(a *Assistant) { a.store = store }
}

// WithPlanner replaces the built-in keyword planner, typically with an
// LLM-backed one.
func WithPlanner(p ports.Planner) Option {
	return func(a *Assistant) { a.planner = p }
}

// WithSynthesizer replaces the built-in template synthesizer.
func WithSynthesizer(s ports.Synthesizer) Option {
	return func(a *Assistant) { a.synthesizer = s }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// WithMaxSteps bounds step invocations per turn.
func WithMaxSteps(n int) Option {
	return func(a *Assistant) { a.maxSteps = n }
}

// WithMaxIterations bounds replans per turn.
func WithMaxIterations(n int) Option {
	return func(a *Assistant) { a.maxIterations = n }
}

// WithUnits sets the default measurement system for new sessions,
// "imperial" or "metric".
func WithUnits(units string) Option {
	return func(a *Assistant) { a.units = units }
}

// WithGeocoder replaces the offline geocoder with a vendor client.
func WithGeocoder(g ports.Geocoder) Option {
	return func(a *Assistant) { a.geocoder = g }
}

// WithLocator replaces the offline locator.
func WithLocator(l ports.Locator) Option {
	return func(a *Assistant) { a.locator = l }
}

// WithWeatherProvider replaces the offline weather provider.
func WithWeatherProvider(w ports.WeatherProvider) Option {
	return func(a *Assistant) { a.weather = w }
}

// WithDirectionsProvider replaces the offline directions provider.
func WithDirectionsProvider(d ports.DirectionsProvider) Option {
	return func(a *Assistant) { a.directions = d }
}

// WithPlacesProvider replaces the offline places provider.
func WithPlacesProvider(p ports.PlacesProvider) Option {
	return func(a *Assistant) { a.places = p }
}

// WithResponder replaces the offline conversational responder.
func WithResponder(r ports.Responder) Option {
	return func(a *Assistant) { a.responder = r }
}

// New initializes an Assistant. With no options it runs fully offline:
// in-memory sessions, keyword planner, template synthesizer, and canned
// travel providers.
func New(opts ...Option) *Assistant {
	a := &Assistant{
		providers: offline.New(),
		metrics:   metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.store == nil {
		a.store = memory.NewStore()
	}
	if a.planner == nil {
		a.planner = planner.NewRules()
	}
	if a.synthesizer == nil {
		a.synthesizer = synthesis.NewTemplate()
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if a.geocoder == nil {
		a.geocoder = a.providers.Geocoder
	}
	if a.locator == nil {
		a.locator = a.providers.Locator
	}
	if a.weather == nil {
		a.weather = a.providers.Weather
	}
	if a.directions == nil {
		a.directions = a.providers.Directions
	}
	if a.places == nil {
		a.places = a.providers.Places
	}
	if a.responder == nil {
		a.responder = a.providers.Responder
	}

	a.registry = tools.NewRegistry()
	a.registry.Register(&tools.Geocode{Provider: a.geocoder})
	a.registry.Register(&tools.ReverseGeocode{Provider: a.geocoder})
	a.registry.Register(&tools.Geolocate{Provider: a.locator})
	a.registry.Register(&tools.Weather{Provider: a.weather})
	a.registry.Register(&tools.Directions{Provider: a.directions})
	a.registry.Register(&tools.PlacesSearch{Provider: a.places})
	a.registry.Register(&tools.PlaceDetails{Provider: a.places})
	a.registry.Register(&tools.Conversation{Provider: a.responder})

	a.invoker = tools.NewInvoker(a.registry, a.logger, a.metrics)
	a.coordinator = runtime.NewCoordinator(runtime.Config{
		Store:         a.store,
		Planner:       a.planner,
		Synthesizer:   a.synthesizer,
		Invoker:       a.invoker,
		Logger:        a.logger,
		Metrics:       a.metrics,
		MaxSteps:      a.maxSteps,
		MaxIterations: a.maxIterations,
		Units:         a.units,
	})
	return a
}

// Ask runs one user turn for a session and returns the synthesized
// response together with the turn's status and errors.
func (a *Assistant) Ask(ctx context.Context, sessionID, query string) (*domain.TurnResult, error) {
	return a.coordinator.Turn(ctx, sessionID, query)
}

// Store exposes the session store for management commands.
func (a *Assistant) Store() ports.MemoryStore { return a.store }

// Registry exposes the capability registry, which adapters (MCP) publish
// from.
func (a *Assistant) Registry() *tools.Registry { return a.registry }

// Invoker exposes the capability invoker for adapters that call
// capabilities directly, such as the MCP server.
func (a *Assistant) Invoker() ports.Invoker { return a.invoker }

// Metrics exposes the prometheus collectors for the HTTP adapter.
func (a *Assistant) Metrics() *metrics.Set { return a.metrics }
