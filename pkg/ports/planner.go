package ports

import (
	"context"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// Planner turns a user query into an ordered plan, and revises it when
// execution fails. Implementations range from deterministic keyword rules
// to LLM-backed planners; the core treats the plan as opaque typed steps.
type Planner interface {
	// Plan produces the initial plan for a turn.
	Plan(ctx context.Context, query string, state *domain.WorldState) (domain.Plan, error)

	// Replan is asked for a replacement plan after a step failure. The
	// failure is described by stepErr; returning an empty plan stops the
	// turn with whatever has been accumulated so far.
	Replan(ctx context.Context, state *domain.WorldState, stepErr error) (domain.Plan, error)
}

// Synthesizer produces the user-facing response from the terminal world
// state. It must be able to build a helpful message from a partial state
// plus a non-empty errors list.
type Synthesizer interface {
	Synthesize(ctx context.Context, state *domain.WorldState) (string, error)
}
