package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eliasvillacis/vaya/internal/metrics"
	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// DefaultMaxIterations bounds how many times one turn may replan.
const DefaultMaxIterations = 10

// Config wires a coordinator's collaborators. Store, Planner, Synthesizer
// and Invoker are required; the rest default sensibly.
type Config struct {
	Store       ports.MemoryStore
	Planner     ports.Planner
	Synthesizer ports.Synthesizer
	Invoker     ports.Invoker

	Logger        *slog.Logger
	Metrics       *metrics.Set
	MaxSteps      int
	MaxIterations int

	// Units is the default measurement system seeded into fresh
	// sessions ("imperial" or "metric"). Empty leaves the state default.
	Units string
}

// Coordinator owns the world state lifecycle for user turns: seed from the
// session snapshot, plan, execute, replan on failure, synthesize, persist.
type Coordinator struct {
	cfg Config
}

// NewCoordinator builds a coordinator from its collaborators.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Coordinator{cfg: cfg}
}

// Turn runs one complete user turn for a session and returns the
// synthesized response along with the terminal plan status and errors.
// The world state never outlives the call except through the persisted
// memory/slots snapshot.
func (c *Coordinator) Turn(ctx context.Context, sessionID, query string) (*domain.TurnResult, error) {
	state, err := c.seed(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state.SetQuery(query)
	state.AppendMessage("user", query)

	executor := NewExecutor(c.cfg.Invoker, c.cfg.Logger, c.cfg.MaxSteps)
	c.execute(ctx, state, executor, query)
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.StepsPerTurn.Observe(float64(executor.Executed()))
	}

	response := c.synthesize(ctx, state)
	state.SetFinalResponse(response)
	state.AppendMessage("assistant", response)

	if err := c.cfg.Store.Save(ctx, state.Snapshot()); err != nil {
		// The user still gets their answer; the session just won't
		// remember this turn.
		c.cfg.Logger.Error("persisting session snapshot", "session", sessionID, "error", err)
	}

	return &domain.TurnResult{
		Response: response,
		Status:   state.Plan().Status,
		Errors:   state.Errors(),
		State:    state,
	}, nil
}

// seed builds the turn's world state from the previous session snapshot,
// or fresh for a new session.
func (c *Coordinator) seed(ctx context.Context, sessionID string) (*domain.WorldState, error) {
	snap, err := c.cfg.Store.Load(ctx, sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		state := domain.NewWorldState(sessionID)
		if c.cfg.Units != "" {
			state.Apply(domain.Patch{"context": map[string]any{"units": c.cfg.Units}})
		}
		return state, nil
	case err != nil:
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	return domain.FromSnapshot(sessionID, snap), nil
}

// execute drives the plan/run/replan loop to a terminal plan status.
func (c *Coordinator) execute(ctx context.Context, state *domain.WorldState, executor *Executor, query string) {
	plan, err := c.cfg.Planner.Plan(ctx, query, state)
	if err != nil {
		state.AddError(fmt.Sprintf("planning failed: %v", err))
		state.SetPlanStatus(domain.PlanFailed)
		return
	}
	plan.Status = domain.PlanInProgress
	state.SetPlan(plan)

	for iteration := 0; ; iteration++ {
		runErr := executor.Run(ctx, state)
		if runErr == nil {
			return
		}
		if errors.Is(runErr, domain.ErrStepCeiling) {
			// Hard stop. Replanning is what got us here.
			return
		}
		if ctx.Err() != nil {
			// Aborted between steps; patches already merged are kept.
			return
		}
		if iteration >= c.cfg.MaxIterations {
			state.AddError("replanning limit reached")
			state.SetPlanStatus(domain.PlanFailed)
			return
		}

		next, perr := c.cfg.Planner.Replan(ctx, state, runErr)
		if perr != nil {
			state.AddError(fmt.Sprintf("replanning failed: %v", perr))
			return
		}
		if next.Empty() {
			// The planner has nothing better; stop with what we have.
			return
		}
		c.cfg.Logger.Info("replanning", "session", state.SessionID(), "steps", len(next.Steps))
		next.Status = domain.PlanInProgress
		state.SetPlan(next)
	}
}

// synthesize produces the user-facing text, falling back to an apology
// built from the errors list when the synthesizer itself fails.
func (c *Coordinator) synthesize(ctx context.Context, state *domain.WorldState) string {
	response, err := c.cfg.Synthesizer.Synthesize(ctx, state)
	if err == nil && response != "" {
		return response
	}
	if err != nil {
		c.cfg.Logger.Error("synthesizing response", "session", state.SessionID(), "error", err)
	}
	if errs := state.Errors(); len(errs) > 0 {
		return "Sorry, I ran into trouble with that: " + errs[0]
	}
	return "Sorry, I couldn't put together an answer for that."
}
