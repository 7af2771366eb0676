// Package runtime drives one user turn: the executor walks the active
// plan step by step, and the coordinator owns the world state lifecycle
// around it.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
	"github.com/eliasvillacis/vaya/pkg/ref"
)

// DefaultMaxSteps bounds how many step invocations one turn may spend,
// counting every attempt across replans. Hitting it means a replanning
// loop, not a long itinerary.
const DefaultMaxSteps = 25

// StepError reports a failed required step to the coordinator, which may
// replan around it.
type StepError struct {
	StepID string
	Action string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s (%s): %v", e.StepID, e.Action, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Executor runs the active plan held in a world state. One executor serves
// one turn: it carries the turn's step budget and the set of best-effort
// steps that already failed, across any number of replans.
//
// Execution is strictly sequential. Context cancellation is honored
// between steps only; a step that has started runs to completion.
type Executor struct {
	invoker  ports.Invoker
	logger   *slog.Logger
	maxSteps int

	executed int
	skipped  map[string]bool
}

// NewExecutor builds a turn executor. maxSteps <= 0 selects
// DefaultMaxSteps; a nil logger discards.
func NewExecutor(invoker ports.Invoker, logger *slog.Logger, maxSteps int) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Executor{
		invoker:  invoker,
		logger:   logger,
		maxSteps: maxSteps,
		skipped:  make(map[string]bool),
	}
}

// Executed reports how many step invocations this turn has spent.
func (e *Executor) Executed() int { return e.executed }

// Run executes pending steps of the current plan until the plan is
// exhausted or a step fails.
//
// On success the plan status is completed and the return is nil. A failed
// required step sets status failed and returns a *StepError the caller may
// replan around. Exceeding the step budget sets status failed and returns
// domain.ErrStepCeiling, which must never be replanned around. Partial
// results merged before a failure are always retained.
func (e *Executor) Run(ctx context.Context, state *domain.WorldState) error {
	for {
		if err := ctx.Err(); err != nil {
			state.SetPlanStatus(domain.PlanFailed)
			state.AddError("turn aborted")
			return err
		}

		step, ok := e.nextStep(state)
		if !ok {
			state.SetPlanStatus(domain.PlanCompleted)
			return nil
		}

		if e.executed >= e.maxSteps {
			state.SetPlanStatus(domain.PlanFailed)
			state.AddError(fmt.Sprintf("stopped after %d steps, the plan keeps growing", e.maxSteps))
			return domain.ErrStepCeiling
		}
		e.executed++

		state.SetPlanStatus(domain.PlanInProgress)
		if err := e.runStep(ctx, state, step); err != nil {
			state.AddError(errorMessage(err))
			if step.Required() {
				state.SetPlanStatus(domain.PlanFailed)
				e.logger.Warn("required step failed", "step", step.ID, "action", step.Action, "error", err)
				return &StepError{StepID: step.ID, Action: step.Action, Err: err}
			}
			// Best effort: record and move on. The id stays skipped for
			// the rest of the turn, so a replan that wants to retry the
			// action must issue it under a fresh step id.
			e.skipped[step.ID] = true
			e.logger.Info("best-effort step failed, continuing", "step", step.ID, "action", step.Action, "error", err)
			continue
		}

		state.MarkStepCompleted(step.ID)
		e.logger.Debug("step completed", "step", step.ID, "action", step.Action)
	}
}

// nextStep picks the first plan step that has neither completed nor been
// skipped this turn. The plan is re-read from state every time, so a
// replan that replaced context.plan.steps takes effect immediately.
func (e *Executor) nextStep(state *domain.WorldState) (domain.Step, bool) {
	for _, step := range state.Plan().Steps {
		if state.StepCompleted(step.ID) || e.skipped[step.ID] {
			continue
		}
		return step, true
	}
	return domain.Step{}, false
}

func (e *Executor) runStep(ctx context.Context, state *domain.WorldState, step domain.Step) error {
	var opts ref.Options
	if resolver, ok := e.invoker.(ports.CapabilityResolver); ok {
		if capability, found := resolver.Lookup(step.Action); found {
			if sw, ok := capability.(ports.SlotWriter); ok {
				opts.WriteSlots = sw.WriteSlots(step.Args)
			}
		}
	}

	args, err := ref.Resolve(step.Args, state, opts)
	if err != nil {
		return err
	}

	result, err := e.invoker.Invoke(ctx, step.Action, args)
	if err != nil {
		return err
	}

	state.Apply(result.Patch)
	return nil
}

// errorMessage renders a step failure for the user-visible errors list.
func errorMessage(err error) string {
	var te *domain.ToolError
	if errors.As(err, &te) {
		return te.Message
	}
	var ure *domain.UnresolvedReferenceError
	if errors.As(err, &ure) {
		return ure.Error()
	}
	return err.Error()
}
