package domain

// PlanStatus tracks the lifecycle of the active plan.
type PlanStatus string

const (
	PlanNone       PlanStatus = "none"
	PlanInProgress PlanStatus = "in_progress"
	PlanCompleted  PlanStatus = "completed"
	PlanFailed     PlanStatus = "failed"
)

// StepMode controls the failure policy of a single step.
type StepMode string

const (
	// StepRequired aborts the remaining plan when the step fails.
	StepRequired StepMode = "required"
	// StepBestEffort records the failure and lets execution continue,
	// for optional enrichment steps.
	StepBestEffort StepMode = "best_effort"
)

// Step is one planned capability invocation. Args values may be literals or
// symbolic references ("origin", "#2", "${context.places.results[0].placeId}")
// that the resolver substitutes just before the step runs.
type Step struct {
	ID     string         `json:"id" mapstructure:"id"`
	Action string         `json:"action" mapstructure:"action"`
	Args   map[string]any `json:"args,omitempty" mapstructure:"args"`
	Mode   StepMode       `json:"mode,omitempty" mapstructure:"mode"`
}

// Required reports whether a failure of this step aborts the plan.
// The zero Mode defaults to required.
func (s Step) Required() bool {
	return s.Mode != StepBestEffort
}

// Plan is an ordered sequence of steps produced by a planner. The copy held
// under context.plan in the WorldState is authoritative for what remains to
// execute; replanning replaces it wholesale but never erases the record of
// steps that already completed.
type Plan struct {
	Steps  []Step     `json:"steps" mapstructure:"steps"`
	Status PlanStatus `json:"status" mapstructure:"status"`
}

// Empty reports whether the plan has no steps.
func (p Plan) Empty() bool {
	return len(p.Steps) == 0
}

// Document renders the plan as a patch fragment for context.plan.
func (p Plan) Document() map[string]any {
	steps := make([]any, len(p.Steps))
	for i, s := range p.Steps {
		step := map[string]any{
			"id":     s.ID,
			"action": s.Action,
		}
		if len(s.Args) > 0 {
			step["args"] = CloneDocument(s.Args)
		}
		if s.Mode != "" {
			step["mode"] = string(s.Mode)
		}
		steps[i] = step
	}
	status := p.Status
	if status == "" {
		status = PlanNone
	}
	return map[string]any{"steps": steps, "status": string(status)}
}
