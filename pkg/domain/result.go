package domain

// Result is the successful outcome of one capability invocation.
type Result struct {
	// Patch holds the semantic updates to merge into the world state
	// (slots, context entries).
	Patch Patch

	// Evidence carries the raw upstream payload for audit. The invoker
	// files it under evidence.<capability> so it never pollutes the
	// semantic branches.
	Evidence map[string]any

	// Snippet is an optional human-readable fragment the synthesizer may
	// weave into the final answer.
	Snippet string
}

// TurnResult is what one coordinator turn hands back to the caller.
type TurnResult struct {
	Response string     `json:"response"`
	Status   PlanStatus `json:"plan_status"`
	Errors   []string   `json:"errors,omitempty"`
	State    *WorldState `json:"-"`
}
