package domain

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// SchemaVersion identifies the WorldState document layout.
const SchemaVersion = "2.0"

// WorldState is the shared blackboard for one conversation turn. Exactly one
// instance exists per turn; it is owned by the coordinator and mutated only
// through Apply, so every step observes either the pre-step or post-step
// document, never an interleaving. There is no locking: single-writer is
// enforced by the synchronous call chain, not by a mutex.
type WorldState struct {
	doc map[string]any
}

// NewWorldState creates a fresh blackboard for a session.
func NewWorldState(sessionID string) *WorldState {
	return &WorldState{doc: map[string]any{
		"meta": map[string]any{
			"sessionId": sessionID,
			"version":   SchemaVersion,
		},
		"user": map[string]any{
			"locale":   "en-US",
			"timezone": "America/New_York",
		},
		"query": map[string]any{"raw": ""},
		"slots": map[string]any{
			"origin":      map[string]any{"name": nil, "lat": nil, "lng": nil},
			"destination": map[string]any{"name": nil, "lat": nil, "lng": nil},
		},
		"context": map[string]any{
			"units":           "imperial",
			"plan":            map[string]any{"steps": []any{}, "status": string(PlanNone)},
			"completed_steps": []any{},
		},
		"evidence": map[string]any{},
		"errors":   []any{},
		"memory":   map[string]any{},
	}}
}

// FromSnapshot seeds a new turn's blackboard from the previous session
// snapshot: cross-turn memory and last-known slots carry over, everything
// else starts fresh.
func FromSnapshot(sessionID string, snap Snapshot) *WorldState {
	w := NewWorldState(sessionID)
	patch := Patch{}
	if len(snap.Memory) > 0 {
		patch["memory"] = snap.Memory
	}
	if len(snap.Slots) > 0 {
		patch["slots"] = snap.Slots
	}
	if len(patch) > 0 {
		w.Apply(patch)
	}
	// Follow-up turns reference the previous search by ordinal ("the
	// second one"), so the last result list is reseeded into context.
	if places, ok := snap.Memory["lastPlaces"].(map[string]any); ok {
		w.Apply(Patch{"context": map[string]any{"places": places}})
	}
	return w
}

// Apply merges a patch into the document. On top of the generic Merge rules
// it enforces the slot-preservation invariant: a fully resolved origin or
// destination is only ever replaced by another location mapping, never
// cleared by an explicit nil or a scalar.
func (w *WorldState) Apply(patch Patch) {
	if len(patch) == 0 {
		return
	}
	w.doc = Merge(w.doc, guardSlots(w.doc, patch))
}

// guardSlots returns patch with any entry dropped that would wipe a resolved
// origin/destination with a non-mapping value. The inputs are not mutated.
func guardSlots(base map[string]any, patch Patch) Patch {
	pv, present := patch["slots"]
	if !present {
		return patch
	}
	baseSlots, ok := base["slots"].(map[string]any)
	if !ok {
		return patch
	}

	patchSlots, ok := pv.(map[string]any)
	if !ok {
		// A non-mapping value for the whole slots branch would replace it
		// outright and take every resolved slot with it. Drop the entry
		// when that would happen.
		if locationResolved(baseSlots[SlotOrigin]) || locationResolved(baseSlots[SlotDestination]) {
			guarded := make(Patch, len(patch))
			for k, v := range patch {
				if k != "slots" {
					guarded[k] = v
				}
			}
			return guarded
		}
		return patch
	}

	var drop []string
	for _, name := range []string{SlotOrigin, SlotDestination} {
		pv, present := patchSlots[name]
		if !present {
			continue
		}
		if _, isMapping := pv.(map[string]any); isMapping {
			continue
		}
		if locationResolved(baseSlots[name]) {
			drop = append(drop, name)
		}
	}
	if len(drop) == 0 {
		return patch
	}

	guardedSlots := make(map[string]any, len(patchSlots))
	for k, v := range patchSlots {
		guardedSlots[k] = v
	}
	for _, name := range drop {
		delete(guardedSlots, name)
	}
	guarded := make(Patch, len(patch))
	for k, v := range patch {
		guarded[k] = v
	}
	guarded["slots"] = guardedSlots
	return guarded
}

func locationResolved(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	return isNumber(m["lat"]) && isNumber(m["lng"])
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}

// Document exposes the underlying document for read access (resolver,
// synthesizer). Callers must not mutate it; all writes go through Apply.
func (w *WorldState) Document() map[string]any {
	return w.doc
}

// SessionID returns the session identifier from meta.
func (w *WorldState) SessionID() string {
	meta, _ := w.doc["meta"].(map[string]any)
	id, _ := meta["sessionId"].(string)
	return id
}

// SetQuery records the raw user utterance for this turn.
func (w *WorldState) SetQuery(q string) {
	w.Apply(Patch{"query": map[string]any{"raw": q}})
}

// Query returns the raw user utterance.
func (w *WorldState) Query() string {
	query, _ := w.doc["query"].(map[string]any)
	raw, _ := query["raw"].(string)
	return raw
}

// Units returns the measurement units preference (default "imperial").
func (w *WorldState) Units() string {
	if v, ok := w.ContextValue("units"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "imperial"
}

// Slots decodes the slots branch into its typed view.
func (w *WorldState) Slots() Slots {
	var s Slots
	decode(w.doc["slots"], &s)
	return s
}

// Plan decodes the active plan from context.plan.
func (w *WorldState) Plan() Plan {
	var p Plan
	if v, ok := w.ContextValue("plan"); ok {
		decode(v, &p)
	}
	if p.Status == "" {
		p.Status = PlanNone
	}
	return p
}

// SetPlan replaces the active plan. The step list replaces wholesale
// (sequence semantics); completed-step records are untouched.
func (w *WorldState) SetPlan(p Plan) {
	w.Apply(Patch{"context": map[string]any{"plan": p.Document()}})
}

// SetPlanStatus updates only the plan status.
func (w *WorldState) SetPlanStatus(status PlanStatus) {
	w.Apply(Patch{"context": map[string]any{"plan": map[string]any{"status": string(status)}}})
}

// CompletedSteps returns the IDs of steps that finished successfully, in
// completion order.
func (w *WorldState) CompletedSteps() []string {
	v, _ := w.ContextValue("completed_steps")
	raw, _ := v.([]any)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if id, ok := e.(string); ok {
			out = append(out, id)
		}
	}
	return out
}

// StepCompleted reports whether the step ID already completed this session.
func (w *WorldState) StepCompleted(id string) bool {
	for _, done := range w.CompletedSteps() {
		if done == id {
			return true
		}
	}
	return false
}

// MarkStepCompleted appends a step ID to the completed set. The set only
// grows and holds each ID at most once.
func (w *WorldState) MarkStepCompleted(id string) {
	if w.StepCompleted(id) {
		return
	}
	done := append(toAnySlice(w.CompletedSteps()), id)
	w.Apply(Patch{"context": map[string]any{"completed_steps": done}})
}

// Errors returns the accumulated error strings in order.
func (w *WorldState) Errors() []string {
	raw, _ := w.doc["errors"].([]any)
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// AddError appends a human-readable error. The list is append-only within
// a turn.
func (w *WorldState) AddError(msg string) {
	errs := append(toAnySlice(w.Errors()), msg)
	w.Apply(Patch{"errors": errs})
}

// FinalResponse returns the synthesized answer, if one was recorded.
func (w *WorldState) FinalResponse() (string, bool) {
	v, ok := w.ContextValue("final_response")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

// SetFinalResponse records the user-facing answer for this turn.
func (w *WorldState) SetFinalResponse(text string) {
	w.Apply(Patch{"context": map[string]any{"final_response": text}})
}

// ContextValue looks up a key in the context branch.
func (w *WorldState) ContextValue(key string) (any, bool) {
	ctx, ok := w.doc["context"].(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := ctx[key]
	return v, ok
}

// AppendMessage adds a conversation entry to cross-turn memory.
func (w *WorldState) AppendMessage(role, content string) {
	memory, _ := w.doc["memory"].(map[string]any)
	existing, _ := memory["messages"].([]any)
	messages := make([]any, 0, len(existing)+1)
	messages = append(messages, existing...)
	messages = append(messages, map[string]any{
		"role":    role,
		"content": content,
		"at":      time.Now().UTC().Format(time.RFC3339),
	})
	w.Apply(Patch{"memory": map[string]any{"messages": messages}})
}

// Snapshot extracts the subset worth persisting across turns. The most
// recent places results ride along in memory so the next turn can resolve
// ordinal references against them.
func (w *WorldState) Snapshot() Snapshot {
	memory, _ := w.doc["memory"].(map[string]any)
	slots, _ := w.doc["slots"].(map[string]any)
	memory = CloneDocument(memory)
	if places, ok := w.ContextValue("places"); ok {
		if placesDoc, ok := places.(map[string]any); ok {
			if memory == nil {
				memory = map[string]any{}
			}
			memory["lastPlaces"] = CloneDocument(placesDoc)
		}
	}
	return Snapshot{
		SessionID: w.SessionID(),
		Memory:    memory,
		Slots:     CloneDocument(slots),
		UpdatedAt: time.Now().UTC(),
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// decode maps a document fragment onto a typed struct. Unknown keys are
// ignored; decode failures leave the target at its zero value, which is the
// right degradation for a free-form document.
func decode(in, out any) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(in)
}
