package ports

import (
	"context"

	"github.com/eliasvillacis/vaya/pkg/domain"
)

// Capability is one named operation the plan executor can invoke: an
// external API wrapper, a conversational fallback, anything that takes
// resolved arguments and returns a state patch.
type Capability interface {
	// Name is the action string plans refer to.
	Name() string

	// Run executes the capability with fully resolved arguments. Failures
	// should be returned as *domain.ToolError; any other error or panic is
	// coerced by the invoker.
	Run(ctx context.Context, args map[string]any) (domain.Result, error)
}

// SlotWriter is an optional Capability extension for operations that
// produce a slot rather than read it (geocoding writes the destination, it
// does not resolve it). The resolver passes such slot arguments through
// untouched.
type SlotWriter interface {
	// WriteSlots inspects the step's raw arguments and returns the slot
	// names the invocation will fill.
	WriteSlots(args map[string]any) []string
}

// Invoker executes a named action. It is the failure boundary: every
// outcome is either a Result or a *domain.ToolError, never a raw error or
// a panic.
type Invoker interface {
	Invoke(ctx context.Context, action string, args map[string]any) (domain.Result, error)
}

// CapabilityResolver looks up a registered capability by action name, so
// the executor can query write-slot behavior before resolving arguments.
type CapabilityResolver interface {
	Lookup(action string) (Capability, bool)
}
