package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned by memory stores when a session ID has no
// persisted snapshot.
var ErrSessionNotFound = errors.New("session not found")

// ErrStepCeiling is returned when a turn executes more steps than the
// configured ceiling, which usually indicates a replanning loop. The
// coordinator must treat it as fatal and never replan around it.
var ErrStepCeiling = errors.New("step ceiling exceeded")

// UnresolvedReferenceError reports a symbolic step argument that could not
// be resolved against the current world state: an unset or incomplete slot,
// a dangling placeholder path, or an out-of-range ordinal.
type UnresolvedReferenceError struct {
	Ref    string // the reference as written in the plan, e.g. "destination" or "#5"
	Reason string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("cannot resolve reference %q: %s", e.Ref, e.Reason)
}

// FailureKind classifies capability failures for machine handling.
type FailureKind string

const (
	FailureRateLimited FailureKind = "rate_limited"
	FailureNotFound    FailureKind = "not_found"
	FailureInvalidArgs FailureKind = "invalid_args"
	FailureUpstream    FailureKind = "upstream_unavailable"
	FailureUnknown     FailureKind = "unknown"
)

// ToolError is the typed failure of a capability invocation. Capabilities
// never let errors or panics escape the invoker boundary raw; everything is
// converted to a ToolError so the executor stays free of capability-specific
// handling.
type ToolError struct {
	Capability string
	Kind       FailureKind
	Message    string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Capability, e.Message, e.Kind)
}

// NewToolError builds a ToolError with a formatted message.
func NewToolError(capability string, kind FailureKind, format string, args ...any) *ToolError {
	return &ToolError{
		Capability: capability,
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
	}
}

// AsToolError coerces any error into a ToolError attributed to the given
// capability. An error that already is a ToolError passes through unchanged.
func AsToolError(capability string, err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return &ToolError{Capability: capability, Kind: FailureUnknown, Message: err.Error()}
}
