// Package domain contains the core value types of the Vaya assistant:
// the WorldState blackboard shared between planning and execution, the
// Plan/Step vocabulary produced by planners, the Patch merge algebra that
// combines partial tool results into the canonical state, and the typed
// errors that cross component boundaries.
//
// Everything here is transport-agnostic and free of I/O; adapters and the
// runtime build on these types.
package domain
