/*
Package ports defines the driven ports (interfaces) for the Vaya core.

These interfaces decouple the turn runtime from external implementations,
allowing the coordinator and executor to work with any planner, capability
set, response synthesizer, or session storage backend.

# Key Interfaces

  - Planner: produces and revises plans for a user query.
  - Capability: one named operation the executor can invoke.
  - Invoker: the typed-failure boundary around capability execution.
  - Synthesizer: turns the final world state into user-facing text.
  - MemoryStore: persists cross-turn session snapshots.
*/
package ports
