/*
Package vaya is a conversational travel assistant core: it turns a
natural-language query into a small plan of capability calls (geocoding,
weather, directions, places search) and a synthesized answer.

The center of the design is a shared blackboard, the WorldState: one
canonical document per turn that every step reads from and patches into
through a deterministic recursive merge. An executor walks the plan,
resolves symbolic references between steps ("origin", "the second one",
"${context.places.results[0].placeId}"), invokes capabilities behind a
typed-failure boundary, and tolerates partial failure. A coordinator owns
the turn lifecycle and persists the cross-turn memory.

Planner, synthesizer, capabilities, and storage are ports: the built-in
implementations are deterministic and offline, and LLM-backed or
vendor-backed ones plug in without touching the core.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/eliasvillacis/vaya"
	)

	func main() {
		assistant := vaya.New()

		result, err := assistant.Ask(context.Background(), "session-1", "weather in Miami and Orlando")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Response)
	}
*/
package vaya
