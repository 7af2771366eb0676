package vaya_test

import (
	"context"
	"fmt"
	"log"

	"github.com/eliasvillacis/vaya"
	"github.com/eliasvillacis/vaya/pkg/adapters/memory"
)

// ExampleNew demonstrates running a turn against the built-in offline
// providers. No network access and no API keys are required, which makes
// this setup useful for tests and embedded scenarios.
func ExampleNew() {
	assistant := vaya.New(
		vaya.WithStore(memory.NewStore()),
	)

	result, err := assistant.Ask(context.Background(), "demo", "what's the weather in Miami?")
	if err != nil {
		log.Fatal(err)
	}

	// The response text comes from the offline weather table; the plan
	// status reports whether every step succeeded.
	fmt.Println(result.Status)
	// Output: completed
}
