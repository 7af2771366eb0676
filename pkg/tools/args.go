package tools

import (
	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// decodeArgs decodes resolved step arguments into a typed parameter
// struct. Decoding failures surface as invalid_args so the planner can be
// asked for a better plan instead of the turn blowing up.
func decodeArgs(action string, in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return domain.NewToolError(action, domain.FailureUnknown, "argument decoder: %v", err)
	}
	if err := dec.Decode(in); err != nil {
		return domain.NewToolError(action, domain.FailureInvalidArgs, "bad arguments: %v", err)
	}
	return nil
}

// slotOrDefault validates an output slot name argument.
func slotOrDefault(action, slot, fallback string) (string, error) {
	if slot == "" {
		return fallback, nil
	}
	switch slot {
	case domain.SlotOrigin, domain.SlotDestination:
		return slot, nil
	}
	return "", domain.NewToolError(action, domain.FailureInvalidArgs, "unknown slot %q", slot)
}
