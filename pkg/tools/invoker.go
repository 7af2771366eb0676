package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/eliasvillacis/vaya/internal/metrics"
	"github.com/eliasvillacis/vaya/pkg/domain"
	"github.com/eliasvillacis/vaya/pkg/ports"
)

// Invoker executes registered capabilities. It is the failure boundary of
// the runtime: panics are recovered, every error comes back as a
// *domain.ToolError, and successful results carry their raw upstream
// payload under the evidence branch of the patch.
type Invoker struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *metrics.Set
}

// NewInvoker wires an invoker over a registry. Logger and metrics may be
// nil.
func NewInvoker(registry *Registry, logger *slog.Logger, set *metrics.Set) *Invoker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Invoker{registry: registry, logger: logger, metrics: set}
}

// Lookup exposes the registry to the executor, which needs to ask a
// capability about its write-target slots before resolving arguments.
func (inv *Invoker) Lookup(action string) (ports.Capability, bool) {
	return inv.registry.Lookup(action)
}

// Invoke runs the named action with resolved arguments.
func (inv *Invoker) Invoke(ctx context.Context, action string, args map[string]any) (domain.Result, error) {
	capability, ok := inv.registry.Lookup(action)
	if !ok {
		inv.count(action, "unregistered")
		return domain.Result{}, domain.NewToolError(action, domain.FailureUnknown,
			"no capability registered for action %q", action)
	}

	start := time.Now()
	result, err := inv.run(ctx, capability, args)
	elapsed := time.Since(start)
	if inv.metrics != nil {
		inv.metrics.ToolDuration.WithLabelValues(capability.Name()).Observe(elapsed.Seconds())
	}

	if err != nil {
		te := domain.AsToolError(capability.Name(), err)
		inv.count(capability.Name(), string(te.Kind))
		inv.logger.Warn("capability failed",
			"action", capability.Name(),
			"kind", te.Kind,
			"error", te.Message,
			"duration", elapsed,
		)
		return domain.Result{}, te
	}

	inv.count(capability.Name(), "ok")
	inv.logger.Debug("capability succeeded", "action", capability.Name(), "duration", elapsed)
	return withEvidence(capability.Name(), result), nil
}

// run isolates the panic recovery so Invoke's happy path stays readable.
func (inv *Invoker) run(ctx context.Context, capability ports.Capability, args map[string]any) (result domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.NewToolError(capability.Name(), domain.FailureUnknown,
				"capability panicked: %v", r)
		}
	}()
	return capability.Run(ctx, args)
}

func (inv *Invoker) count(action, outcome string) {
	if inv.metrics != nil {
		inv.metrics.ToolInvocations.WithLabelValues(action, outcome).Inc()
	}
}

// withEvidence folds the raw upstream payload into the semantic patch so
// the audit trail merges with everything else. The capability's patch is
// not mutated.
func withEvidence(name string, result domain.Result) domain.Result {
	if result.Evidence == nil {
		return result
	}
	patch := domain.Merge(result.Patch, domain.Patch{
		"evidence": map[string]any{name: result.Evidence},
	})
	result.Patch = patch
	return result
}
