// Package metrics holds the prometheus collectors for tool and turn
// instrumentation.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set bundles the collectors the runtime records into. A Set is built per
// assistant so tests never fight over the default registry.
type Set struct {
	ToolInvocations *prometheus.CounterVec
	ToolDuration    *prometheus.HistogramVec
	StepsPerTurn    prometheus.Histogram
	Registry        *prometheus.Registry
}

// New builds and registers the collector set on a fresh registry.
func New() *Set {
	s := &Set{
		ToolInvocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaya_tool_invocations_total",
				Help: "Total capability invocations by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "vaya_tool_duration_seconds",
				Help: "Duration of capability invocations",
			},
			[]string{"action"},
		),
		StepsPerTurn: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "vaya_steps_per_turn",
				Help:    "Plan steps executed per user turn",
				Buckets: prometheus.LinearBuckets(1, 2, 12),
			},
		),
		Registry: prometheus.NewRegistry(),
	}
	s.Registry.MustRegister(s.ToolInvocations, s.ToolDuration, s.StepsPerTurn)
	return s
}
