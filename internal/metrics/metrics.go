// Package metrics exposes the engine's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_sessions_started_total",
		Help: "Total number of dialogue sessions started.",
	})

	SessionsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_sessions_finished_total",
		Help: "Total number of dialogue sessions that reached an end node.",
	})

	NodesVisited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_nodes_visited_total",
		Help: "Total number of node visits, labelled by node kind.",
	}, []string{"kind"})

	ChoicesOffered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_choices_offered_total",
		Help: "Total number of selectable lines offered to players.",
	})

	TraversalWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_traversal_warnings_total",
		Help: "Total number of authored-content defects degraded to warnings.",
	})
)
