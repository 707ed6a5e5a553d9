package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "archmap_parsing_seconds",
		Help:    "Time spent extracting structure from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archmap_graph_nodes_total",
		Help: "Number of nodes in the last built architecture model.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archmap_graph_edges_total",
		Help: "Number of edges in the last built architecture model.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "archmap_analysis_seconds",
		Help:    "Time spent on pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	SmellsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archmap_smells_emitted_total",
		Help: "Total number of smell findings emitted, by severity.",
	}, []string{"severity"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archmap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archmap_runs_total",
		Help: "Total number of completed analysis runs.",
	})
)
