package astar

import (
	"sync/atomic"
	"time"
)

// Profiler captures instrumentation hooks for searches.
type Profiler interface {
	RecordNodeExpanded()
	RecordNeighborGeneration(count int)
	RecordHeuristicEvaluation()
	RecordSearch(duration time.Duration, found bool)
}

// SearchMetrics accumulates profiling counters. It is safe for concurrent use
// so several searches may share one instance.
type SearchMetrics struct {
	searches             atomic.Int64
	found                atomic.Int64
	searchTime           atomic.Int64
	nodesExpanded        atomic.Int64
	neighborGenerations  atomic.Int64
	neighborCount        atomic.Int64
	heuristicEvaluations atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of SearchMetrics.
type MetricsSnapshot struct {
	Searches             int64
	Found                int64
	SearchTime           time.Duration
	NodesExpanded        int64
	NeighborGenerations  int64
	NeighborCount        int64
	HeuristicEvaluations int64
}

// Profiler returns a Profiler that writes into m.
func (m *SearchMetrics) Profiler() Profiler {
	if m == nil {
		return nil
	}
	return (*metricsProfiler)(m)
}

// Reset zeroes all counters.
func (m *SearchMetrics) Reset() {
	if m == nil {
		return
	}
	m.searches.Store(0)
	m.found.Store(0)
	m.searchTime.Store(0)
	m.nodesExpanded.Store(0)
	m.neighborGenerations.Store(0)
	m.neighborCount.Store(0)
	m.heuristicEvaluations.Store(0)
}

// Snapshot captures the current counter values.
func (m *SearchMetrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Searches:             m.searches.Load(),
		Found:                m.found.Load(),
		SearchTime:           time.Duration(m.searchTime.Load()),
		NodesExpanded:        m.nodesExpanded.Load(),
		NeighborGenerations:  m.neighborGenerations.Load(),
		NeighborCount:        m.neighborCount.Load(),
		HeuristicEvaluations: m.heuristicEvaluations.Load(),
	}
}

type metricsProfiler SearchMetrics

func (m *metricsProfiler) RecordNodeExpanded() {
	(*SearchMetrics)(m).nodesExpanded.Add(1)
}

func (m *metricsProfiler) RecordNeighborGeneration(count int) {
	metrics := (*SearchMetrics)(m)
	metrics.neighborGenerations.Add(1)
	metrics.neighborCount.Add(int64(count))
}

func (m *metricsProfiler) RecordHeuristicEvaluation() {
	(*SearchMetrics)(m).heuristicEvaluations.Add(1)
}

func (m *metricsProfiler) RecordSearch(duration time.Duration, found bool) {
	metrics := (*SearchMetrics)(m)
	metrics.searches.Add(1)
	metrics.searchTime.Add(duration.Nanoseconds())
	if found {
		metrics.found.Add(1)
	}
}
