package main

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	logger := log.New(io.Discard)
	cfg := config{Level: "arena.yaml", Searches: 200, Seed: 42}

	cfg.Workers = 1
	single, err := run(cfg, logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	cfg.Workers = 4
	pooled, err := run(cfg, logger)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if single.Metrics.Searches != 200 || pooled.Metrics.Searches != 200 {
		t.Fatalf("expected 200 searches, got %d and %d", single.Metrics.Searches, pooled.Metrics.Searches)
	}
	if single.Metrics.Found+single.NoPath != 200 {
		t.Fatalf("found %d + no path %d != 200", single.Metrics.Found, single.NoPath)
	}
	if single.Metrics.Found != pooled.Metrics.Found || single.Metrics.NodesExpanded != pooled.Metrics.NodesExpanded {
		t.Fatalf("pool changed results: %+v vs %+v", single.Metrics, pooled.Metrics)
	}
	if single.LongestPath != pooled.LongestPath || single.LongestPath == 0 {
		t.Fatalf("longest path mismatch: %d vs %d", single.LongestPath, pooled.LongestPath)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	if _, err := run(config{Level: "arena.yaml", Searches: 0}, log.New(io.Discard)); err == nil {
		t.Fatalf("expected error for zero searches")
	}
	if _, err := run(config{Level: "missing.yaml", Searches: 1}, log.New(io.Discard)); err == nil {
		t.Fatalf("expected error for missing level")
	}
}

func TestReportRender(t *testing.T) {
	rep, err := run(config{Level: "arena.yaml", Searches: 10, Workers: 2, Seed: 7}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	out := rep.Render()
	for _, want := range []string{"arena", "nodes expanded", "searches", "longest path"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
