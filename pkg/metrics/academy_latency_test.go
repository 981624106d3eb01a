package metrics

import (
	"testing"
	"time"
)

func TestLatencyTrackerStats(t *testing.T) {
	tracker := NewLatencyTracker(100)

	for i := 1; i <= 10; i++ {
		tracker.Record(time.Duration(i) * time.Millisecond)
	}

	stats := tracker.Stats()
	if stats.Count != 10 {
		t.Errorf("count = %v, want 10", stats.Count)
	}
	if stats.Min != 1*time.Millisecond {
		t.Errorf("min = %v, want 1ms", stats.Min)
	}
	if stats.Max != 10*time.Millisecond {
		t.Errorf("max = %v, want 10ms", stats.Max)
	}
	if stats.P50 < stats.Min || stats.P50 > stats.Max {
		t.Errorf("p50 = %v, want within [%v, %v]", stats.P50, stats.Min, stats.Max)
	}
	if stats.P99 < stats.P50 {
		t.Errorf("p99 = %v, want >= p50 %v", stats.P99, stats.P50)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(100)
	stats := tracker.Stats()
	if stats.Count != 0 {
		t.Errorf("count = %v, want 0", stats.Count)
	}
}

func TestLatencyTrackerWindow(t *testing.T) {
	tracker := NewLatencyTracker(10)

	// Overflow the window; the oldest 10% gets dropped on the way in.
	for i := 0; i < 25; i++ {
		tracker.Record(time.Millisecond)
	}

	stats := tracker.Stats()
	if stats.Count > 10 {
		t.Errorf("count = %v, want <= window size 10", stats.Count)
	}
	if stats.Count == 0 {
		t.Errorf("count = 0, want samples retained")
	}
}

func TestLatencyRegistry(t *testing.T) {
	registry := NewLatencyRegistry(100)

	registry.Record("analysis:heuristic", 5*time.Millisecond)
	registry.Record("analysis:heuristic", 15*time.Millisecond)
	registry.Record("analysis:llm:classified", 800*time.Millisecond)

	all := registry.AllStats()
	if len(all) != 2 {
		t.Fatalf("tracked operations = %v, want 2", len(all))
	}
	if got := all["analysis:heuristic"].Count; got != 2 {
		t.Errorf("heuristic count = %v, want 2", got)
	}
	if got := registry.Stats("analysis:llm:classified").Count; got != 1 {
		t.Errorf("llm count = %v, want 1", got)
	}
	if got := registry.Stats("unknown").Count; got != 0 {
		t.Errorf("unknown count = %v, want 0", got)
	}
}

func TestLatencyStatsToMap(t *testing.T) {
	tracker := NewLatencyTracker(10)
	tracker.Record(2 * time.Millisecond)

	m := tracker.Stats().ToMap()
	if m["count"] != int64(1) {
		t.Errorf("count = %v, want 1", m["count"])
	}
	if m["max_ms"] != 2.0 {
		t.Errorf("max_ms = %v, want 2.0", m["max_ms"])
	}
}
