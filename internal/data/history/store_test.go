package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreOpenSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	first := Snapshot{
		Timestamp:    base,
		NodeCount:    12,
		EdgeCount:    20,
		GroupCount:   3,
		FileCount:    15,
		WarningCount: 2,
		InfoCount:    4,
		MaxTier:      3,
	}
	dup := Snapshot{
		Timestamp:    base,
		NodeCount:    13,
		EdgeCount:    21,
		GroupCount:   3,
		FileCount:    15,
		WarningCount: 1,
	}
	second := Snapshot{
		Timestamp:      base.Add(2 * time.Hour),
		NodeCount:      14,
		EdgeCount:      25,
		GroupCount:     4,
		FileCount:      16,
		CycleNodeCount: 3,
		MaxTier:        4,
	}

	if err := store.SaveSnapshot("project-a", first); err != nil {
		t.Fatalf("save first snapshot: %v", err)
	}
	if err := store.SaveSnapshot("project-a", dup); err != nil {
		t.Fatalf("save duplicate snapshot: %v", err)
	}
	if err := store.SaveSnapshot("project-a", second); err != nil {
		t.Fatalf("save second snapshot: %v", err)
	}

	got, err := store.LoadSnapshots("project-a", time.Time{})
	if err != nil {
		t.Fatalf("load snapshots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d snapshots, want 2 (duplicate ts must upsert)", len(got))
	}
	if got[0].NodeCount != 13 || got[0].WarningCount != 1 {
		t.Errorf("upsert did not overwrite: %+v", got[0])
	}
	if !got[1].Timestamp.Equal(second.Timestamp) || got[1].CycleNodeCount != 3 {
		t.Errorf("second snapshot mismatch: %+v", got[1])
	}

	since, err := store.LoadSnapshots("project-a", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("load since: %v", err)
	}
	if len(since) != 1 {
		t.Errorf("since filter returned %d snapshots, want 1", len(since))
	}
}

func TestStoreProjectKeysAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.SaveSnapshot("a", Snapshot{NodeCount: 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveSnapshot("b", Snapshot{NodeCount: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LoadSnapshots("a", time.Time{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].NodeCount != 1 {
		t.Errorf("project a snapshots = %+v", got)
	}
}

func TestStoreRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestBuildTrendReportDeltas(t *testing.T) {
	base := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	report, err := BuildTrendReport([]Snapshot{
		{Timestamp: base, NodeCount: 10, EdgeCount: 12, WarningCount: 2},
		{Timestamp: base.Add(time.Hour), NodeCount: 15, EdgeCount: 14, WarningCount: 1},
	})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.ScanCount != 2 {
		t.Fatalf("scan count = %d", report.ScanCount)
	}
	p := report.Points[1]
	if p.DeltaNodes != 5 || p.DeltaEdges != 2 || p.DeltaWarnings != -1 {
		t.Errorf("deltas = %+v", p)
	}
	if p.NodeGrowthPct != 50.0 {
		t.Errorf("growth pct = %v", p.NodeGrowthPct)
	}
}

func TestBuildTrendReportEmpty(t *testing.T) {
	if _, err := BuildTrendReport(nil); err == nil {
		t.Fatal("expected error for empty snapshot list")
	}
}
