package analytics

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAggregatesPerPathPerDay(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := s.Record("/blog/post/abc/", day); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := s.Record("/", day); err != nil {
		t.Fatalf("Record: %v", err)
	}

	totals, sum, err := s.Totals(36500)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if sum != 4 {
		t.Fatalf("expected 4 total views, got %d", sum)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(totals))
	}
	if totals[0].Path != "/blog/post/abc/" || totals[0].Count != 3 {
		t.Fatalf("expected most viewed path first, got %+v", totals[0])
	}
}

func TestTotalsRespectsWindow(t *testing.T) {
	s := newTestStore(t)

	old := time.Now().UTC().AddDate(0, 0, -90)
	if err := s.Record("/", old); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record("/", time.Now().UTC()); err != nil {
		t.Fatalf("Record: %v", err)
	}

	_, sum, err := s.Totals(30)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if sum != 1 {
		t.Fatalf("expected only recent view in window, got %d", sum)
	}
}

func TestCleanupSchedulerPrunesOnStart(t *testing.T) {
	s := newTestStore(t)

	old := time.Now().UTC().AddDate(0, 0, -400)
	if err := s.Record("/old/", old); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record("/fresh/", time.Now().UTC()); err != nil {
		t.Fatalf("Record: %v", err)
	}

	stop := s.StartCleanupScheduler(365, time.Hour)
	defer stop()

	totals, sum, err := s.Totals(36500)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if sum != 1 {
		t.Fatalf("expected only the fresh counter to survive, got %d views", sum)
	}
	if len(totals) != 1 || totals[0].Path != "/fresh/" {
		t.Fatalf("expected /fresh/ to survive, got %+v", totals)
	}
}

func TestPruneDropsOldCounters(t *testing.T) {
	s := newTestStore(t)

	old := time.Now().UTC().AddDate(0, 0, -400)
	if err := s.Record("/old/", old); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Prune(365); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	_, sum, err := s.Totals(36500)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if sum != 0 {
		t.Fatalf("expected pruned store to be empty, got %d views", sum)
	}
}
