package metrics

import (
	"sync"
	"testing"
	"time"
)

func record(strategy, status, kind string, d time.Duration) GenerationRecord {
	return GenerationRecord{Strategy: strategy, Status: status, ErrorKind: kind, Duration: d}
}

func TestStore_Snapshot(t *testing.T) {
	store := NewStore(DefaultStoreConfig(), time.Now())

	store.Record(record("structured", StatusSuccess, "", 2*time.Second))
	store.Record(record("structured", StatusSuccess, "", 4*time.Second))
	store.Record(record("structured", StatusError, "schema", time.Second))
	store.Record(record("highlights", StatusError, "validation", 0))

	m := store.Snapshot()
	if m.TotalProcessed != 4 || m.TotalSuccess != 2 || m.TotalErrors != 2 {
		t.Errorf("totals = %d/%d/%d, want 4/2/2", m.TotalProcessed, m.TotalSuccess, m.TotalErrors)
	}

	structured := m.ByStrategy["structured"]
	if structured == nil {
		t.Fatal("missing structured stats")
	}
	if structured.Count != 3 {
		t.Errorf("Count = %d, want 3", structured.Count)
	}
	if structured.AvgDuration != 3*time.Second {
		t.Errorf("AvgDuration = %v, want 3s (successes only)", structured.AvgDuration)
	}
	if got := structured.SuccessRate; got < 66.6 || got > 66.7 {
		t.Errorf("SuccessRate = %v, want ~66.67", got)
	}
	if m.ErrorsByKind["schema"] != 1 || m.ErrorsByKind["validation"] != 1 {
		t.Errorf("ErrorsByKind = %v", m.ErrorsByKind)
	}
}

func TestStore_RecentWrapsAround(t *testing.T) {
	store := NewStore(StoreConfig{HistoryCapacity: 3}, time.Now())
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		store.Record(GenerationRecord{RequestID: id, Status: StatusSuccess})
	}

	got := store.Recent(10)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].RequestID != want {
			t.Errorf("Recent()[%d] = %q, want %q", i, got[i].RequestID, want)
		}
	}

	if last := store.Recent(1); last[0].RequestID != "e" {
		t.Errorf("Recent(1) = %q, want e", last[0].RequestID)
	}
	if empty := NewStore(DefaultStoreConfig(), time.Now()).Recent(5); len(empty) != 0 {
		t.Errorf("empty store returned %d records", len(empty))
	}
}

func TestStore_StatusDegradesOnRepeatedCompletionFailures(t *testing.T) {
	store := NewStore(StoreConfig{Version: "v1.0.0"}, time.Now().Add(-time.Minute))

	for i := 0; i < degradedAfter; i++ {
		if got := store.Status().Health; got != HealthRunning {
			t.Fatalf("after %d failures Health = %q, want running", i, got)
		}
		store.Record(record("freeform", StatusError, "completion", 0))
	}
	status := store.Status()
	if status.Health != HealthDegraded {
		t.Errorf("Health = %q, want degraded", status.Health)
	}
	if status.Version != "v1.0.0" || status.Uptime < time.Minute {
		t.Errorf("Status = %+v", status)
	}

	store.Record(record("freeform", StatusSuccess, "", time.Second))
	if got := store.Status().Health; got != HealthRunning {
		t.Errorf("a success should restore running, got %q", got)
	}
}

func TestStore_ConcurrentRecord(t *testing.T) {
	store := NewStore(DefaultStoreConfig(), time.Now())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Record(record("highlights", StatusSuccess, "", time.Millisecond))
		}()
	}
	wg.Wait()

	if got := store.Snapshot().TotalProcessed; got != 20 {
		t.Errorf("TotalProcessed = %d, want 20", got)
	}
}
