package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/tminusrain/parade-forecast/internal/forecast"
)

func resultAt(id string, at time.Time) forecast.Result {
	return forecast.Result{
		ID:          id,
		Prediction:  "Clear",
		GeneratedAt: at,
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	s := NewMemoryStore(0, 0)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		s.Record(resultAt(fmt.Sprintf("r%d", i), now.Add(time.Duration(i)*time.Minute)))
	}

	got := s.Recent(3)
	if len(got) != 3 {
		t.Fatalf("Recent(3) returned %d results, want 3", len(got))
	}
	for i, want := range []string{"r4", "r3", "r2"} {
		if got[i].ID != want {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestMemoryStoreRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	now := time.Now().UTC()

	s.Record(resultAt("a", now))
	s.Record(resultAt("b", now))
	s.Record(resultAt("c", now))

	got := s.Recent(0)
	if len(got) != 2 {
		t.Fatalf("store retained %d results, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("retained wrong entries: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestMemoryStoreRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Now().UTC()

	s.Record(resultAt("old", now.Add(-2*time.Hour)))
	s.Record(resultAt("fresh", now))

	got := s.Recent(0)
	if len(got) != 1 {
		t.Fatalf("store retained %d results, want 1", len(got))
	}
	if got[0].ID != "fresh" {
		t.Errorf("retained %q, want %q", got[0].ID, "fresh")
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore(10, time.Hour)
	if got := s.Recent(5); len(got) != 0 {
		t.Errorf("empty store returned %d results", len(got))
	}
}
