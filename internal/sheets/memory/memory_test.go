package memory

import (
	"context"
	"testing"

	"ghginventory/internal/core"
)

func TestMemoryStoreWriteAndLatest(t *testing.T) {
	s := New()
	if _, ok, err := s.Latest(context.Background()); ok || err != nil {
		t.Fatalf("unexpected latest on empty store: ok=%v err=%v", ok, err)
	}

	ref, err := s.WriteSummary(context.Background(), core.Snapshot{ID: "a", Source: "one.csv"})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected write: ref=%q err=%v", ref, err)
	}
	ref, err = s.WriteSummary(context.Background(), core.Snapshot{ID: "b", Source: "two.csv"})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected write: ref=%q err=%v", ref, err)
	}

	got, ok, err := s.Latest(context.Background())
	if err != nil || !ok || got.ID != "b" {
		t.Fatalf("unexpected latest: %+v ok=%v err=%v", got, ok, err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestMemoryStoreRejectsMissingID(t *testing.T) {
	s := New()
	if _, err := s.WriteSummary(context.Background(), core.Snapshot{}); err == nil {
		t.Fatal("expected error for snapshot without id")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
}
