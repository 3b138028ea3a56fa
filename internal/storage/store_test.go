package storage

import (
	"context"
	"path/filepath"
	"testing"

	"scribble/internal/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "scribble.db")
	s, err := NewSQLiteStore(dbPath, "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sample() []core.Expense {
	return []core.Expense{
		{ID: "1", Title: "Coffee", Amount: 40, Date: "2025/01/15", Category: core.Food, SplitCount: 2, AmountPerPerson: 20},
		{ID: "2", Title: "Bus", Amount: 12.5, Date: "2025/01/16", Category: core.Travel, IsImportant: true, SplitCount: 1, AmountPerPerson: 12.5},
	}
}

func TestLoadEmptyWhenMissing(t *testing.T) {
	s := newTestStore(t)
	got := s.Load(context.Background())
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d records", len(got))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sample()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := s.Load(ctx)
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSaveEmptyCollectionRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, []core.Expense{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty after saving empty, got %d", len(got))
	}
}

func TestSaveOverwritesWholeSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	replacement := []core.Expense{{ID: "9", Title: "Pizza", Amount: 30, SplitCount: 1, AmountPerPerson: 30, Category: core.Fun}}
	if err := s.Save(ctx, replacement); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got := s.Load(ctx)
	if len(got) != 1 || got[0].ID != "9" {
		t.Fatalf("expected only replacement record, got %+v", got)
	}
}

func TestClearThenLoadEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
}

func TestLoadCorruptSlotFallsBackToEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)`, s.slotKey, `{not json`)
	if err != nil {
		t.Fatalf("seed corrupt slot: %v", err)
	}

	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty on corrupt payload, got %d", len(got))
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if got := m.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
	if err := m.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := m.Load(ctx)
	if len(got) != 2 {
		t.Fatalf("loaded %d records, want 2", len(got))
	}

	// Mutating the returned slice must not leak into the store.
	got[0].Title = "mutated"
	if m.Load(ctx)[0].Title != "Coffee" {
		t.Fatal("store state leaked through Load result")
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := m.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
}
