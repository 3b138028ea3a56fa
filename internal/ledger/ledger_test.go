package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"scribble/internal/core"
	"scribble/internal/storage"
)

func newTestLedger() (*Ledger, *storage.Memory) {
	mem := storage.NewMemory()
	return New(mem), mem
}

func TestAddIncrementsCountAndComputesShare(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	e, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", Date: "2025/01/15", SplitCount: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := l.Count(ctx); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
	if math.Abs(e.AmountPerPerson-20) > 1e-9 {
		t.Fatalf("amount per person = %v, want 20", e.AmountPerPerson)
	}
}

func TestAddPersistsCollection(t *testing.T) {
	l, mem := newTestLedger()
	ctx := context.Background()

	if _, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", SplitCount: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	stored := mem.Load(ctx)
	if len(stored) != 1 || stored[0].Title != "Coffee" {
		t.Fatalf("stored = %+v, want the added record", stored)
	}
}

func TestAddValidationLeavesLedgerUntouched(t *testing.T) {
	l, mem := newTestLedger()
	ctx := context.Background()

	cases := []struct {
		name string
		c    core.Candidate
		want error
	}{
		{"missing title", core.Candidate{Title: "", Amount: "10"}, core.ErrMissingField},
		{"bad amount", core.Candidate{Title: "X", Amount: "abc"}, core.ErrNotANumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Add(ctx, tc.c)
			if !errors.Is(err, tc.want) {
				t.Fatalf("add error = %v, want %v", err, tc.want)
			}
			if got := l.Count(ctx); got != 0 {
				t.Fatalf("count = %d, want 0", got)
			}
			if stored := mem.Load(ctx); len(stored) != 0 {
				t.Fatalf("storage mutated: %+v", stored)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	e, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", SplitCount: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := l.Remove(ctx, e.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, rec := range l.List(ctx) {
		if rec.ID == e.ID {
			t.Fatalf("record %q still listed after removal", e.ID)
		}
	}

	// Removing an unknown id is a silent no-op.
	before := l.Count(ctx)
	if err := l.Remove(ctx, "no-such-id"); err != nil {
		t.Fatalf("remove unknown: %v", err)
	}
	if got := l.Count(ctx); got != before {
		t.Fatalf("count changed on unknown id: %d -> %d", before, got)
	}
}

func TestTotalEqualsSumOverList(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	amounts := []string{"40", "60", "12.5", "0.01"}
	for _, a := range amounts {
		if _, err := l.Add(ctx, core.Candidate{Title: "X", Amount: a, SplitCount: 1}); err != nil {
			t.Fatalf("add %s: %v", a, err)
		}
	}

	var sum float64
	for _, e := range l.List(ctx) {
		sum += e.Amount
	}
	if math.Abs(l.Total(ctx)-sum) > 1e-9 {
		t.Fatalf("total = %v, sum over list = %v", l.Total(ctx), sum)
	}
}

func TestCoffeeAndSnacksScenario(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	coffee, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", Date: "2025/01/10", SplitCount: 2})
	if err != nil {
		t.Fatalf("add coffee: %v", err)
	}
	if math.Abs(coffee.AmountPerPerson-20) > 1e-9 {
		t.Fatalf("coffee per person = %v, want 20", coffee.AmountPerPerson)
	}

	if _, err := l.Add(ctx, core.Candidate{Title: "Snacks", Amount: "60", Date: "2025/01/12", SplitCount: 1}); err != nil {
		t.Fatalf("add snacks: %v", err)
	}

	if math.Abs(l.Total(ctx)-100) > 1e-9 {
		t.Fatalf("total = %v, want 100", l.Total(ctx))
	}
	if got := l.Count(ctx); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}

	list := l.List(ctx)
	if list[0].Title != "Snacks" || list[1].Title != "Coffee" {
		t.Fatalf("list order = [%s, %s], want newest first", list[0].Title, list[1].Title)
	}
}

func TestTotalsByCategory(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	add := func(title, amount string, cat core.Category) {
		t.Helper()
		if _, err := l.Add(ctx, core.Candidate{Title: title, Amount: amount, Category: cat, SplitCount: 1}); err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}
	add("Burger", "10", core.Food)
	add("Pizza", "15", core.Food)
	add("Bus", "5", core.Travel)

	totals := l.TotalsByCategory(ctx)
	if math.Abs(totals[core.Food]-25) > 1e-9 {
		t.Fatalf("food total = %v, want 25", totals[core.Food])
	}
	if math.Abs(totals[core.Travel]-5) > 1e-9 {
		t.Fatalf("travel total = %v, want 5", totals[core.Travel])
	}
	if _, ok := totals[core.Fun]; ok {
		t.Fatal("expected no entry for a category with no expenses")
	}
}

func TestClearAll(t *testing.T) {
	l, mem := newTestLedger()
	ctx := context.Background()

	if _, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", SplitCount: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := l.Count(ctx); got != 0 {
		t.Fatalf("count = %d, want 0", got)
	}
	if stored := mem.Load(ctx); len(stored) != 0 {
		t.Fatalf("storage not cleared: %+v", stored)
	}
}

func TestReloadPicksUpStoreState(t *testing.T) {
	mem := storage.NewMemory()
	ctx := context.Background()

	seed := []core.Expense{{ID: "1", Title: "Seeded", Amount: 5, SplitCount: 1, AmountPerPerson: 5, Category: core.Other}}
	if err := mem.Save(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	l := New(mem)
	if got := l.Count(ctx); got != 1 {
		t.Fatalf("count = %d, want 1 after lazy load", got)
	}

	if err := mem.Save(ctx, nil); err != nil {
		t.Fatalf("reset store: %v", err)
	}
	l.Reload(ctx)
	if got := l.Count(ctx); got != 0 {
		t.Fatalf("count = %d, want 0 after reload", got)
	}
}

// failingStore wraps Memory and fails every Save.
type failingStore struct {
	*storage.Memory
}

var errDiskFull = errors.New("disk full")

func (f *failingStore) Save(context.Context, []core.Expense) error {
	return errDiskFull
}

func TestAddSoftFailureKeepsRecordInSession(t *testing.T) {
	l := New(&failingStore{storage.NewMemory()})
	ctx := context.Background()

	e, err := l.Add(ctx, core.Candidate{Title: "Coffee", Amount: "40", SplitCount: 1})
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected wrapped save error, got %v", err)
	}
	if e.ID == "" {
		t.Fatal("expected the record back despite the save failure")
	}
	if got := l.Count(ctx); got != 1 {
		t.Fatalf("count = %d, want 1 (record kept in session)", got)
	}
}
