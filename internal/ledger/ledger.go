// Package ledger owns the in-memory expense collection and its
// persistence. All mutations are serialized: the store never sees two
// writes in flight, which is what keeps last-write-wins safe.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"scribble/internal/core"
	"scribble/internal/storage"
)

type Ledger struct {
	mu       sync.Mutex
	store    storage.Store
	expenses []core.Expense
	loaded   bool
}

func New(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

// ensureLoaded pulls the collection from storage on first use.
// Caller must hold l.mu.
func (l *Ledger) ensureLoaded(ctx context.Context) {
	if l.loaded {
		return
	}
	l.expenses = l.store.Load(ctx)
	l.loaded = true
}

// Reload re-reads the collection from storage, discarding the in-memory
// copy. Views call this when they become active.
func (l *Ledger) Reload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expenses = l.store.Load(ctx)
	l.loaded = true
}

// Add validates the candidate, assigns a fresh id, computes the
// per-person amount and persists the grown collection. A validation
// failure leaves both memory and storage untouched. A persistence
// failure is soft: the record stays in the session's collection and the
// error is returned for the caller to surface.
func (l *Ledger) Add(ctx context.Context, c core.Candidate) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	e, err := core.NewExpense(c)
	if err != nil {
		return core.Expense{}, err
	}

	l.expenses = append(l.expenses, e)

	if err := l.store.Save(ctx, l.expenses); err != nil {
		slog.ErrorContext(ctx, "Failed to persist expense, kept in session",
			"id", e.ID, "title", e.Title, "error", err)
		return e, fmt.Errorf("persist expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense added",
		"id", e.ID,
		"title", e.Title,
		"amount", e.Amount,
		"category", e.Category,
		"split_count", e.SplitCount)
	return e, nil
}

// Remove deletes the record with the given id and persists the result.
// An unknown id is a no-op, not an error.
func (l *Ledger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	kept := l.expenses[:0]
	removed := false
	for _, e := range l.expenses {
		if e.ID == id && !removed {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return nil
	}
	l.expenses = kept

	if err := l.store.Save(ctx, l.expenses); err != nil {
		slog.ErrorContext(ctx, "Failed to persist removal", "id", id, "error", err)
		return fmt.Errorf("persist removal: %w", err)
	}

	slog.InfoContext(ctx, "Expense removed", "id", id)
	return nil
}

// List returns the collection sorted by date descending. Records whose
// date does not parse sort last; ties keep insertion order.
func (l *Ledger) List(ctx context.Context) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	out := make([]core.Expense, len(l.expenses))
	copy(out, l.expenses)
	core.SortByDateDesc(out)
	return out
}

// Total sums the amounts of all records; 0 for an empty collection.
func (l *Ledger) Total(ctx context.Context) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	var sum float64
	for _, e := range l.expenses {
		sum += e.Amount
	}
	return sum
}

func (l *Ledger) Count(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)
	return len(l.expenses)
}

// TotalsByCategory aggregates amounts per category. Categories with no
// expenses are absent from the result.
func (l *Ledger) TotalsByCategory(ctx context.Context) map[core.Category]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureLoaded(ctx)

	totals := make(map[core.Category]float64)
	for _, e := range l.expenses {
		totals[e.Category.Normalize()] += e.Amount
	}
	return totals
}

// ClearAll empties the collection and removes the storage slot.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to clear storage", "error", err)
		return fmt.Errorf("clear storage: %w", err)
	}

	l.expenses = []core.Expense{}
	l.loaded = true
	slog.InfoContext(ctx, "Ledger cleared")
	return nil
}
