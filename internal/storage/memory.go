package storage

import (
	"context"
	"sync"

	"scribble/internal/core"
)

// Memory is an in-process Store. It backs the default no-database setup
// and serves as the test double for the ledger.
type Memory struct {
	mu       sync.Mutex
	expenses []core.Expense
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) []core.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Expense, len(m.expenses))
	copy(out, m.expenses)
	return out
}

func (m *Memory) Save(_ context.Context, expenses []core.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = make([]core.Expense, len(expenses))
	copy(m.expenses, expenses)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses = nil
	return nil
}
