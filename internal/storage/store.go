// Package storage persists the expense collection as a single JSON blob
// held in one named slot of a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scribble/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultSlotKey matches the storage key the mobile app used for its
// expense blob.
const DefaultSlotKey = "@expenses_data"

// Store is the persistence contract the ledger works against. Load never
// fails: missing or unreadable data degrades to an empty collection.
type Store interface {
	Load(ctx context.Context) []core.Expense
	Save(ctx context.Context, expenses []core.Expense) error
	Clear(ctx context.Context) error
}

type SQLiteStore struct {
	db      *sql.DB
	slotKey string
}

func NewSQLiteStore(dbPath, slotKey string) (*SQLiteStore, error) {
	if slotKey == "" {
		slotKey = DefaultSlotKey
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, slotKey: slotKey}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the slot and decodes it. An absent slot or corrupt payload
// is logged and reported as an empty collection, never an error.
func (s *SQLiteStore) Load(ctx context.Context) []core.Expense {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM slots WHERE key = ?`, s.slotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.Expense{}
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read storage slot",
			"slot", s.slotKey, "error", err)
		return []core.Expense{}
	}

	var expenses []core.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		slog.ErrorContext(ctx, "Corrupt storage slot, falling back to empty",
			"slot", s.slotKey, "error", err)
		return []core.Expense{}
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses
}

// Save replaces the whole slot with the given collection. The write is a
// single UPSERT, so a failure leaves the previous value untouched.
func (s *SQLiteStore) Save(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		s.slotKey, raw)
	if err != nil {
		return fmt.Errorf("write storage slot: %w", err)
	}

	slog.DebugContext(ctx, "Storage slot saved",
		"slot", s.slotKey, "count", len(expenses))
	return nil
}

// Clear removes the slot entirely; a following Load returns empty.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM slots WHERE key = ?`, s.slotKey); err != nil {
		return fmt.Errorf("clear storage slot: %w", err)
	}
	slog.InfoContext(ctx, "Storage slot cleared", "slot", s.slotKey)
	return nil
}
