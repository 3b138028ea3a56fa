package core

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	Food   Category = "Food"
	Travel Category = "Travel"
	Fun    Category = "Fun"
	Other  Category = "Other"
)

type (
	Category string

	// Expense is one recorded purchase. Immutable once created: there is
	// no edit operation, so AmountPerPerson keeps the value computed at
	// creation time.
	Expense struct {
		ID              string   `json:"id"`
		Title           string   `json:"title"`
		Amount          float64  `json:"amount"`
		Date            string   `json:"date"`
		Category        Category `json:"category"`
		IsImportant     bool     `json:"isImportant"`
		SplitCount      int      `json:"splitCount"`
		AmountPerPerson float64  `json:"amountPerPerson"`
	}

	// Candidate carries raw user input for a new expense. Amount stays a
	// string until validation so a bad value can be reported as
	// ErrNotANumber instead of silently becoming zero.
	Candidate struct {
		Title       string
		Amount      string
		Date        string
		Category    Category
		IsImportant bool
		SplitCount  int
	}
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrNotANumber   = errors.New("amount is not a number")
)

// Categories lists the fixed category set in display order.
func Categories() []Category {
	return []Category{Food, Travel, Fun, Other}
}

// Icon returns the display tag shown next to the category label.
func (c Category) Icon() string {
	switch c {
	case Food:
		return "🍔"
	case Travel:
		return "🚌"
	case Fun:
		return "🎮"
	case Other:
		return "🎒"
	}
	return "🍔"
}

// Normalize maps unknown or empty categories to Food, the default.
func (c Category) Normalize() Category {
	switch c {
	case Food, Travel, Fun, Other:
		return c
	}
	return Food
}

func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return ErrMissingField
	}
	if strings.TrimSpace(c.Amount) == "" {
		return ErrMissingField
	}
	if _, err := ParseAmount(c.Amount); err != nil {
		return err
	}
	return nil
}

// NewExpense builds an Expense from a validated candidate. The caller is
// expected to have run Validate first; an invalid amount is rejected here
// too so a record with Amount <= 0 can never be constructed.
func NewExpense(c Candidate) (Expense, error) {
	if err := c.Validate(); err != nil {
		return Expense{}, err
	}
	amount, err := ParseAmount(c.Amount)
	if err != nil {
		return Expense{}, err
	}
	split := c.SplitCount
	if split < 1 {
		split = 1
	}
	return Expense{
		ID:              uuid.NewString(),
		Title:           strings.TrimSpace(c.Title),
		Amount:          amount,
		Date:            strings.TrimSpace(c.Date),
		Category:        c.Category.Normalize(),
		IsImportant:     c.IsImportant,
		SplitCount:      split,
		AmountPerPerson: amount / float64(split),
	}, nil
}
