// Package core holds the expense domain model: records, categories,
// amount parsing and date ordering.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a user-entered amount string to a positive value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrNotANumber for anything that does not parse or is not
// strictly positive; a leading sign is rejected outright.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingField
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrNotANumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrNotANumber
	}
	return v, nil
}

// FormatAmount renders a value the way the UI shows money, two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
