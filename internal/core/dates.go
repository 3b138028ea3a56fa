package core

import (
	"sort"
	"time"
)

// Date strings are free text, so ordering has to tolerate whatever the
// user typed. These are the layouts we try, most specific first.
var dateLayouts = []string{
	"2006/01/02",
	"2006-01-02",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate attempts to interpret a free-text date string. The second
// return value is false when no known layout matches.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByDateDesc orders expenses newest first. Records whose date does
// not parse sort after all parseable ones; equal or unparseable dates
// keep their relative insertion order.
func SortByDateDesc(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		ti, oki := ParseDate(expenses[i].Date)
		tj, okj := ParseDate(expenses[j].Date)
		if oki && okj {
			return ti.After(tj)
		}
		// Parseable dates come before unparseable ones.
		return oki && !okj
	})
}
