// Package split implements the even bill-splitting roster: a session-only
// list of people sharing the ledger total, one of whom is the protected
// self entry.
package split

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName            = errors.New("participant name is empty")
	ErrDuplicateParticipant = errors.New("participant already added")
)

// Roster holds the people in the current split session. It is never
// persisted; it lives and dies with the view that created it.
type Roster struct {
	self  string
	added []string
}

// NewRoster creates a roster containing only the protected self entry.
func NewRoster(self string) *Roster {
	self = strings.TrimSpace(self)
	if self == "" {
		self = "Me"
	}
	return &Roster{self: self}
}

// Add appends a participant. Names are trimmed; empty names and names
// already added are rejected. The self entry takes no part in the
// duplicate check.
func (r *Roster) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	for _, p := range r.added {
		if p == name {
			return ErrDuplicateParticipant
		}
	}
	r.added = append(r.added, name)
	return nil
}

// Remove drops the first added participant with the given name. Removing
// the protected self entry is a silent no-op.
func (r *Roster) Remove(name string) {
	if name == r.self {
		return
	}
	for i, p := range r.added {
		if p == name {
			r.added = append(r.added[:i], r.added[i+1:]...)
			return
		}
	}
}

// Participants returns the roster in order, self first.
func (r *Roster) Participants() []string {
	out := make([]string, 0, len(r.added)+1)
	out = append(out, r.self)
	out = append(out, r.added...)
	return out
}

func (r *Roster) Len() int {
	return len(r.added) + 1
}

// PerPersonShare divides the total evenly across the roster. A roster is
// never empty through this API, but the zero guard keeps the contract
// total/0 -> 0 anyway.
func (r *Roster) PerPersonShare(total float64) float64 {
	n := r.Len()
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
