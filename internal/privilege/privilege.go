// Package privilege defines the ordered set of privilege levels and the
// ranking used by all authorization checks. The active level set is built
// once at startup and injected; it is never mutated afterwards.
package privilege

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a privilege label. Only the constants below are valid; external
// input must go through Ranking.Parse before it reaches any policy code.
type Level string

const (
	User  Level = "user"
	Mod   Level = "mod"
	Admin Level = "admin"
	Owner Level = "owner"
)

// ErrUnknownLevel is returned by Parse for labels outside the active set.
var ErrUnknownLevel = errors.New("unknown privilege level")

// Ranking is an immutable ordered enumeration of privilege levels. Position
// in the order is the rank: higher rank means more authority.
type Ranking struct {
	levels []Level
	rank   map[Level]int
}

// NewRanking builds a ranking from an ordered level list (lowest first).
// The list must be non-empty, free of duplicates, and drawn from the known
// label constants.
func NewRanking(levels []Level) (*Ranking, error) {
	if len(levels) == 0 {
		return nil, errors.New("privilege: empty level set")
	}
	known := map[Level]bool{User: true, Mod: true, Admin: true, Owner: true}
	r := &Ranking{rank: make(map[Level]int, len(levels))}
	for i, l := range levels {
		if !known[l] {
			return nil, fmt.Errorf("privilege: unknown level %q", l)
		}
		if _, dup := r.rank[l]; dup {
			return nil, fmt.Errorf("privilege: duplicate level %q", l)
		}
		r.levels = append(r.levels, l)
		r.rank[l] = i
	}
	return r, nil
}

// Default returns the canonical four-level ranking.
func Default() *Ranking {
	r, err := NewRanking([]Level{User, Mod, Admin, Owner})
	if err != nil {
		panic(err)
	}
	return r
}

// Parse validates an external label against the active set. Input is
// trimmed and lowercased before matching.
func (r *Ranking) Parse(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := r.rank[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return l, nil
}

// Rank returns the position of l in the order, or -1 for a level outside
// the active set. Callers are expected to pass validated levels only.
func (r *Ranking) Rank(l Level) int {
	if i, ok := r.rank[l]; ok {
		return i
	}
	return -1
}

// AtLeast reports whether a ranks equal to or higher than b.
func (r *Ranking) AtLeast(a, b Level) bool {
	return r.Rank(a) >= r.Rank(b)
}

// StrictlyHigher reports whether a outranks b. Escalation checks must use
// this, never AtLeast: equal rank does not authorize privilege changes.
func (r *Ranking) StrictlyHigher(a, b Level) bool {
	return r.Rank(a) > r.Rank(b)
}

// Lowest returns the bottom level, assigned to every newly created account.
func (r *Ranking) Lowest() Level {
	return r.levels[0]
}

// Highest returns the top level of the active set.
func (r *Ranking) Highest() Level {
	return r.levels[len(r.levels)-1]
}

// Protected returns the owner level and true when the active set includes
// it. Accounts at the protected level can never be deleted through the
// lifecycle operations; three-level deployments have no protected level.
func (r *Ranking) Protected() (Level, bool) {
	if _, ok := r.rank[Owner]; ok {
		return Owner, true
	}
	return "", false
}

// Levels returns a copy of the ordered level set, lowest first.
func (r *Ranking) Levels() []Level {
	out := make([]Level, len(r.levels))
	copy(out, r.levels)
	return out
}
