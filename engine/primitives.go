// Package engine defines the opaque value types and the interpreter
// contract that the search core (package mcts) and the agent driver
// (package agent) are built against. Nothing in this package knows about
// any particular game; concrete games live behind the Interpreter
// interface (see interpreter.go), for example the card-game genome
// interpreter in package genome.
package engine

import (
	"sort"
	"strings"
)

// State is an opaque, immutable set of ground facts. Two states compare
// equal with == iff they represent the same set of facts; callers must
// construct states through an Interpreter rather than by hand.
type State string

// View is a (partial) State: the subset of facts a single role observes.
type View string

// Role identifies one of the players/seats of a game.
type Role string

// Move is a single role's action.
type Move string

// Random is the conventional role representing chance moves, matching the
// GGP convention of a "random" player for stochastic games.
const Random Role = "random"

// Play pairs a role with the move it made.
type Play struct {
	Role Role
	Move Move
}

// Turn is a joint action: exactly one play per role currently in control.
// The zero value is the empty turn. Turn is comparable once canonicalized
// via NewTurn, which sorts plays by role so that two turns built from the
// same (role, move) pairs in any order produce identical Key() strings.
type Turn struct {
	plays []Play
}

// NewTurn builds a canonical Turn from a set of plays, sorted by role so
// that Key() is order-independent.
func NewTurn(plays ...Play) Turn {
	sorted := make([]Play, len(plays))
	copy(sorted, plays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Role < sorted[j].Role })
	return Turn{plays: sorted}
}

// AsPlays returns the plays of the turn in canonical (sorted-by-role) order.
func (t Turn) AsPlays() []Play {
	out := make([]Play, len(t.plays))
	copy(out, t.plays)
	return out
}

// Key returns a canonical string uniquely identifying the turn, suitable
// for use as a map key (e.g. Node.children) and as the deterministic
// tie-break sort key required by the UCT selection policy.
func (t Turn) Key() string {
	var b strings.Builder
	for i, p := range t.plays {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(p.Role))
		b.WriteByte('=')
		b.WriteString(string(p.Move))
	}
	return b.String()
}

// MoveOf returns the move the given role plays in this turn, and whether
// that role is part of the turn at all.
func (t Turn) MoveOf(role Role) (Move, bool) {
	for _, p := range t.plays {
		if p.Role == role {
			return p.Move, true
		}
	}
	return "", false
}

// Goals maps each role to its terminal-state goal value. GGP convention
// puts these in [0, 100], but the engine tolerates any integer.
type Goals map[Role]int
