// Package determinize tracks the set of ground-truth states an
// imperfect-information role's observation history is consistent with
// (its belief), and samples a single concrete determinization for the
// search core to roll out against (§4.H).
package determinize

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ErrEmptyBelief is returned by Advance when filtering leaves no state
// consistent with the observation just received: a malformed ruleset, or
// a belief set that was never seeded correctly.
var ErrEmptyBelief = errors.New("determinize: belief set is empty after filtering")

// BeliefSet is the non-empty set of states consistent with everything a
// role has observed so far.
type BeliefSet struct {
	states map[engine.State]struct{}
}

// NewBeliefSet seeds a belief set from its initial members (e.g. a
// singleton containing Interpreter.InitState() for a role with no hidden
// information yet, or every state the starting view admits).
func NewBeliefSet(states map[engine.State]struct{}) *BeliefSet {
	copied := make(map[engine.State]struct{}, len(states))
	for s := range states {
		copied[s] = struct{}{}
	}
	return &BeliefSet{states: copied}
}

// States returns the belief set's members. Callers must not mutate the
// returned map.
func (b *BeliefSet) States() map[engine.State]struct{} { return b.states }

// Len returns the number of states currently in the belief set.
func (b *BeliefSet) Len() int { return len(b.states) }

// Advance replaces the belief set with the successors of its current
// members that are reachable by role playing move and are consistent
// with newView (§4.H): for every state s in the old set and every legal
// turn t at s with t's play for role equal to move, next_state(s, t) is
// kept iff sees(next, role) == newView. Returns ErrEmptyBelief if nothing
// survives the filter.
func (b *BeliefSet) Advance(ctx context.Context, interp engine.Interpreter, role engine.Role, move engine.Move, newView engine.View) error {
	next := make(map[engine.State]struct{})

	for state := range b.states {
		inControl := false
		for _, r := range interp.RolesInControl(ctx, state) {
			if r == role {
				inControl = true
				break
			}
		}
		if !inControl {
			continue
		}

		turns, err := engine.FixedPlayLegalTurns(ctx, interp, state, engine.Play{Role: role, Move: move})
		if err != nil {
			if errors.Is(err, engine.ErrUnsatLegal) {
				continue
			}
			return err
		}

		for _, turn := range turns {
			candidate, err := interp.NextState(ctx, state, turn)
			if err != nil {
				return err
			}
			if interp.Sees(ctx, candidate, role) == newView {
				next[candidate] = struct{}{}
			}
		}
	}

	if len(next) == 0 {
		return ErrEmptyBelief
	}
	b.states = next
	return nil
}

// Sample draws one state from the belief set uniformly at random, in
// sorted order so the draw is reproducible for a given rng and seed.
func (b *BeliefSet) Sample(rng *rand.Rand) (engine.State, error) {
	if len(b.states) == 0 {
		return "", ErrEmptyBelief
	}
	states := maps.Keys(b.states)
	slices.Sort(states)
	return states[rng.Intn(len(states))], nil
}

// Bound caps the belief set at k members, keeping a uniformly random
// sorted-order subset, so a long-running match's belief set cannot grow
// without bound when a ruleset admits an unbounded number of consistent
// determinizations (e.g. an unseen shuffled deck). k <= 0 is a no-op.
func (b *BeliefSet) Bound(k int, rng *rand.Rand) {
	if k <= 0 || len(b.states) <= k {
		return
	}
	states := maps.Keys(b.states)
	slices.Sort(states)
	rng.Shuffle(len(states), func(i, j int) { states[i], states[j] = states[j], states[i] })

	kept := make(map[engine.State]struct{}, k)
	for _, s := range states[:k] {
		kept[s] = struct{}{}
	}
	b.states = kept
}
