package mcts

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ErrNoPossibleStates is returned when an InfoSetNode's possible-states set
// is empty, so no determinization can be sampled from it.
var ErrNoPossibleStates = errors.New("mcts: information set has no possible states")

// Determinizer samples one concrete State consistent with an information
// set, given a source of randomness. agent.BoundedDeterminizer is the
// production implementation; tests may substitute a fixed sampler.
type Determinizer interface {
	Sample(rng *rand.Rand, possibleStates map[engine.State]struct{}) (engine.State, error)
}

// UniformDeterminizer samples uniformly at random among possible states,
// in sorted order so the choice is reproducible for a fixed rng and seed.
type UniformDeterminizer struct{}

// Sample implements Determinizer.
func (UniformDeterminizer) Sample(rng *rand.Rand, possibleStates map[engine.State]struct{}) (engine.State, error) {
	if len(possibleStates) == 0 {
		return "", ErrNoPossibleStates
	}
	states := make([]engine.State, 0, len(possibleStates))
	for s := range possibleStates {
		states = append(states, s)
	}
	sortStates(states)
	return states[rng.Intn(len(states))], nil
}

func sortStates(states []engine.State) {
	for i := 1; i < len(states); i++ {
		for j := i; j > 0 && states[j] < states[j-1]; j-- {
			states[j], states[j-1] = states[j-1], states[j]
		}
	}
}

// MOISMCTSTree drives multi-observer information-set MCTS (§4.D): one
// InfoSetNode tree per role, searched jointly by sampling a single shared
// determinization at the start of every Step and descending every role's
// tree against that one ground-truth state in lockstep, the way Cowling et
// al.'s MO-ISMCTS couples otherwise-independent per-role trees.
type MOISMCTSTree struct {
	Roots         map[engine.Role]*InfoSetNode
	Interp        engine.Interpreter
	Eval          Evaluator
	Determinizer  Determinizer
	Rng           *rand.Rand
	Explore       float64
	SearchingRole engine.Role
}

// NewMOISMCTSTree builds one InfoSetNode root per role, each seeded with
// the same possible-states set (the belief before any role-specific move
// has been observed).
func NewMOISMCTSTree(
	roles []engine.Role,
	views map[engine.Role]engine.View,
	possibleStates map[engine.Role]map[engine.State]struct{},
	interp engine.Interpreter,
	eval Evaluator,
	determinizer Determinizer,
	rng *rand.Rand,
	searchingRole engine.Role,
) *MOISMCTSTree {
	roots := make(map[engine.Role]*InfoSetNode, len(roles))
	for _, role := range roles {
		roots[role] = NewInfoSetRoot(role, views[role], possibleStates[role])
	}
	return &MOISMCTSTree{
		Roots:         roots,
		Interp:        interp,
		Eval:          eval,
		Determinizer:  determinizer,
		Rng:           rng,
		Explore:       DefaultExplorationParam,
		SearchingRole: searchingRole,
	}
}

// Step performs one MO-ISMCTS iteration: sample a single determinization,
// then for every role's tree independently descend-by-UCT, expand, and
// backpropagate using that same sampled ground truth as rollout source
// (§4.D). Roles whose current information set admits no legal move in the
// sampled state are skipped for this iteration rather than erroring, since
// a determinization inconsistent with one role's turn order is routine.
func (t *MOISMCTSTree) Step(ctx context.Context) error {
	for _, role := range sortedRoles(t.Roots) {
		root := t.Roots[role]
		playState, err := t.Determinizer.Sample(t.Rng, root.possibleStates)
		if err != nil {
			return err
		}

		node := root
		for node.Expanded() && !t.Interp.IsTerminal(ctx, playState) {
			next := node.BestChild(t.Explore, t.SearchingRole)
			if next == nil {
				break
			}
			advanced, err := t.advance(ctx, playState, role, next.Move())
			if err != nil {
				return err
			}
			playState = advanced
			node = next
		}

		if !t.Interp.IsTerminal(ctx, playState) {
			if err := node.Expand(ctx, t.Interp); err != nil {
				return err
			}
			if child := randomInfoSetChild(node, t.Rng); child != nil {
				advanced, err := t.advance(ctx, playState, role, child.Move())
				if err != nil {
					return err
				}
				playState = advanced
				node = child
			}
		}

		val, err := t.Eval.Evaluate(ctx, playState, t.SearchingRole, t.Interp)
		if err != nil {
			return err
		}

		for n := node; n != nil; n = n.parent {
			n.visits++
			if n.val == nil {
				n.val = val
			} else {
				n.val = n.val.Backpropagate(val)
			}
		}
	}
	return nil
}

// advance plays role's committed move forward from playState, sampling
// uniformly among the other controlling roles' legal combinations, so the
// concrete rollout state tracks the same edge the abstract InfoSetNode
// descent just took.
func (t *MOISMCTSTree) advance(ctx context.Context, playState engine.State, role engine.Role, move engine.Move) (engine.State, error) {
	turns, err := engine.FixedPlayLegalTurns(ctx, t.Interp, playState, engine.Play{Role: role, Move: move})
	if err != nil {
		return "", err
	}
	turn := turns[t.Rng.Intn(len(turns))]
	return t.Interp.NextState(ctx, playState, turn)
}

func randomInfoSetChild(node *InfoSetNode, rng *rand.Rand) *InfoSetNode {
	moves := sortedMoves(moveSetOf(node.children))
	if len(moves) == 0 {
		return nil
	}
	return node.children[moves[rng.Intn(len(moves))]]
}

func moveSetOf(children map[engine.Move]*InfoSetNode) map[engine.Move]struct{} {
	set := make(map[engine.Move]struct{}, len(children))
	for m := range children {
		set[m] = struct{}{}
	}
	return set
}

func sortedRoles(roots map[engine.Role]*InfoSetNode) []engine.Role {
	roles := make([]engine.Role, 0, len(roots))
	for r := range roots {
		roles = append(roles, r)
	}
	for i := 1; i < len(roles); i++ {
		for j := i; j > 0 && roles[j] < roles[j-1]; j-- {
			roles[j], roles[j-1] = roles[j-1], roles[j]
		}
	}
	return roles
}

// BestMove returns role's tree's most-visited child move.
func (t *MOISMCTSTree) BestMove(role engine.Role) (engine.Move, bool) {
	root, ok := t.Roots[role]
	if !ok {
		return "", false
	}
	child := root.MostVisited(t.SearchingRole)
	if child == nil {
		return "", false
	}
	return child.Move(), true
}

// Advance moves role's root to the child keyed by the move actually played,
// reusing that subtree the way Tree.Update does for perfect-information
// search, or discards and rebuilds from newPossibleStates on a cache miss.
func (t *MOISMCTSTree) Advance(role engine.Role, move engine.Move, newView engine.View, newPossibleStates map[engine.State]struct{}) {
	root, ok := t.Roots[role]
	if ok && root.expanded {
		if child, ok := root.children[move]; ok {
			child.parent = nil
			t.Roots[role] = child
			return
		}
	}
	t.Roots[role] = NewInfoSetRoot(role, newView, newPossibleStates)
}
