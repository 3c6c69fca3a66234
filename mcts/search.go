package mcts

import (
	"context"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// Tree drives perfect-information MCTS over a single Interpreter-backed
// game from one role's perspective. It generalizes the teacher's
// Search()/expand()/simulate()/backpropagate() free functions (originally
// specialized to *cardengine.GameState and a bytecode genome) into a
// reusable, stateful object that can be Step()'d incrementally and
// Update()'d as observations arrive (see update.go), rather than run to
// completion in one blocking call.
type Tree struct {
	Root        *Node
	Interp      engine.Interpreter
	Eval        Evaluator
	Rng         *rand.Rand
	Explore     float64
	Perspective engine.Role
}

// NewTree builds a Tree rooted at state, searching for Perspective's
// benefit.
func NewTree(state engine.State, interp engine.Interpreter, eval Evaluator, rng *rand.Rand, perspective engine.Role) *Tree {
	return &Tree{
		Root:        NewRoot(state),
		Interp:      interp,
		Eval:        eval,
		Rng:         rng,
		Explore:     DefaultExplorationParam,
		Perspective: perspective,
	}
}

// Step performs one full MCTS iteration: selection, expansion, rollout,
// and backpropagation (§4.F). A Step is the atomic unit of search; no
// partial valuation is ever observable between two Step calls (§5).
func (t *Tree) Step(ctx context.Context) error {
	node := t.Root

	// 1. Selection: descend by UCT until an unexpanded or terminal node.
	for node.Expanded() && !node.IsTerminal(ctx, t.Interp) {
		next := node.BestChild(t.Explore, t.Perspective)
		if next == nil {
			break
		}
		node = next
	}

	// 2. Expansion: expand once, then continue the rollout from a
	// uniformly random child so unexplored lines get sampled too.
	if !node.IsTerminal(ctx, t.Interp) {
		if err := node.Expand(ctx, t.Interp); err != nil {
			return err
		}
		if child := randomChild(node, t.Rng); child != nil {
			node = child
		}
	}

	// 3. Rollout.
	val, err := t.Eval.Evaluate(ctx, node.State(), t.Perspective, t.Interp)
	if err != nil {
		return err
	}

	// 4. Backpropagation: walk from the rollout's source up to the root.
	for n := node; n != nil; n = n.parent {
		n.visits++
		if n.val == nil {
			n.val = val
		} else {
			n.val = n.val.Backpropagate(val)
		}
	}

	return nil
}

// randomChild returns a uniformly random child of node, using rng so
// searches are reproducible under a fixed seed, or nil if node has no
// children (e.g. a terminal node that "expanded" into zero children).
func randomChild(node *Node, rng *rand.Rand) *Node {
	keys := sortedChildKeys(node.children)
	if len(keys) == 0 {
		return nil
	}
	return node.children[keys[rng.Intn(len(keys))]]
}

// BestMove returns the root's most-visited child's turn: the move
// ultimately reported by the agent driver (§4.G).
func (t *Tree) BestMove() (engine.Turn, bool) {
	child := t.Root.MostVisited(t.Perspective)
	if child == nil {
		return engine.Turn{}, false
	}
	return child.Turn(), true
}

// TotalVisits returns the sum of visit counts over the root's children,
// which after N completed Step calls must equal N (V4).
func (t *Tree) TotalVisits() int {
	total := 0
	for _, child := range t.Root.children {
		total += child.visits
	}
	return total
}
