package agent

import (
	"context"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/gameclock"
	"github.com/signalnine/darwinggp/gosim/mcts"
)

// MCTSAgent drives a perfect-information mcts.Tree under the play clock's
// time budget, projecting each iteration's cost the way the original
// Repeater does (§4.G). It short-circuits immediately when the root has
// only one legal turn, or when every root child is an already-visited
// terminal state (a solved position needs no further search).
type MCTSAgent struct {
	baseAgent

	Eval    mcts.Evaluator
	Rng     *rand.Rand
	Explore float64

	tree *mcts.Tree
}

// NewMCTSAgent returns an MCTSAgent using eval to score rollouts and rng
// as its source of randomness (a fresh one if nil).
func NewMCTSAgent(eval mcts.Evaluator, rng *rand.Rand) *MCTSAgent {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &MCTSAgent{Eval: eval, Rng: rng, Explore: mcts.DefaultExplorationParam}
}

// PrepareMatch implements Agent, building the search tree rooted at the
// ruleset's initial state.
func (a *MCTSAgent) PrepareMatch(role engine.Role, interp engine.Interpreter, startClock, playClock gameclock.Config) {
	a.baseAgent.PrepareMatch(role, interp, startClock, playClock)
	a.tree = mcts.NewTree(interp.InitState(), interp, a.Eval, a.Rng, role)
	a.tree.Explore = a.Explore
}

// Update implements Agent, re-rooting the tree at the turn that was
// actually played (§4.F) rather than discarding accumulated search.
func (a *MCTSAgent) Update(ctx context.Context, turn engine.Turn, newState engine.State) {
	a.tree.Update(ctx, turn, newState)
}

// CalculateMove implements Agent: searches for up to the play clock's
// budget, then returns the most-visited root child's move for a.Role.
// Short-circuits to the single legal move when there is exactly one, and
// to a resolved root once every child is fully explored to a determined
// outcome (every child a terminal state with at least one visit).
func (a *MCTSAgent) CalculateMove(ctx context.Context) (engine.Move, error) {
	root := a.tree.Root
	if !root.Expanded() {
		if err := root.Expand(ctx, a.Interp); err != nil {
			return "", err
		}
	}

	if len(root.Children()) == 1 {
		for _, child := range root.Children() {
			return moveOf(child.Turn(), a.Role)
		}
	}

	a.playClock.Arm()
	_, err := repeat(ctx, a.playClock.Remaining(), a.tree.Step, func() bool {
		return solved(ctx, a.Interp, root)
	})
	a.playClock.Stop()
	if err != nil {
		return "", err
	}

	turn, ok := a.tree.BestMove()
	if !ok {
		// Never stepped (zero-time clock, or a terminal root): fall back
		// to any legal move rather than returning an error, matching
		// scenario 3's "always return a legal move" guarantee.
		moves, err := a.Interp.LegalMoves(ctx, root.State(), a.Role)
		if err != nil {
			return "", err
		}
		if len(moves) == 0 {
			return "", engine.ErrUnsatLegal
		}
		return moves[a.Rng.Intn(len(moves))], nil
	}
	return moveOf(turn, a.Role)
}

func moveOf(turn engine.Turn, role engine.Role) (engine.Move, error) {
	move, ok := turn.MoveOf(role)
	if !ok {
		return "", engine.ErrUnsatNext
	}
	return move, nil
}

// solved reports whether every root child is a terminal state that has
// been visited at least once: each child's outcome is then fixed, so
// further search cannot change what any child is worth.
func solved(ctx context.Context, interp engine.Interpreter, root *mcts.Node) bool {
	if len(root.Children()) == 0 {
		return false
	}
	for _, child := range root.Children() {
		if child.Visits() == 0 || !child.IsTerminal(ctx, interp) {
			return false
		}
	}
	return true
}
