package agent

import (
	"context"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/determinize"
	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/gameclock"
	"github.com/signalnine/darwinggp/gosim/mcts"
)

// BoundedDeterminizer is the mcts.Determinizer the MO-ISMCTS tree consults
// each Step; it holds no belief set of its own and samples from whatever
// state set the tree hands it (each role's bounded determinize.BeliefSet).
type BoundedDeterminizer struct{}

// Sample implements mcts.Determinizer by sampling uniformly from
// possibleStates directly: the belief narrowing itself happens once per
// ply in ISMCTSAgent.Update, not on every search iteration.
func (BoundedDeterminizer) Sample(rng *rand.Rand, possibleStates map[engine.State]struct{}) (engine.State, error) {
	return mcts.UniformDeterminizer{}.Sample(rng, possibleStates)
}

// ISMCTSAgent drives mcts.MOISMCTSTree under imperfect information,
// maintaining one determinize.BeliefSet per role so it can re-seed every
// role's information-set tree after each observed ply (§4.D).
type ISMCTSAgent struct {
	baseAgent

	Eval    mcts.Evaluator
	Rng     *rand.Rand
	Explore float64
	MaxBelief int

	tree     *mcts.MOISMCTSTree
	beliefs  map[engine.Role]*determinize.BeliefSet
}

// NewISMCTSAgent returns an ISMCTSAgent, capping each role's belief set at
// maxBelief members (0 means unbounded).
func NewISMCTSAgent(eval mcts.Evaluator, rng *rand.Rand, maxBelief int) *ISMCTSAgent {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &ISMCTSAgent{Eval: eval, Rng: rng, Explore: mcts.DefaultExplorationParam, MaxBelief: maxBelief}
}

// PrepareMatch implements Agent, seeding every role's belief set with the
// singleton initial state and building the MO-ISMCTS tree over them.
func (a *ISMCTSAgent) PrepareMatch(role engine.Role, interp engine.Interpreter, startClock, playClock gameclock.Config) {
	a.baseAgent.PrepareMatch(role, interp, startClock, playClock)

	roles := interp.Roles()
	a.beliefs = make(map[engine.Role]*determinize.BeliefSet, len(roles))
	views := make(map[engine.Role]engine.View, len(roles))
	possible := make(map[engine.Role]map[engine.State]struct{}, len(roles))

	init := interp.InitState()
	for _, r := range roles {
		a.beliefs[r] = determinize.NewBeliefSet(map[engine.State]struct{}{init: {}})
		views[r] = interp.Sees(context.Background(), init, r)
		possible[r] = a.beliefs[r].States()
	}

	a.tree = mcts.NewMOISMCTSTree(roles, views, possible, interp, a.Eval, BoundedDeterminizer{}, a.Rng, role)
	a.tree.Explore = a.Explore
}

// Update implements Agent: narrows every role's belief set by the turn
// just played and re-roots that role's information-set tree accordingly.
func (a *ISMCTSAgent) Update(ctx context.Context, turn engine.Turn, newState engine.State) {
	for _, r := range a.Interp.Roles() {
		move, ok := turn.MoveOf(r)
		if !ok {
			continue
		}
		newView := a.Interp.Sees(ctx, newState, r)
		if err := a.beliefs[r].Advance(ctx, a.Interp, r, move, newView); err != nil {
			// The observed ply was inconsistent with every tracked belief
			// (a malformed ruleset, or a belief that drifted): reseed
			// from the single concrete state we do know is true.
			a.beliefs[r] = determinize.NewBeliefSet(map[engine.State]struct{}{newState: {}})
		}
		a.beliefs[r].Bound(a.MaxBelief, a.Rng)
		a.tree.Advance(r, move, newView, a.beliefs[r].States())
	}
}

// CalculateMove implements Agent: searches for up to the play clock's
// budget, then returns a.Role's tree's most-visited move.
func (a *ISMCTSAgent) CalculateMove(ctx context.Context) (engine.Move, error) {
	a.playClock.Arm()
	_, err := repeat(ctx, a.playClock.Remaining(), a.tree.Step, nil)
	a.playClock.Stop()
	if err != nil {
		return "", err
	}

	move, ok := a.tree.BestMove(a.Role)
	if !ok {
		belief := a.beliefs[a.Role]
		state, err := belief.Sample(a.Rng)
		if err != nil {
			return "", err
		}
		moves, err := a.Interp.LegalMoves(ctx, state, a.Role)
		if err != nil {
			return "", err
		}
		if len(moves) == 0 {
			return "", engine.ErrUnsatLegal
		}
		return moves[a.Rng.Intn(len(moves))], nil
	}
	return move, nil
}
