package mcts

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ErrValuationMissing is returned (or panicked with, at call sites that
// cannot return an error) when a never-visited node's valuation is
// queried — a programming error, not a search failure.
var ErrValuationMissing = errors.New("mcts: valuation queried on a never-visited node")

// Evaluator scores a state from role's perspective, consulting interp as
// needed. Composable: LightPlayoutEvaluator wraps another Evaluator used
// once the rollout reaches a terminal state.
type Evaluator interface {
	Evaluate(ctx context.Context, state engine.State, role engine.Role, interp engine.Interpreter) (Valuation, error)
}

// GoalNormalizedUtilityEvaluator turns terminal goals into a
// PlayoutValuation via the threshold buckets from the design spec:
// u(role) >= 1 is a win, u(role) <= 0 is a loss, anything in between is a
// tie. Every role in the game receives a bucket increment, not just the
// perspective role, so that PlayoutValuation.Playouts() stays consistent
// across roles after backpropagation.
type GoalNormalizedUtilityEvaluator struct{}

// Evaluate requires state to be terminal; interp.Goals(state) supplies the
// raw integers that GoalNormalizedUtility renormalizes.
func (GoalNormalizedUtilityEvaluator) Evaluate(ctx context.Context, state engine.State, _ engine.Role, interp engine.Interpreter) (Valuation, error) {
	goals, err := interp.Goals(ctx, state)
	if err != nil {
		return nil, err
	}

	val := NewPlayoutValuation()
	for _, role := range interp.Roles() {
		u := GoalNormalizedUtility(goals, role)
		switch {
		case u >= 1:
			val.Wins[role]++
		case u <= 0:
			val.Losses[role]++
		default:
			val.Ties[role]++
		}
	}
	return val, nil
}

// GoalNormalizedUtility computes, for role, the fraction of other roles
// role strictly beats plus half the fraction it ties (excluding itself),
// normalized to [0, 1]. Yields 0 for a strict loser, 1 for a strict
// winner, 0.5 under pure ties, and is symmetric in between. Comparisons
// use the raw goal integers directly: a goal outside the conventional
// [0, 100] GGP range is never clamped or special-cased, since the formula
// is already well-defined for arbitrary integers.
func GoalNormalizedUtility(goals engine.Goals, role engine.Role) float64 {
	if len(goals) <= 1 {
		return 0.5
	}

	own := goals[role]
	var strictlyWorse, tied float64
	for r, g := range goals {
		if r == role {
			continue
		}
		switch {
		case g < own:
			strictlyWorse++
		case g == own:
			tied++
		}
	}

	return (strictlyWorse + 0.5*tied) / float64(len(goals)-1)
}

// LightPlayoutEvaluator plays uniformly random legal moves from state
// until it reaches a terminal state, then delegates to FinalStateEvaluator
// to score that terminal state.
type LightPlayoutEvaluator struct {
	Role                 engine.Role
	FinalStateEvaluator  Evaluator
	Rng                  *rand.Rand
}

// Evaluate rolls state out to termination and scores it.
func (e LightPlayoutEvaluator) Evaluate(ctx context.Context, state engine.State, role engine.Role, interp engine.Interpreter) (Valuation, error) {
	current := state
	for !interp.IsTerminal(ctx, current) {
		roles := interp.RolesInControl(ctx, current)
		plays := make([]engine.Play, 0, len(roles))
		for _, r := range roles {
			moves, err := interp.LegalMoves(ctx, current, r)
			if err != nil {
				return nil, err
			}
			if len(moves) == 0 {
				return nil, engine.ErrUnsatLegal
			}
			move := moves[e.Rng.Intn(len(moves))]
			plays = append(plays, engine.Play{Role: r, Move: move})
		}

		next, err := interp.NextState(ctx, current, engine.NewTurn(plays...))
		if err != nil {
			return nil, err
		}
		current = next
	}

	return e.FinalStateEvaluator.Evaluate(ctx, current, role, interp)
}
