package mcts

import "github.com/signalnine/darwinggp/gosim/engine"

// Valuation is the result of evaluating a state, combinable monoidally
// with backpropagate as it is walked up the tree toward the root.
type Valuation interface {
	// Backpropagate combines this valuation with another and returns the
	// result; it must be associative and commutative, with an all-zero
	// identity, so that backpropagating a set of rollouts in any order
	// yields the same final valuation (V1).
	Backpropagate(other Valuation) Valuation
}

// PlayoutValuation counts wins/ties/losses per role accumulated across
// one or more rollouts.
type PlayoutValuation struct {
	Wins   map[engine.Role]int
	Ties   map[engine.Role]int
	Losses map[engine.Role]int
}

// NewPlayoutValuation returns the all-zero identity valuation.
func NewPlayoutValuation() PlayoutValuation {
	return PlayoutValuation{
		Wins:   map[engine.Role]int{},
		Ties:   map[engine.Role]int{},
		Losses: map[engine.Role]int{},
	}
}

// Playouts returns the number of rollouts this valuation summarizes:
// by construction wins, ties and losses sum to the same total across
// roles, so any one of them divided by the role count gives the count.
func (v PlayoutValuation) Playouts() int {
	roles := len(v.Wins)
	if roles == 0 {
		roles = len(v.Ties)
	}
	if roles == 0 {
		roles = len(v.Losses)
	}
	if roles == 0 {
		return 0
	}
	total := sumInts(v.Wins) + sumInts(v.Ties) + sumInts(v.Losses)
	return total / roles
}

func sumInts(m map[engine.Role]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// Backpropagate pointwise-adds the three maps across the union of roles
// appearing in either valuation.
func (v PlayoutValuation) Backpropagate(otherVal Valuation) Valuation {
	other, ok := otherVal.(PlayoutValuation)
	if !ok {
		panic("mcts: PlayoutValuation.Backpropagate called with incompatible valuation type")
	}

	result := NewPlayoutValuation()
	for role, n := range v.Wins {
		result.Wins[role] += n
	}
	for role, n := range other.Wins {
		result.Wins[role] += n
	}
	for role, n := range v.Ties {
		result.Ties[role] += n
	}
	for role, n := range other.Ties {
		result.Ties[role] += n
	}
	for role, n := range v.Losses {
		result.Losses[role] += n
	}
	for role, n := range other.Losses {
		result.Losses[role] += n
	}
	return result
}

// WinRate returns role's fraction of playouts won, used as the
// exploitation term of UCT. Returns 0 if the valuation has no playouts
// recorded for role yet.
func (v PlayoutValuation) WinRate(role engine.Role) float64 {
	playouts := v.Playouts()
	if playouts == 0 {
		return 0
	}
	return float64(v.Wins[role]) / float64(playouts)
}
