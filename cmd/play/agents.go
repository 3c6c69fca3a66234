package main

import (
	"fmt"
	"math/rand"

	"github.com/signalnine/darwinggp/gosim/agent"
	"github.com/signalnine/darwinggp/gosim/mcts"
)

// newAgent builds the named agent seeded from rng. "random" and "mcts"
// are always legal; "ismcts" additionally needs the interpreter to expose
// genuine hidden information, but nothing here enforces that — an
// ISMCTSAgent run against a perfect-information ruleset degenerates to
// every belief set being a singleton, which is just a slower MCTSAgent.
func newAgent(name string, rng *rand.Rand, maxBelief int) (agent.Agent, error) {
	eval := mcts.LightPlayoutEvaluator{
		FinalStateEvaluator: mcts.GoalNormalizedUtilityEvaluator{},
		Rng:                 rng,
	}

	switch name {
	case "", "random":
		return agent.NewArbitraryAgent(rng), nil
	case "mcts":
		return agent.NewMCTSAgent(eval, rng), nil
	case "ismcts":
		return agent.NewISMCTSAgent(eval, rng, maxBelief), nil
	default:
		return nil, fmt.Errorf("cmd/play: unknown agent %q (want random, mcts, or ismcts)", name)
	}
}
