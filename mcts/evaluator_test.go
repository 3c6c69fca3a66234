package mcts_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/game"
	"github.com/signalnine/darwinggp/gosim/mcts"
)

func TestGoalNormalizedUtilityTwoPlayer(t *testing.T) {
	goals := engine.Goals{roleA: 100, roleB: 0}
	assert.Equal(t, 1.0, mcts.GoalNormalizedUtility(goals, roleA))
	assert.Equal(t, 0.0, mcts.GoalNormalizedUtility(goals, roleB))

	goals = engine.Goals{roleA: 50, roleB: 50}
	assert.Equal(t, 0.5, mcts.GoalNormalizedUtility(goals, roleA))
}

func TestGoalNormalizedUtilitySingleRole(t *testing.T) {
	assert.Equal(t, 0.5, mcts.GoalNormalizedUtility(engine.Goals{roleA: 42}, roleA))
}

func TestGoalNormalizedUtilityOutOfRangeGoalsNotClamped(t *testing.T) {
	goals := engine.Goals{roleA: 1000, roleB: -50}
	assert.Equal(t, 1.0, mcts.GoalNormalizedUtility(goals, roleA))
	assert.Equal(t, 0.0, mcts.GoalNormalizedUtility(goals, roleB))
}

func TestGoalNormalizedUtilityEvaluatorTicTacToeWin(t *testing.T) {
	ttt := game.TicTacToe{}
	// x across the top row, o has played elsewhere; terminal, x wins.
	state := engine.State("xxx......:o")
	ev := mcts.GoalNormalizedUtilityEvaluator{}

	val, err := ev.Evaluate(context.Background(), state, game.RoleX, ttt)
	require.NoError(t, err)

	pv := val.(mcts.PlayoutValuation)
	assert.Equal(t, 1, pv.Wins[game.RoleX])
	assert.Equal(t, 1, pv.Losses[game.RoleO])
}

func TestLightPlayoutEvaluatorReachesTerminalState(t *testing.T) {
	ttt := game.TicTacToe{}
	rng := rand.New(rand.NewSource(1))
	ev := mcts.LightPlayoutEvaluator{
		Role:                game.RoleX,
		FinalStateEvaluator: mcts.GoalNormalizedUtilityEvaluator{},
		Rng:                 rng,
	}

	val, err := ev.Evaluate(context.Background(), ttt.InitState(), game.RoleX, ttt)
	require.NoError(t, err)

	pv := val.(mcts.PlayoutValuation)
	assert.Equal(t, 1, pv.Playouts())
}
