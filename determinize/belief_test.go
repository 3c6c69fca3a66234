package determinize_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/darwinggp/gosim/determinize"
	"github.com/signalnine/darwinggp/gosim/engine"
	"github.com/signalnine/darwinggp/gosim/game"
)

func TestBeliefSetAdvanceNarrowsToConsistentStates(t *testing.T) {
	hb := game.HiddenBit{}
	ctx := context.Background()

	// Guesser starts believing either bit is possible.
	belief := determinize.NewBeliefSet(map[engine.State]struct{}{
		"0|?|guess": {},
		"1|?|guess": {},
	})
	require.Equal(t, 2, belief.Len())

	// After guessing "0" and observing the post-guess view (bit now
	// revealed to be 0), only the bit=0 branch survives.
	newView := hb.Sees(ctx, "0|0|done", game.RoleGuesser)
	require.NoError(t, belief.Advance(ctx, hb, game.RoleGuesser, "0", newView))

	assert.Equal(t, 1, belief.Len())
	_, ok := belief.States()[engine.State("0|0|done")]
	assert.True(t, ok)
}

func TestBeliefSetAdvanceEmptyReturnsErrEmptyBelief(t *testing.T) {
	hb := game.HiddenBit{}
	ctx := context.Background()

	belief := determinize.NewBeliefSet(map[engine.State]struct{}{
		"0|?|guess": {},
	})

	// A view that can never result from this move is impossible, so the
	// filtered belief set must come back empty.
	err := belief.Advance(ctx, hb, game.RoleGuesser, "0", "this-view-never-happens")
	assert.ErrorIs(t, err, determinize.ErrEmptyBelief)
}

func TestBeliefSetSampleIsReproducibleForAFixedSeed(t *testing.T) {
	belief := determinize.NewBeliefSet(map[engine.State]struct{}{
		"a": {}, "b": {}, "c": {}, "d": {},
	})

	first, err := belief.Sample(rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := belief.Sample(rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBeliefSetSampleEmptyErrors(t *testing.T) {
	belief := determinize.NewBeliefSet(nil)
	_, err := belief.Sample(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, determinize.ErrEmptyBelief)
}

func TestBeliefSetBoundCapsSize(t *testing.T) {
	states := map[engine.State]struct{}{}
	for i := 0; i < 100; i++ {
		states[engine.State(string(rune('a'+i%26))+string(rune(i)))] = struct{}{}
	}
	belief := determinize.NewBeliefSet(states)

	belief.Bound(10, rand.New(rand.NewSource(5)))
	assert.Equal(t, 10, belief.Len())
}

func TestBeliefSetBoundNoOpWhenUnderLimit(t *testing.T) {
	belief := determinize.NewBeliefSet(map[engine.State]struct{}{"a": {}, "b": {}})
	belief.Bound(10, rand.New(rand.NewSource(5)))
	assert.Equal(t, 2, belief.Len())
}
