package mcts

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ParallelEvaluator fans Workers independent rollouts of Inner out over a
// worker pool and sums their valuations, adapting the teacher's
// goroutine/channel worker-pool idiom (simulation.RunBatchTypedParallelN) from
// batches of whole games to batches of single rollouts. A single
// ParallelEvaluator.Evaluate call still counts as exactly one completed
// mcts.Step for the purposes of V4 (visit-count conservation); it simply
// packs more than one playout's worth of signal into that one step's
// Valuation.
type ParallelEvaluator struct {
	Inner   Evaluator
	Workers int
}

// Evaluate runs Workers independent calls to Inner.Evaluate concurrently
// and backpropagates them together into a single Valuation.
func (p ParallelEvaluator) Evaluate(ctx context.Context, state engine.State, role engine.Role, interp engine.Interpreter) (Valuation, error) {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	valuations := make([]Valuation, workers)
	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		group.Go(func() error {
			val, err := p.Inner.Evaluate(gctx, state, role, interp)
			if err != nil {
				return err
			}
			valuations[i] = val
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	combined := valuations[0]
	for _, val := range valuations[1:] {
		combined = combined.Backpropagate(val)
	}
	return combined, nil
}
