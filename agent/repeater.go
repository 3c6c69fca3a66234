package agent

import (
	"context"
	"time"
)

// repeat calls step() repeatedly until either shortcircuit reports true
// or the next call would be projected to overrun deadline, using the
// last call's own duration times three as the projection — the same
// heuristic as the original Repeater.__call__: never start an iteration
// that three times its predecessor's cost would blow the budget. A zero
// budget (deadline already passed, or equal to now) runs step() zero
// times. Returns the number of completed steps.
func repeat(ctx context.Context, budget time.Duration, step func(ctx context.Context) error, shortcircuit func() bool) (int, error) {
	if budget <= 0 {
		return 0, nil
	}

	deadline := time.Now().Add(budget)
	calls := 0
	var lastDelta time.Duration

	for time.Now().Add(3*lastDelta).Before(deadline) && (shortcircuit == nil || !shortcircuit()) {
		select {
		case <-ctx.Done():
			return calls, ctx.Err()
		default:
		}

		start := time.Now()
		if err := step(ctx); err != nil {
			return calls, err
		}
		lastDelta = time.Since(start)
		calls++
	}

	return calls, nil
}
