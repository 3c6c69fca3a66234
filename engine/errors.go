package engine

import "github.com/pkg/errors"

// Sentinel errors for the interpreter contract (§4.B, §7 of the design
// spec). Concrete interpreters wrap these with errors.Wrap so callers can
// still errors.Is against the sentinel while getting a stack trace at the
// point the failure actually happened.
var (
	// ErrUnsatInit means init_state() admits no model: a malformed ruleset.
	ErrUnsatInit = errors.New("interpreter: init state is unsatisfiable")
	// ErrUnsatNext means next_state() admits no (or more than one) model.
	ErrUnsatNext = errors.New("interpreter: next state is unsatisfiable")
	// ErrUnsatLegal means a controlling role has no legal move.
	ErrUnsatLegal = errors.New("interpreter: legal moves are unsatisfiable")
	// ErrUnsatGoal means goals() has no model on a terminal state.
	ErrUnsatGoal = errors.New("interpreter: goals are unsatisfiable")
	// ErrUnsatSees means sees() has no model.
	ErrUnsatSees = errors.New("interpreter: sees is unsatisfiable")

	// ErrMoreThanOneModel means a query that must be functional returned
	// more than one answer, indicating non-determinism in the ruleset.
	ErrMoreThanOneModel = errors.New("interpreter: query has more than one model")

	// ErrIllegalMove means an agent selected a move outside the legal set.
	ErrIllegalMove = errors.New("agent: selected move is not legal")
)

// IsUnsat reports whether err is (or wraps) one of the Unsat* sentinels.
func IsUnsat(err error) bool {
	switch {
	case errors.Is(err, ErrUnsatInit),
		errors.Is(err, ErrUnsatNext),
		errors.Is(err, ErrUnsatLegal),
		errors.Is(err, ErrUnsatGoal),
		errors.Is(err, ErrUnsatSees):
		return true
	default:
		return false
	}
}
