package engine

import "context"

// Interpreter is the external game oracle the search core consults. All
// operations are pure functions of their arguments and are safe to call
// concurrently on distinct states: the core never mutates a State, and
// never holds an interpreter-owned lock across a call.
//
// A concrete Interpreter (e.g. package genome's GameGenome-backed one)
// owns the actual rules; this package only ever sees the opaque State /
// View / Role / Move / Turn types.
type Interpreter interface {
	// Roles returns the ordered set of roles participating in the game.
	Roles() []Role

	// InitState returns the unique initial state.
	InitState() State

	// LegalMoves returns the non-empty set of moves role may play in
	// state. If role is not in control of state, it returns an empty,
	// non-error slice. Returns ErrUnsatLegal if role is in control but the
	// ruleset admits no legal move (a malformed ruleset).
	LegalMoves(ctx context.Context, state State, role Role) ([]Move, error)

	// LegalTurns returns the set of legal joint turns for state: the
	// Cartesian product of LegalMoves across RolesInControl.
	LegalTurns(ctx context.Context, state State) ([]Turn, error)

	// NextState advances state by a complete turn. Deterministic given its
	// inputs. Returns ErrUnsatNext if the ruleset is inconsistent.
	NextState(ctx context.Context, state State, turn Turn) (State, error)

	// Sees returns the view a role has of state.
	Sees(ctx context.Context, state State, role Role) View

	// IsTerminal reports whether state ends the game.
	IsTerminal(ctx context.Context, state State) bool

	// Goals returns each role's goal value; only defined on terminal
	// states. Returns ErrUnsatGoal otherwise.
	Goals(ctx context.Context, state State) (Goals, error)

	// RolesInControl returns the roles that must supply a move to form
	// state's next turn. Non-empty iff state is non-terminal.
	RolesInControl(ctx context.Context, state State) []Role
}

// CartesianLegalTurns computes legal_turns(state) as the restricted
// Cartesian product of each controlling role's legal moves, so a concrete
// Interpreter only has to implement LegalMoves and RolesInControl; it may
// still override LegalTurns directly when it has a cheaper way to compute
// the product (the common case for genome-backed interpreters that already
// enumerate phase-scoped moves).
func CartesianLegalTurns(ctx context.Context, interp Interpreter, state State) ([]Turn, error) {
	roles := interp.RolesInControl(ctx, state)
	if len(roles) == 0 {
		return []Turn{NewTurn()}, nil
	}

	movesByRole := make([][]Move, len(roles))
	for i, role := range roles {
		moves, err := interp.LegalMoves(ctx, state, role)
		if err != nil {
			return nil, err
		}
		if len(moves) == 0 {
			return nil, ErrUnsatLegal
		}
		movesByRole[i] = moves
	}

	var turns []Turn
	var build func(idx int, acc []Play)
	build = func(idx int, acc []Play) {
		if idx == len(roles) {
			next := make([]Play, len(acc))
			copy(next, acc)
			turns = append(turns, NewTurn(next...))
			return
		}
		for _, move := range movesByRole[idx] {
			build(idx+1, append(acc, Play{Role: roles[idx], Move: move}))
		}
	}
	build(0, nil)

	return turns, nil
}

// FixedPlayLegalTurns computes the legal turns of state, the same way
// CartesianLegalTurns does, except fixed.Role's move is pinned to
// fixed.Move rather than ranged over its legal moves. Used by the
// information-set node's Expand (§4.D) to determinize "what could the
// other controlling roles have done, given that the owning role committed
// to this particular move".
func FixedPlayLegalTurns(ctx context.Context, interp Interpreter, state State, fixed Play) ([]Turn, error) {
	roles := interp.RolesInControl(ctx, state)

	movesByRole := make([][]Move, len(roles))
	for i, role := range roles {
		if role == fixed.Role {
			movesByRole[i] = []Move{fixed.Move}
			continue
		}
		moves, err := interp.LegalMoves(ctx, state, role)
		if err != nil {
			return nil, err
		}
		if len(moves) == 0 {
			return nil, ErrUnsatLegal
		}
		movesByRole[i] = moves
	}

	var turns []Turn
	var build func(idx int, acc []Play)
	build = func(idx int, acc []Play) {
		if idx == len(roles) {
			next := make([]Play, len(acc))
			copy(next, acc)
			turns = append(turns, NewTurn(next...))
			return
		}
		for _, move := range movesByRole[idx] {
			build(idx+1, append(acc, Play{Role: roles[idx], Move: move}))
		}
	}
	build(0, nil)

	return turns, nil
}
