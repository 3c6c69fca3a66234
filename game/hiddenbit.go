package game

import (
	"context"
	"strings"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// HiddenBit is the smallest possible imperfect-information fixture: random
// secretly picks a single bit, then Guesser must call it without having
// seen it. It exists to exercise determinization consistency (every
// state in an information set must share the same view) against a
// ruleset simple enough to check by hand.
type HiddenBit struct{}

const (
	RoleRandom  engine.Role = engine.Random
	RoleGuesser engine.Role = "guesser"
)

// state encoding: "<bit>|<guess>|<phase>" where bit/guess are "0", "1" or
// "?" (unset) and phase is "deal", "guess" or "done".

func splitHiddenBit(state engine.State) (bit, guess, phase string) {
	parts := strings.Split(string(state), "|")
	return parts[0], parts[1], parts[2]
}

func joinHiddenBit(bit, guess, phase string) engine.State {
	return engine.State(bit + "|" + guess + "|" + phase)
}

// Roles implements engine.Interpreter.
func (HiddenBit) Roles() []engine.Role { return []engine.Role{RoleRandom, RoleGuesser} }

// InitState implements engine.Interpreter.
func (HiddenBit) InitState() engine.State { return joinHiddenBit("?", "?", "deal") }

// LegalMoves implements engine.Interpreter.
func (HiddenBit) LegalMoves(ctx context.Context, state engine.State, role engine.Role) ([]engine.Move, error) {
	_, _, phase := splitHiddenBit(state)
	switch {
	case phase == "deal" && role == RoleRandom:
		return []engine.Move{"0", "1"}, nil
	case phase == "guess" && role == RoleGuesser:
		return []engine.Move{"0", "1"}, nil
	default:
		return nil, nil
	}
}

// LegalTurns implements engine.Interpreter.
func (h HiddenBit) LegalTurns(ctx context.Context, state engine.State) ([]engine.Turn, error) {
	return engine.CartesianLegalTurns(ctx, h, state)
}

// NextState implements engine.Interpreter.
func (HiddenBit) NextState(ctx context.Context, state engine.State, turn engine.Turn) (engine.State, error) {
	bit, guess, phase := splitHiddenBit(state)
	switch phase {
	case "deal":
		move, ok := turn.MoveOf(RoleRandom)
		if !ok {
			return "", engine.ErrUnsatNext
		}
		return joinHiddenBit(string(move), guess, "guess"), nil
	case "guess":
		move, ok := turn.MoveOf(RoleGuesser)
		if !ok {
			return "", engine.ErrUnsatNext
		}
		return joinHiddenBit(bit, string(move), "done"), nil
	default:
		return "", engine.ErrUnsatNext
	}
}

// Sees implements engine.Interpreter: Guesser never observes the bit
// until the game is done; Random always sees everything (it chose the
// bit itself).
func (HiddenBit) Sees(ctx context.Context, state engine.State, role engine.Role) engine.View {
	bit, guess, phase := splitHiddenBit(state)
	if role == RoleRandom || phase == "done" {
		return engine.View(string(state))
	}
	return engine.View(joinHiddenBit("?", guess, phase))
}

// IsTerminal implements engine.Interpreter.
func (HiddenBit) IsTerminal(ctx context.Context, state engine.State) bool {
	_, _, phase := splitHiddenBit(state)
	return phase == "done"
}

// Goals implements engine.Interpreter: Guesser scores 100 for a correct
// call, 0 otherwise; Random's goal is always 50 (it has no stake).
func (HiddenBit) Goals(ctx context.Context, state engine.State) (engine.Goals, error) {
	bit, guess, phase := splitHiddenBit(state)
	if phase != "done" {
		return nil, engine.ErrUnsatGoal
	}
	if bit == guess {
		return engine.Goals{RoleGuesser: 100, RoleRandom: 50}, nil
	}
	return engine.Goals{RoleGuesser: 0, RoleRandom: 50}, nil
}

// RolesInControl implements engine.Interpreter.
func (HiddenBit) RolesInControl(ctx context.Context, state engine.State) []engine.Role {
	_, _, phase := splitHiddenBit(state)
	switch phase {
	case "deal":
		return []engine.Role{RoleRandom}
	case "guess":
		return []engine.Role{RoleGuesser}
	default:
		return nil
	}
}
