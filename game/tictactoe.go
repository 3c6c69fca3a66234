package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// TicTacToe is a complete, perfect-information engine.Interpreter for
// 3x3 tic-tac-toe. It exists as a small, fully deterministic fixture for
// exercising MCTS tie-breaking and mate-in-one shortcuts against a
// ruleset simple enough to verify by hand.
type TicTacToe struct{}

const (
	RoleX engine.Role = "x"
	RoleO engine.Role = "o"
)

// board encoding: 9 cells '.', 'x' or 'o', followed by whose turn it is,
// encoded as state string "<9 cells>:<next role>".
// e.g. ".........:x" means all empty, nobody has moved, it's x's turn.

// Roles implements engine.Interpreter.
func (TicTacToe) Roles() []engine.Role { return []engine.Role{RoleX, RoleO} }

// InitState implements engine.Interpreter.
func (TicTacToe) InitState() engine.State {
	return engine.State(strings.Repeat(".", 9) + ":x")
}

func splitState(state engine.State) (cells string, toMove engine.Role) {
	s := string(state)
	idx := strings.IndexByte(s, ':')
	return s[:idx], engine.Role(s[idx+1:])
}

func joinState(cells string, toMove engine.Role) engine.State {
	return engine.State(cells + ":" + string(toMove))
}

// LegalMoves implements engine.Interpreter.
func (t TicTacToe) LegalMoves(ctx context.Context, state engine.State, role engine.Role) ([]engine.Move, error) {
	cells, toMove := splitState(state)
	if role != toMove || t.terminalCells(cells) {
		return nil, nil
	}
	moves := make([]engine.Move, 0, 9)
	for i, c := range cells {
		if c == '.' {
			moves = append(moves, engine.Move(strconv.Itoa(i)))
		}
	}
	return moves, nil
}

// LegalTurns implements engine.Interpreter.
func (t TicTacToe) LegalTurns(ctx context.Context, state engine.State) ([]engine.Turn, error) {
	return engine.CartesianLegalTurns(ctx, t, state)
}

// NextState implements engine.Interpreter.
func (t TicTacToe) NextState(ctx context.Context, state engine.State, turn engine.Turn) (engine.State, error) {
	cells, toMove := splitState(state)
	move, ok := turn.MoveOf(toMove)
	if !ok {
		return "", engine.ErrUnsatNext
	}
	idx, err := strconv.Atoi(string(move))
	if err != nil || idx < 0 || idx >= 9 || cells[idx] != '.' {
		return "", engine.ErrIllegalMove
	}

	buf := []byte(cells)
	if toMove == RoleX {
		buf[idx] = 'x'
	} else {
		buf[idx] = 'o'
	}

	next := string(toMove)
	if next == string(RoleX) {
		next = string(RoleO)
	} else {
		next = string(RoleX)
	}
	return joinState(string(buf), engine.Role(next)), nil
}

// Sees implements engine.Interpreter. Tic-tac-toe is perfect information:
// every role sees the full board.
func (TicTacToe) Sees(ctx context.Context, state engine.State, role engine.Role) engine.View {
	cells, _ := splitState(state)
	return engine.View(cells)
}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func winner(cells string) byte {
	for _, line := range winLines {
		a, b, c := cells[line[0]], cells[line[1]], cells[line[2]]
		if a != '.' && a == b && b == c {
			return a
		}
	}
	return 0
}

func (TicTacToe) terminalCells(cells string) bool {
	if winner(cells) != 0 {
		return true
	}
	return !strings.Contains(cells, ".")
}

// IsTerminal implements engine.Interpreter.
func (t TicTacToe) IsTerminal(ctx context.Context, state engine.State) bool {
	cells, _ := splitState(state)
	return t.terminalCells(cells)
}

// Goals implements engine.Interpreter: 100 for the winner, 0 for the
// loser, 50/50 for a draw.
func (t TicTacToe) Goals(ctx context.Context, state engine.State) (engine.Goals, error) {
	cells, _ := splitState(state)
	if !t.terminalCells(cells) {
		return nil, engine.ErrUnsatGoal
	}

	switch winner(cells) {
	case 'x':
		return engine.Goals{RoleX: 100, RoleO: 0}, nil
	case 'o':
		return engine.Goals{RoleX: 0, RoleO: 100}, nil
	default:
		return engine.Goals{RoleX: 50, RoleO: 50}, nil
	}
}

// RolesInControl implements engine.Interpreter.
func (t TicTacToe) RolesInControl(ctx context.Context, state engine.State) []engine.Role {
	cells, toMove := splitState(state)
	if t.terminalCells(cells) {
		return nil
	}
	return []engine.Role{toMove}
}

// String renders state as a human-readable 3x3 grid, for debug output.
func (TicTacToe) String(state engine.State) string {
	cells, toMove := splitState(state)
	var b strings.Builder
	for r := 0; r < 3; r++ {
		fmt.Fprintln(&b, cells[r*3:r*3+3])
	}
	fmt.Fprintf(&b, "to move: %s\n", toMove)
	return b.String()
}
