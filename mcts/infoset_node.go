package mcts

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ErrInconsistentInfoSet is returned by InfoSetNode.Expand if two states
// consistent with the same child move produce different views for the
// owning role — a ruleset bug, since an information set's defining
// invariant is that every member state looks identical to its role.
var ErrInconsistentInfoSet = errors.New("mcts: child information set has inconsistent views")

// InfoSetNode is an imperfect-information search-tree node: rather than
// one concrete State it holds the set of states consistent with Role's
// observation history so far (its information set), keyed to children by
// Role's own move rather than by a full joint Turn (§4.D).
type InfoSetNode struct {
	parent         *InfoSetNode
	role           engine.Role
	view           engine.View
	possibleStates map[engine.State]struct{}
	move           engine.Move // move that produced this node from its parent
	children       map[engine.Move]*InfoSetNode
	visits         int
	val            Valuation
	expanded       bool
}

// NewInfoSetRoot returns a fresh information-set root for role, seeded
// with the given possible states.
func NewInfoSetRoot(role engine.Role, view engine.View, possibleStates map[engine.State]struct{}) *InfoSetNode {
	return &InfoSetNode{
		role:           role,
		view:           view,
		possibleStates: possibleStates,
		children:       make(map[engine.Move]*InfoSetNode),
	}
}

// Role returns the role this information set belongs to.
func (n *InfoSetNode) Role() engine.Role { return n.role }

// View returns the view that induces this information set.
func (n *InfoSetNode) View() engine.View { return n.view }

// PossibleStates returns the set of states consistent with this node's
// observation history.
func (n *InfoSetNode) PossibleStates() map[engine.State]struct{} { return n.possibleStates }

// Visits returns how many times this node has been visited.
func (n *InfoSetNode) Visits() int { return n.visits }

// Move returns the move that produced this node from its parent.
func (n *InfoSetNode) Move() engine.Move { return n.move }

// Expanded reports whether Expand has already populated children.
func (n *InfoSetNode) Expanded() bool { return n.expanded }

// Children returns the node's children keyed by the owning role's move.
func (n *InfoSetNode) Children() map[engine.Move]*InfoSetNode { return n.children }

// Expand enumerates Role's legal moves across the union of possible
// states and, for each, builds a child whose possible-states set is every
// state reachable by some joint turn in which Role plays that move (§4.D).
// A second call is a no-op.
func (n *InfoSetNode) Expand(ctx context.Context, interp engine.Interpreter) error {
	if n.expanded {
		return nil
	}

	moveSet := map[engine.Move]struct{}{}
	for state := range n.possibleStates {
		if !inControl(ctx, interp, state, n.role) {
			continue
		}
		moves, err := interp.LegalMoves(ctx, state, n.role)
		if err != nil {
			return err
		}
		for _, m := range moves {
			moveSet[m] = struct{}{}
		}
	}

	for _, move := range sortedMoves(moveSet) {
		childStates := map[engine.State]struct{}{}
		var childView engine.View
		haveView := false

		for state := range n.possibleStates {
			if !inControl(ctx, interp, state, n.role) {
				continue
			}
			turns, err := engine.FixedPlayLegalTurns(ctx, interp, state, engine.Play{Role: n.role, Move: move})
			if err != nil {
				if errors.Is(err, engine.ErrUnsatLegal) {
					continue // Role can't play this move from this determinization.
				}
				return err
			}
			for _, turn := range turns {
				next, err := interp.NextState(ctx, state, turn)
				if err != nil {
					return err
				}
				childStates[next] = struct{}{}

				// A terminal next state is allowed to reveal information
				// the information set didn't carry (e.g. a previously
				// hidden bit becomes visible once the game ends): no
				// further Expand ever runs on a terminal node, so its
				// view need not agree with its non-terminal siblings'.
				if interp.IsTerminal(ctx, next) {
					continue
				}
				view := interp.Sees(ctx, next, n.role)
				if !haveView {
					childView = view
					haveView = true
				} else if view != childView {
					return ErrInconsistentInfoSet
				}
			}
		}

		if len(childStates) == 0 {
			continue
		}

		child := NewInfoSetRoot(n.role, childView, childStates)
		child.parent = n
		child.move = move
		n.children[move] = child
	}

	n.expanded = true
	return nil
}

func inControl(ctx context.Context, interp engine.Interpreter, state engine.State, role engine.Role) bool {
	for _, r := range interp.RolesInControl(ctx, state) {
		if r == role {
			return true
		}
	}
	return false
}

func sortedMoves(set map[engine.Move]struct{}) []engine.Move {
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}

// IsTerminal reports whether every possible state of this information set
// is terminal. (A well-formed ruleset makes terminality observation-
// consistent, so checking one representative is enough in practice, but
// checking all of them costs little and catches a malformed ruleset early.)
func (n *InfoSetNode) IsTerminal(ctx context.Context, interp engine.Interpreter) bool {
	for state := range n.possibleStates {
		if !interp.IsTerminal(ctx, state) {
			return false
		}
	}
	return len(n.possibleStates) > 0
}

// BestChild descends by UCT score over moves, with the same zero-visit
// priority and deterministic-key tie-break as Node.BestChild.
func (n *InfoSetNode) BestChild(explorationParam float64, perspective engine.Role) *InfoSetNode {
	if len(n.children) == 0 {
		return nil
	}

	moves := maps.Keys(n.children)
	slices.Sort(moves)

	var best *InfoSetNode
	bestScore := math.Inf(-1)
	for _, m := range moves {
		child := n.children[m]
		if child.visits == 0 {
			return child
		}
		score := infoSetUCT(n, child, explorationParam, perspective)
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

func infoSetUCT(n, child *InfoSetNode, explorationParam float64, perspective engine.Role) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	exploitation := infoSetWinRate(child, perspective)
	exploration := explorationParam * math.Sqrt(math.Log(float64(n.visits))/float64(child.visits))
	return exploitation + exploration
}

func infoSetWinRate(n *InfoSetNode, perspective engine.Role) float64 {
	if n.val == nil {
		return 0
	}
	pv, ok := n.val.(PlayoutValuation)
	if !ok {
		return 0
	}
	return pv.WinRate(perspective)
}

// MostVisited returns the child move with the most visits, tie-broken by
// win-rate and finally by move string.
func (n *InfoSetNode) MostVisited(perspective engine.Role) *InfoSetNode {
	moves := maps.Keys(n.children)
	slices.Sort(moves)

	var best *InfoSetNode
	for _, m := range moves {
		child := n.children[m]
		switch {
		case best == nil:
			best = child
		case child.visits > best.visits:
			best = child
		case child.visits == best.visits && infoSetWinRate(child, perspective) > infoSetWinRate(best, perspective):
			best = child
		}
	}
	return best
}
