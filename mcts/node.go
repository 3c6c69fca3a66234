package mcts

import (
	"context"
	"math"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// Node is a perfect-information search-tree node: it represents one
// concrete State, with exactly one child per legal joint Turn once
// expanded. Parent links are non-owning back-references, following the
// teacher's arena-with-pool discipline (the original MCTSNode/NodePool)
// generalized from concrete GameStates to opaque engine.State.
type Node struct {
	parent   *Node
	state    engine.State
	turn     engine.Turn // turn that produced this node from its parent
	depth    int
	children map[string]*Node
	visits   int
	val      Valuation
	expanded bool
}

// NodePool recycles Node allocations across searches, the same way the
// teacher's MCTSNode sync.Pool avoids per-step garbage for the hot
// selection/expansion path.
var NodePool = sync.Pool{
	New: func() interface{} {
		return &Node{children: make(map[string]*Node, 8)}
	},
}

// GetNode acquires a zeroed Node from the pool.
func GetNode() *Node {
	n := NodePool.Get().(*Node)
	n.reset()
	return n
}

// PutNode returns node and its whole subtree to the pool.
func PutNode(node *Node) {
	if node == nil {
		return
	}
	for _, child := range node.children {
		PutNode(child)
	}
	NodePool.Put(node)
}

func (n *Node) reset() {
	n.parent = nil
	n.state = ""
	n.turn = engine.Turn{}
	n.depth = 0
	for k := range n.children {
		delete(n.children, k)
	}
	n.visits = 0
	n.val = nil
	n.expanded = false
}

// NewRoot returns a fresh root node for state, taken from NodePool.
func NewRoot(state engine.State) *Node {
	n := GetNode()
	n.state = state
	return n
}

// State returns the state this node represents.
func (n *Node) State() engine.State { return n.state }

// Depth returns the node's distance from the tree root.
func (n *Node) Depth() int { return n.depth }

// Visits returns how many times this node has been selected/backpropagated
// into.
func (n *Node) Visits() int { return n.visits }

// Valuation returns the node's accumulated valuation, or
// ErrValuationMissing if it has never been visited.
func (n *Node) Valuation() (Valuation, error) {
	if n.val == nil {
		return nil, ErrValuationMissing
	}
	return n.val, nil
}

// Expanded reports whether Expand has already populated children.
func (n *Node) Expanded() bool { return n.expanded }

// Children returns the node's children keyed by their Turn's canonical key.
func (n *Node) Children() map[string]*Node { return n.children }

// Expand enumerates state's legal turns and builds one child per turn.
// Requires the node is not already expanded and not terminal; a second
// call is a no-op (V2), and terminal nodes never expand.
func (n *Node) Expand(ctx context.Context, interp engine.Interpreter) error {
	if n.expanded {
		return nil
	}
	if interp.IsTerminal(ctx, n.state) {
		n.expanded = true
		return nil
	}

	turns, err := interp.LegalTurns(ctx, n.state)
	if err != nil {
		return err
	}

	for _, turn := range turns {
		next, err := interp.NextState(ctx, n.state, turn)
		if err != nil {
			return err
		}
		child := GetNode()
		child.parent = n
		child.state = next
		child.turn = turn
		child.depth = n.depth + 1
		n.children[turn.Key()] = child
	}

	n.expanded = true
	return nil
}

// IsTerminal reports whether this node's state ends the game.
func (n *Node) IsTerminal(ctx context.Context, interp engine.Interpreter) bool {
	return interp.IsTerminal(ctx, n.state)
}

// sortedChildKeys returns the node's child keys in sorted order, the
// deterministic tie-break order the UCT selection policy and
// most-visited-child lookup require for reproducible, seeded search.
func sortedChildKeys(children map[string]*Node) []string {
	keys := maps.Keys(children)
	slices.Sort(keys)
	return keys
}

// DefaultExplorationParam is UCT's C = sqrt(2).
const DefaultExplorationParam = math.Sqrt2

// UCT computes child's Upper Confidence Bound for Trees score at node n,
// from perspective's win-rate.
func UCT(n, child *Node, explorationParam float64, perspective engine.Role) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	exploitation := winRate(child, perspective)
	exploration := explorationParam * math.Sqrt(math.Log(float64(n.visits))/float64(child.visits))
	return exploitation + exploration
}

func winRate(n *Node, perspective engine.Role) float64 {
	if n.val == nil {
		return 0
	}
	pv, ok := n.val.(PlayoutValuation)
	if !ok {
		return 0
	}
	return pv.WinRate(perspective)
}

// BestChild descends by UCT score. Children with zero visits take
// priority over any scored child, and ties among zero-visit or
// equal-score children resolve by the lexicographically smallest turn
// key, so that search is reproducible under a fixed seed.
func (n *Node) BestChild(explorationParam float64, perspective engine.Role) *Node {
	if len(n.children) == 0 {
		return nil
	}

	var best *Node
	bestScore := math.Inf(-1)
	for _, key := range sortedChildKeys(n.children) {
		child := n.children[key]
		if child.visits == 0 {
			return child
		}
		score := UCT(n, child, explorationParam, perspective)
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// MostVisited returns the child with the most visits, breaking ties by
// higher win-rate from perspective and finally by the lexicographically
// smallest turn key.
func (n *Node) MostVisited(perspective engine.Role) *Node {
	var best *Node
	for _, key := range sortedChildKeys(n.children) {
		child := n.children[key]
		switch {
		case best == nil:
			best = child
		case child.visits > best.visits:
			best = child
		case child.visits == best.visits && winRate(child, perspective) > winRate(best, perspective):
			best = child
		}
	}
	return best
}

// Turn returns the turn that produced this node from its parent. The root
// node's turn is the zero Turn.
func (n *Node) Turn() engine.Turn { return n.turn }
