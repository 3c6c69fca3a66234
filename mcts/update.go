package mcts

import (
	"context"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// Update advances the tree root to the child consistent with the turn
// that was actually played, reusing that subtree's statistics (§4.F). If
// no matching child exists — the very first move, or a cache miss because
// the root was never expanded deeply enough — a fresh root is built at
// newState instead, discarding whatever was already searched.
func (t *Tree) Update(ctx context.Context, turn engine.Turn, newState engine.State) {
	if t.Root.expanded {
		if child, ok := t.Root.children[turn.Key()]; ok {
			delete(t.Root.children, turn.Key())
			for _, sibling := range t.Root.children {
				PutNode(sibling)
			}
			child.parent = nil
			PutNode(t.Root)
			t.Root = child
			return
		}
	}

	PutNode(t.Root)
	t.Root = NewRoot(newState)
}
