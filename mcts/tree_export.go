package mcts

import (
	"fmt"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/signalnine/darwinggp/gosim/engine"
)

// ErrExportDepthNegative is returned by ExportDOT when maxDepth is negative.
var ErrExportDepthNegative = errors.New("mcts: export depth must be >= 0")

// ExportDOT renders the tree rooted at t.Root as a Graphviz DOT document,
// down to maxDepth levels below the root, for debugging and spectator
// display (§4.H). Node labels carry visit count and win rate from the
// tree's own Perspective; edges carry the turn key that produced the
// child. A maxDepth of 0 exports only the root.
func (t *Tree) ExportDOT(maxDepth int) (string, error) {
	if maxDepth < 0 {
		return "", ErrExportDepthNegative
	}

	g := gographviz.NewGraph()
	if err := g.SetName("search"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	rootID := "n0"
	if err := g.AddNode("search", rootID, nodeAttrs(t.Root, t.Perspective)); err != nil {
		return "", err
	}

	counter := 1
	var walk func(node *Node, id string, depth int)
	walk = func(node *Node, id string, depth int) {
		if depth >= maxDepth {
			return
		}
		for _, key := range sortedChildKeys(node.children) {
			child := node.children[key]
			childID := fmt.Sprintf("n%d", counter)
			counter++
			_ = g.AddNode("search", childID, nodeAttrs(child, t.Perspective))
			_ = g.AddEdge(id, childID, true, map[string]string{
				"label": gographviz.EscapeValue(key),
			})
			walk(child, childID, depth+1)
		}
	}
	walk(t.Root, rootID, 0)

	return g.String(), nil
}

func nodeAttrs(n *Node, perspective engine.Role) map[string]string {
	rate := 0.0
	if pv, ok := n.val.(PlayoutValuation); ok {
		rate = pv.WinRate(perspective)
	}
	label := fmt.Sprintf("visits=%d rate=%.3f", n.visits, rate)
	return map[string]string{
		"label": gographviz.EscapeValue(label),
	}
}
