/*
Package graph computes which part of a knowledge graph is visible and where
each visible node is drawn.

Visibility is a pure function of the graph snapshot, the node type toggles
and an optional label filter:

  - nodes whose type toggle is off are dropped first; the survivors form the
    universe for every later step
  - with no label filter, every surviving node is visible, together with the
    edges whose two endpoints survive
  - with a label filter, the visible nodes are the nodes whose label contains
    the text (case-insensitive) plus their direct neighbours, still
    restricted to the universe, and the visible edges are those touching a
    matched node with both endpoints visible

Positions come from a deterministic lane layout: topics on the left,
documents in the middle, people on the right, stacked top to bottom in input
order.

	view := graph.ComputeVisible(g.Nodes, g.Edges, graph.AllEnabled(), "react")
	for _, n := range view.Layout {
		fmt.Println(n.Label, n.Position.X, n.Position.Y)
	}

Callers recompute the view whenever one of the inputs changes; nothing is
cached between calls.
*/
package graph
