package graph

import (
	"strings"

	"github.com/soundprediction/kgview/pkg/types"
)

// Toggles enables or hides each node type.
type Toggles struct {
	Document bool `json:"document"`
	Person   bool `json:"person"`
	Topic    bool `json:"topic"`
}

// AllEnabled returns toggles with every node type shown.
func AllEnabled() Toggles {
	return Toggles{Document: true, Person: true, Topic: true}
}

// Enabled reports whether nodes of type t pass the toggle filter. Unknown
// types never do.
func (t Toggles) Enabled(nt types.NodeType) bool {
	switch nt {
	case types.DocumentNodeType:
		return t.Document
	case types.PersonNodeType:
		return t.Person
	case types.TopicNodeType:
		return t.Topic
	}
	return false
}

// View is the visible subset of a graph and its layout.
type View struct {
	Nodes   []types.GraphNode `json:"nodes"`
	Edges   []types.GraphEdge `json:"edges"`
	Visible map[string]bool   `json:"visible"`
	Layout  []PositionedNode  `json:"layout"`
	Links   []LayoutEdge      `json:"links"`
}

// Empty reports whether no node is visible.
func (v *View) Empty() bool {
	return len(v.Nodes) == 0
}

// ComputeVisible returns the nodes and edges visible under toggles and the
// label filter labelText, in input order. The returned slices never alias
// the arguments.
func ComputeVisible(nodes []types.GraphNode, edges []types.GraphEdge, toggles Toggles, labelText string) View {
	universe := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if toggles.Enabled(n.Type) {
			universe[n.ID] = true
		}
	}

	text := strings.ToLower(strings.TrimSpace(labelText))

	visible := make(map[string]bool, len(universe))
	var keepEdge func(e *types.GraphEdge) bool

	if text == "" {
		for id := range universe {
			visible[id] = true
		}
		keepEdge = func(e *types.GraphEdge) bool {
			return visible[e.Source] && visible[e.Target]
		}
	} else {
		matched := make(map[string]bool)
		for _, n := range nodes {
			if universe[n.ID] && strings.Contains(strings.ToLower(n.Label), text) {
				matched[n.ID] = true
			}
		}

		// one-hop expansion, both endpoints of every edge touching a match
		for id := range matched {
			visible[id] = true
		}
		for _, e := range edges {
			if matched[e.Source] || matched[e.Target] {
				if universe[e.Source] {
					visible[e.Source] = true
				}
				if universe[e.Target] {
					visible[e.Target] = true
				}
			}
		}

		keepEdge = func(e *types.GraphEdge) bool {
			return (matched[e.Source] || matched[e.Target]) && visible[e.Source] && visible[e.Target]
		}
	}

	view := View{
		Nodes:   make([]types.GraphNode, 0, len(visible)),
		Edges:   make([]types.GraphEdge, 0),
		Visible: make(map[string]bool, len(nodes)),
	}
	for _, n := range nodes {
		view.Visible[n.ID] = visible[n.ID]
		if visible[n.ID] {
			view.Nodes = append(view.Nodes, n)
		}
	}
	for i := range edges {
		if keepEdge(&edges[i]) {
			view.Edges = append(view.Edges, edges[i])
		}
	}

	cloned := types.Graph{Nodes: view.Nodes, Edges: view.Edges}.Clone()
	view.Nodes, view.Edges = cloned.Nodes, cloned.Edges
	view.Layout = Layout(view.Nodes)
	view.Links = LayoutEdges(view.Edges)
	return view
}
