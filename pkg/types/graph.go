package types

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// NodeType is the kind of a graph node.
type NodeType string

const (
	DocumentNodeType NodeType = "document"
	PersonNodeType   NodeType = "person"
	TopicNodeType    NodeType = "topic"
)

// Valid reports whether t is one of the three known node types.
func (t NodeType) Valid() bool {
	switch t {
	case DocumentNodeType, PersonNodeType, TopicNodeType:
		return true
	}
	return false
}

// GraphNode is a document, person or topic in the knowledge graph.
// Meta holds open-ended scalar attributes such as url or avatarUrl.
type GraphNode struct {
	ID    string         `json:"id" yaml:"id" validate:"required"`
	Type  NodeType       `json:"type" yaml:"type" validate:"required,oneof=document person topic"`
	Label string         `json:"label" yaml:"label" validate:"required"`
	Meta  map[string]any `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Validate checks the node's required fields.
func (n *GraphNode) Validate() error {
	if n.ID == "" {
		return ErrEmptyID
	}
	if !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidNodeType, n.Type)
	}
	if n.Label == "" {
		return ErrEmptyLabel
	}
	return nil
}

// MetaString returns the metadata value for key when it is a string.
func (n *GraphNode) MetaString(key string) (string, bool) {
	v, ok := n.Meta[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GraphEdge is a directed, labelled relation between two nodes.
type GraphEdge struct {
	ID       string   `json:"id" yaml:"id" validate:"required"`
	Source   string   `json:"source" yaml:"source" validate:"required"`
	Target   string   `json:"target" yaml:"target" validate:"required"`
	Relation string   `json:"relation" yaml:"relation"`
	Weight   *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Touches reports whether id is one of the edge's endpoints.
func (e *GraphEdge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Graph is one snapshot of nodes and edges.
type Graph struct {
	Nodes []GraphNode `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges []GraphEdge `json:"edges" yaml:"edges" validate:"dive"`
}

// Validate checks node id uniqueness and every node. Edges pointing at
// unknown nodes are reported with ErrDanglingEdge; callers may choose to
// treat that as a warning since such edges are never rendered.
func (g *Graph) Validate() error {
	seen := make(map[string]struct{}, len(g.Nodes))
	for i := range g.Nodes {
		if err := g.Nodes[i].Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := seen[g.Nodes[i].ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateNodeID, g.Nodes[i].ID)
		}
		seen[g.Nodes[i].ID] = struct{}{}
	}
	for _, e := range g.Edges {
		_, okSource := seen[e.Source]
		_, okTarget := seen[e.Target]
		if !okSource || !okTarget {
			return fmt.Errorf("%w: %s (%s -> %s)", ErrDanglingEdge, e.ID, e.Source, e.Target)
		}
	}
	return nil
}

// Node looks a node up by id.
func (g *Graph) Node(id string) (GraphNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// Clone returns a deep copy of the snapshot.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]GraphNode, len(g.Nodes)),
		Edges: make([]GraphEdge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		n.Meta = maps.Clone(n.Meta)
		out.Nodes[i] = n
	}
	for i, e := range g.Edges {
		if e.Weight != nil {
			w := *e.Weight
			e.Weight = &w
		}
		out.Edges[i] = e
	}
	return out
}

// MetadataEntry is one key/value pair of node metadata, rendered as text.
type MetadataEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NodeDetails is what the details drawer shows for a selected node.
type NodeDetails struct {
	Node      GraphNode       `json:"node"`
	Metadata  []MetadataEntry `json:"metadata"`
	SourceURL string          `json:"source_url,omitempty"`
	AvatarURL string          `json:"avatar_url,omitempty"`
}

// MetadataEntries renders a node's metadata sorted by key.
func MetadataEntries(meta map[string]any) []MetadataEntry {
	keys := slices.Collect(maps.Keys(meta))
	sort.Strings(keys)
	entries := make([]MetadataEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, MetadataEntry{Key: k, Value: fmt.Sprint(meta[k])})
	}
	return entries
}
