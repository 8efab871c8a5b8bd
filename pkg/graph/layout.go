package graph

import "github.com/soundprediction/kgview/pkg/types"

// Lane geometry.
const (
	TopicLaneX    = 100.0
	DocumentLaneX = 450.0
	PersonLaneX   = 800.0
	LaneTopY      = 60.0
	RowSpacing    = 80.0
)

// AnimatedRelation is the relation drawn with an animated stroke.
const AnimatedRelation = "authored"

// Position is a 2D canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PositionedNode is a visible node placed on the canvas.
type PositionedNode struct {
	ID       string         `json:"id"`
	Type     types.NodeType `json:"type"`
	Label    string         `json:"label"`
	Position Position       `json:"position"`
}

// LayoutEdge is a visible edge as drawn.
type LayoutEdge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Label    string `json:"label"`
	Animated bool   `json:"animated"`
}

func laneX(t types.NodeType) (float64, bool) {
	switch t {
	case types.TopicNodeType:
		return TopicLaneX, true
	case types.DocumentNodeType:
		return DocumentLaneX, true
	case types.PersonNodeType:
		return PersonLaneX, true
	}
	return 0, false
}

// Layout places nodes in three lanes (topic | document | person). Within a
// lane nodes are stacked in input order from LaneTopY in RowSpacing steps.
// Nodes of unknown type are skipped.
func Layout(nodes []types.GraphNode) []PositionedNode {
	rows := make(map[types.NodeType]int, 3)
	out := make([]PositionedNode, 0, len(nodes))
	for _, n := range nodes {
		x, ok := laneX(n.Type)
		if !ok {
			continue
		}
		row := rows[n.Type]
		rows[n.Type] = row + 1
		out = append(out, PositionedNode{
			ID:       n.ID,
			Type:     n.Type,
			Label:    n.Label,
			Position: Position{X: x, Y: LaneTopY + float64(row)*RowSpacing},
		})
	}
	return out
}

// LayoutEdges converts edges for drawing; "authored" edges are animated.
func LayoutEdges(edges []types.GraphEdge) []LayoutEdge {
	out := make([]LayoutEdge, len(edges))
	for i, e := range edges {
		out[i] = LayoutEdge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Label:    e.Relation,
			Animated: e.Relation == AnimatedRelation,
		}
	}
	return out
}
