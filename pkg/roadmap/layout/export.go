package layout

import "encoding/json"

// =============================================================================
// Diagram Export - Renderer Contract
// =============================================================================

// Diagram is the wire format expected by the diagram-rendering frontend:
// nodes carry a nested position object, edges use source/target naming.
type Diagram struct {
	Nodes []DiagramNode `json:"nodes"`
	Edges []DiagramEdge `json:"edges"`
}

// DiagramNode is one renderer node.
type DiagramNode struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Type     string   `json:"type"`
}

// Position is a 2D coordinate pair.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DiagramEdge is one renderer edge.
type DiagramEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Export converts a layout result into the renderer contract.
// Warnings are dropped: they are a caller concern, not renderer input.
func Export(res Result) Diagram {
	d := Diagram{
		Nodes: make([]DiagramNode, len(res.Positions)),
		Edges: make([]DiagramEdge, len(res.Edges)),
	}
	for i, p := range res.Positions {
		d.Nodes[i] = DiagramNode{
			ID:       p.ID,
			Position: Position{X: p.X, Y: p.Y},
			Type:     p.Kind,
		}
	}
	for i, e := range res.Edges {
		d.Edges[i] = DiagramEdge{ID: e.ID, Source: e.SourceID, Target: e.TargetID}
	}
	return d
}

// MarshalDiagram serializes a diagram to pretty-printed JSON bytes.
func MarshalDiagram(d Diagram) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
