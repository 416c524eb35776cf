package roadmap

import (
	"encoding/json"
)

// =============================================================================
// Roadmap - Course Graph Serialization
// =============================================================================

// Roadmap is the canonical serialization format for a course roadmap.
// Used for API responses, storage, caching, and file import/export.
//
// The node list may be flat (parent_id back-references) or nested (children
// arrays); both forms appear in the wild. Use [Flatten] to normalize before
// handing nodes to the layout engine.
type Roadmap struct {
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	Title       string `json:"title,omitempty" bson:"title,omitempty"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Nodes       []Node `json:"nodes" bson:"nodes"`
}

// =============================================================================
// Node - Course Content Node
// =============================================================================

// Node is one entry in a course roadmap tree (a module or a lesson).
//
// A node whose ParentID is empty, or references an ID not present in the
// node set, is treated as a root. IDs must be unique across the roadmap.
type Node struct {
	ID          string `json:"id" bson:"id"`
	ParentID    string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Order       int    `json:"order" bson:"order"`
	Children    []Node `json:"children,omitempty" bson:"children,omitempty"`
}

// UnmarshalJSON accepts both snake_case ("parent_id") and camelCase
// ("parentId") parent references. The surrounding system emits both.
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias Node
	aux := struct {
		*alias
		ParentIDCamel *string `json:"parentId"`
	}{alias: (*alias)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if n.ParentID == "" && aux.ParentIDCamel != nil {
		n.ParentID = *aux.ParentIDCamel
	}
	return nil
}

// IsValid reports whether the node carries the fields layout requires.
// Malformed nodes are skipped with a warning rather than failing layout.
func (n *Node) IsValid() bool {
	return n.ID != "" && n.Title != ""
}

// =============================================================================
// Normalization
// =============================================================================

// Flatten normalizes a node list into flat form: nested children are lifted
// to top level with their ParentID set to the enclosing node, and Children
// slices are cleared. Flat input passes through unchanged.
//
// Document order is preserved (each node precedes its descendants), so a
// flat round-trip is stable. An explicit parent_id on a nested child wins
// over the structural parent.
func Flatten(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	var walk func(n Node, parentID string)
	walk = func(n Node, parentID string) {
		children := n.Children
		if n.ParentID == "" {
			n.ParentID = parentID
		}
		n.Children = nil
		out = append(out, n)
		for _, c := range children {
			walk(c, n.ID)
		}
	}
	for _, n := range nodes {
		walk(n, n.ParentID)
	}
	return out
}

// Flatten returns the roadmap's nodes in flat form. See the package-level
// [Flatten] for the normalization rules.
func (r *Roadmap) Flatten() []Node {
	return Flatten(r.Nodes)
}
