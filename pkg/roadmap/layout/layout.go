package layout

import (
	"fmt"
	"sort"

	"github.com/mlindner/coursemap/pkg/roadmap"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds in the positioned output.
const (
	KindBranch = "branch" // node with at least one child
	KindLeaf   = "leaf"   // node without children
)

// Default placement steps, in diagram user units.
const (
	// DefaultRowStep is the vertical distance between consecutive nodes.
	DefaultRowStep = 120.0

	// DefaultIndentStep is the horizontal offset of a child from its parent
	// in vertical mode.
	DefaultIndentStep = 80.0

	// DefaultSiblingGap is the horizontal spacing between siblings in
	// horizontal sibling mode.
	DefaultSiblingGap = 220.0
)

// siblingFanout is the child count at which a non-root node switches from
// vertical to horizontal sibling placement. Root nodes always lay out
// vertically regardless of fanout.
const siblingFanout = 2

// Warning reasons for skipped or degraded input.
const (
	ReasonMissingID    = "missing id"
	ReasonMissingTitle = "missing title"
	ReasonDuplicateID  = "duplicate id"
)

// =============================================================================
// Types
// =============================================================================

// Options configures the placement geometry. The zero value selects the
// defaults above.
type Options struct {
	RowStep    float64 // vertical step per node
	IndentStep float64 // child x offset in vertical mode
	SiblingGap float64 // horizontal spacing in sibling mode
}

func (o Options) withDefaults() Options {
	if o.RowStep <= 0 {
		o.RowStep = DefaultRowStep
	}
	if o.IndentStep <= 0 {
		o.IndentStep = DefaultIndentStep
	}
	if o.SiblingGap <= 0 {
		o.SiblingGap = DefaultSiblingGap
	}
	return o
}

// PositionedNode is one placed node in the diagram.
type PositionedNode struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// Edge is one parent→child relation actually used during placement.
type Edge struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// Warning describes an input node that was skipped or degraded.
// Warnings are the non-throwing failure channel: layout always succeeds.
type Warning struct {
	NodeID string `json:"node_id,omitempty"`
	Reason string `json:"reason"`
}

// Result is the complete output of one layout pass.
type Result struct {
	Positions []PositionedNode `json:"positions"`
	Edges     []Edge           `json:"edges"`
	Warnings  []Warning        `json:"warnings,omitempty"`
}

// =============================================================================
// Layout
// =============================================================================

// Layout computes positions and edges for a roadmap node set.
//
// Nested children arrays are normalized to flat form first, so both input
// shapes are accepted. Malformed nodes (missing id or title) and duplicate
// ids are skipped and reported in Result.Warnings. Nodes left unreachable by
// a cycle are promoted to additional roots, so every valid node is placed
// exactly once and the pass always terminates.
func Layout(nodes []roadmap.Node, opts Options) Result {
	opts = opts.withDefaults()
	a := buildArena(nodes)

	for _, root := range a.roots {
		if a.visited[root] {
			continue
		}
		a.placeRoot(root, opts)
	}

	// Nodes not reachable from any root (cyclic parent chains) become
	// additional roots, in input order.
	for idx := range a.nodes {
		if !a.visited[idx] {
			a.placeRoot(idx, opts)
		}
	}

	return Result{
		Positions: a.positions(),
		Edges:     a.edges,
		Warnings:  a.warnings,
	}
}

// =============================================================================
// Arena - Flat Index Structures
// =============================================================================

// point is a placed coordinate pair.
type point struct {
	x, y float64
}

// arena holds the flat node slice plus the index maps used during placement,
// instead of pointer-linked recursive node structs.
type arena struct {
	nodes    []roadmap.Node // valid nodes, input order
	index    map[string]int // id → index in nodes
	children map[int][]int  // parent index → child indices, (Order, input) sorted
	roots    []int          // natural roots, input order

	visited  map[int]bool
	pos      map[int]point
	placed   []int // placement order, for deterministic position output
	edges    []Edge
	warnings []Warning

	cursorY float64 // next free y for root stacking
}

func buildArena(input []roadmap.Node) *arena {
	flat := roadmap.Flatten(input)

	a := &arena{
		index:    make(map[string]int, len(flat)),
		children: make(map[int][]int),
		visited:  make(map[int]bool, len(flat)),
		pos:      make(map[int]point, len(flat)),
	}

	for _, n := range flat {
		if n.ID == "" {
			a.warn("", ReasonMissingID)
			continue
		}
		if n.Title == "" {
			a.warn(n.ID, ReasonMissingTitle)
			continue
		}
		if _, dup := a.index[n.ID]; dup {
			a.warn(n.ID, ReasonDuplicateID)
			continue
		}
		a.index[n.ID] = len(a.nodes)
		a.nodes = append(a.nodes, n)
	}

	for idx, n := range a.nodes {
		parent, ok := a.index[n.ParentID]
		if n.ParentID == "" || !ok || parent == idx {
			a.roots = append(a.roots, idx)
			continue
		}
		a.children[parent] = append(a.children[parent], idx)
	}

	// Sibling order: by Order value, then input position for stability.
	for _, kids := range a.children {
		sort.SliceStable(kids, func(i, j int) bool {
			return a.nodes[kids[i]].Order < a.nodes[kids[j]].Order
		})
	}

	return a
}

func (a *arena) warn(id, reason string) {
	a.warnings = append(a.warnings, Warning{NodeID: id, Reason: reason})
}

// =============================================================================
// Placement
// =============================================================================

// placeRoot places a root subtree at x=0 below everything placed so far and
// advances the root stacking cursor.
func (a *arena) placeRoot(idx int, opts Options) {
	y := a.cursorY
	bottom := a.place(idx, 0, y, true, opts)
	a.cursorY = bottom + opts.RowStep
}

// place positions one node and recursively its unvisited children, returning
// the bottom-most y occupied by the subtree. The visited set guarantees each
// node is positioned at most once, so cyclic references cannot recurse.
func (a *arena) place(idx int, x, y float64, isRoot bool, opts Options) float64 {
	a.visited[idx] = true
	a.pos[idx] = point{x, y}
	a.placed = append(a.placed, idx)

	var kids []int
	for _, k := range a.children[idx] {
		if !a.visited[k] {
			kids = append(kids, k)
		}
	}
	for _, k := range kids {
		a.edges = append(a.edges, Edge{
			ID:       fmt.Sprintf("e-%s-%s", a.nodes[idx].ID, a.nodes[k].ID),
			SourceID: a.nodes[idx].ID,
			TargetID: a.nodes[k].ID,
		})
	}

	if len(kids) == 0 {
		return y
	}

	if !isRoot && len(kids) >= siblingFanout {
		return a.placeSiblings(kids, x, y, opts)
	}
	return a.placeChain(kids, x, y, opts)
}

// placeChain lays children out vertically: each child one row step below the
// previous child's subtree bottom, indented right of the parent.
func (a *arena) placeChain(kids []int, parentX, parentY float64, opts Options) float64 {
	childX := parentX + opts.IndentStep
	bottom := parentY
	for _, k := range kids {
		bottom = a.place(k, childX, bottom+opts.RowStep, false, opts)
	}
	return bottom
}

// placeSiblings lays children out side by side on one row, centered under
// the parent. Placement resumes below the tallest sibling subtree.
func (a *arena) placeSiblings(kids []int, parentX, parentY float64, opts Options) float64 {
	childY := parentY + opts.RowStep
	startX := parentX - opts.SiblingGap*float64(len(kids)-1)/2

	maxBottom := childY
	for i, k := range kids {
		b := a.place(k, startX+opts.SiblingGap*float64(i), childY, false, opts)
		if b > maxBottom {
			maxBottom = b
		}
	}
	return maxBottom
}

// positions materializes placed nodes in placement order.
func (a *arena) positions() []PositionedNode {
	out := make([]PositionedNode, 0, len(a.placed))
	for _, idx := range a.placed {
		kind := KindLeaf
		if len(a.children[idx]) > 0 {
			kind = KindBranch
		}
		p := a.pos[idx]
		out = append(out, PositionedNode{
			ID:   a.nodes[idx].ID,
			X:    p.x,
			Y:    p.y,
			Kind: kind,
		})
	}
	return out
}
