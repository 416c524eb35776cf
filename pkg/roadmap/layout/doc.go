// Package layout computes 2D diagram positions for course roadmap nodes.
//
// The engine converts a roadmap node set into positioned nodes and edges for
// a diagram renderer, following the course-roadmap visual convention:
// top-down chains with an indent per level, and side-by-side placement when
// a non-root node fans out into two or more children.
//
// # Placement Rules
//
//   - A node whose parent reference is empty or unresolvable is a root.
//     Multiple roots are stacked vertically in input order.
//   - Vertical mode (default): each child is placed one row step below the
//     bottom of the previous child's subtree, indented right of its parent.
//   - Horizontal sibling mode: when a non-root node has two or more children,
//     the children share one row, centered under the parent and spaced by a
//     fixed sibling gap. Placement resumes below the tallest sibling subtree.
//
// # Guarantees
//
// [Layout] is a pure function: identical input produces bit-identical output.
// Each node is positioned at most once (a visited set guards cycles), and
// malformed nodes are skipped with warnings instead of failing the layout.
//
// # Usage
//
//	res := layout.Layout(rm.Flatten(), layout.Options{})
//	for _, w := range res.Warnings {
//	    log.Warn("skipped node", "id", w.NodeID, "reason", w.Reason)
//	}
//	diagram := layout.Export(res)
package layout
