// Package transform provides the graph passes run over a family-unit graph
// before it is used for layout.
//
// # Layer Assignment
//
// [AssignLayers] computes the row of each node with a longest-path traversal
// (Kahn's algorithm): sources sit at row 0 and every other node sits one row
// below its deepest parent. Nodes that are never released because they sit on
// or below a cycle keep the deepest row propagated to them so far, or 0.
//
// # Cycle Breaking
//
// [BreakCycles] removes DFS back edges. Genealogical data should be acyclic,
// but data-entry mistakes (a person recorded as their own grandparent) do
// occur. The lineage package uses it to count such edges after layering.
//
// # Usage
//
//	unresolved := transform.AssignLayers(g)
//	if unresolved > 0 {
//	    removed := transform.BreakCycles(g)
//	    ...
//	}
package transform
