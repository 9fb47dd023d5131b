// Package dag provides a small directed graph whose nodes are organized into
// rows (layers).
//
// # Overview
//
// kinship lays out family trees generation by generation. The lineage package
// builds one node per family unit and one edge per parent→child link between
// units, then assigns each node a row with [transform.AssignLayers]. The row
// of a unit is its generation.
//
// Unlike a strict layered drawing, edges may skip rows: a child unit is placed
// one row below its deepest parent unit, so shallower parents can be several
// rows above it. The graph may also contain cycles when the input data is
// inconsistent. [DAG.Acyclic] reports them and [transform.BreakCycles] removes
// back edges.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "u0"})
//	g.AddNode(dag.Node{ID: "u1"})
//	g.AddEdge(dag.Edge{From: "u0", To: "u1"})
//	transform.AssignLayers(g)
//
// # Ordering
//
// [DAG.Nodes], [DAG.Sources] and [DAG.NodesInRow] return nodes in insertion
// order, so every traversal built on them is deterministic for a given
// construction order.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph.
//
// [transform]: github.com/matzehuels/kinship/pkg/dag/transform
package dag
