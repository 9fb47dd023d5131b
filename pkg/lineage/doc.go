// Package lineage groups people into family units and assigns each unit a
// generation.
//
// # Family Units
//
// A family unit is the set of people transitively linked by
//
//   - sharing a father (any two children of the same father),
//   - sharing a mother (any two children of the same mother), or
//   - an explicit spouse link.
//
// Siblings and half-siblings through either parent land in the same unit.
// This is deliberately coarser than biological precision: the unit is a
// visual grouping for layout, not a claim about full siblinghood. Only
// references that resolve to a person in the same working set count; a
// dangling FatherID, MotherID or spouse reference contributes nothing.
//
// Units are computed with a disjoint-set forest over dense person indices
// (path compression and union by rank), so the partition does not depend on
// the order in which links are processed.
//
// # Generations
//
// Every resolvable parent→child link whose endpoints lie in different units
// becomes an edge of the unit graph. [transform.AssignLayers] then levels the
// graph: source units are generation 0 and every other unit sits at least one
// generation below each unit supplying it a child edge. Links inside a single
// unit are dropped, since they would be self-loops.
//
// A unit graph with a cycle (dirty data where two units parent each other)
// does not fail. Units on or below the cycle keep the deepest generation a
// leveled parent unit pushed them to, or 0 when there is none.
// [Result.Unresolved] counts them and [Result.CyclicEdges] reports how many
// back edges were found.
//
// [transform.AssignLayers]: github.com/matzehuels/kinship/pkg/dag/transform
package lineage
