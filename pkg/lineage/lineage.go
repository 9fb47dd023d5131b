package lineage

import (
	"strconv"

	"github.com/matzehuels/kinship/pkg/dag"
	"github.com/matzehuels/kinship/pkg/dag/transform"
	"github.com/matzehuels/kinship/pkg/record"
)

// Unit is one family unit.
type Unit struct {
	ID         int      `json:"id"`
	Members    []string `json:"members"` // person IDs in input order
	Generation int      `json:"generation"`
}

// Edge is a parent→child link between two distinct units. Parallel edges
// appear once per underlying parent link.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Result is the full output of [Analyze].
type Result struct {
	// Generations maps every input person ID to its unit's generation.
	Generations map[string]int `json:"generations"`
	// UnitOf maps every input person ID to its unit ID.
	UnitOf map[string]int `json:"unitOf"`
	// Units are ordered by ID; IDs are assigned in order of first appearance.
	Units []Unit `json:"units"`
	Edges []Edge `json:"edges"`
	// Unresolved counts units on or below a cycle in the unit graph.
	Unresolved int `json:"unresolved"`
	// CyclicEdges counts the back edges that make the unit graph cyclic.
	CyclicEdges int `json:"cyclicEdges"`
}

// AssignGenerations returns the generation of every person with a non-empty
// ID. Input records are not modified.
func AssignGenerations(people []record.Person) map[string]int {
	return Analyze(people).Generations
}

// Analyze groups people into family units and levels the unit graph.
// People without an ID are ignored. When an ID appears more than once, the
// first occurrence is used and the rest are ignored.
func Analyze(people []record.Person) Result {
	idx := record.Index(people)
	n := len(people)

	ds := newDisjointSet(n)
	byFather := make(map[string]int)
	byMother := make(map[string]int)
	each(people, idx, func(i int, p record.Person) {
		if _, ok := idx[p.FatherID]; ok {
			if first, seen := byFather[p.FatherID]; seen {
				ds.union(first, i)
			} else {
				byFather[p.FatherID] = i
			}
		}
		if _, ok := idx[p.MotherID]; ok {
			if first, seen := byMother[p.MotherID]; seen {
				ds.union(first, i)
			} else {
				byMother[p.MotherID] = i
			}
		}
		for _, s := range p.SpouseIDs {
			if j, ok := idx[s]; ok {
				ds.union(i, j)
			}
		}
	})

	res := Result{
		Generations: make(map[string]int, len(idx)),
		UnitOf:      make(map[string]int, len(idx)),
	}
	unitOfRoot := make(map[int]int)
	each(people, idx, func(i int, p record.Person) {
		root := ds.find(i)
		u, ok := unitOfRoot[root]
		if !ok {
			u = len(res.Units)
			unitOfRoot[root] = u
			res.Units = append(res.Units, Unit{ID: u})
		}
		res.Units[u].Members = append(res.Units[u].Members, p.ID)
		res.UnitOf[p.ID] = u
	})

	g := dag.New()
	for _, u := range res.Units {
		_ = g.AddNode(dag.Node{ID: nodeID(u.ID)})
	}
	each(people, idx, func(i int, p record.Person) {
		child := res.UnitOf[p.ID]
		for _, parentID := range [2]string{p.FatherID, p.MotherID} {
			if _, ok := idx[parentID]; !ok {
				continue
			}
			parent := res.UnitOf[parentID]
			if parent == child {
				continue
			}
			res.Edges = append(res.Edges, Edge{From: parent, To: child})
			_ = g.AddEdge(dag.Edge{From: nodeID(parent), To: nodeID(child)})
		}
	})

	res.Unresolved = transform.AssignLayers(g)
	for i := range res.Units {
		node, _ := g.Node(nodeID(res.Units[i].ID))
		res.Units[i].Generation = node.Row
	}
	for id, u := range res.UnitOf {
		res.Generations[id] = res.Units[u].Generation
	}
	if res.Unresolved > 0 {
		res.CyclicEdges = transform.BreakCycles(g)
	}
	return res
}

// each calls fn for every person that owns its ID, in input order.
func each(people []record.Person, idx map[string]int, fn func(i int, p record.Person)) {
	for i, p := range people {
		if p.ID == "" || idx[p.ID] != i {
			continue
		}
		fn(i, p)
	}
}

func nodeID(unit int) string { return "u" + strconv.Itoa(unit) }
