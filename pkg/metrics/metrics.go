// Package metrics derives per-person child counts and ancestry depths.
//
// Both metrics only follow FatherID and MotherID references that resolve to
// a person in the same working set. A dangling reference counts as no parent.
//
// Ancestry depth is 0 for a person without a resolvable parent and otherwise
// one more than the deepest resolvable parent. It is computed with an
// explicit stack, so arbitrarily long chains do not grow the goroutine stack.
// Corrupt data can make the parent relation cyclic (A is B's father and B is
// A's father). Every person on a detected cycle gets depth 0; descendants of
// a cycle count it as depth 0 too. This under-reports depth for bad input
// but always terminates.
package metrics

import "github.com/matzehuels/kinship/pkg/record"

// Person holds the derived metrics of one person.
type Person struct {
	ChildCount    int `json:"childCount"`
	AncestryDepth int `json:"ancestryDepth"`
}

// Result is the output of [Compute].
type Result struct {
	Metrics map[string]Person `json:"metrics"`
	// People is the normalized working set: people without an ID and repeated
	// IDs are dropped, and parent references that do not resolve are cleared.
	People []record.Person `json:"people"`
}

// Compute derives metrics for every person with a non-empty ID. The input is
// not modified.
func Compute(people []record.Person) Result {
	idx := record.Index(people)
	res := Result{
		Metrics: make(map[string]Person, len(idx)),
		People:  make([]record.Person, 0, len(idx)),
	}
	for i, p := range people {
		if p.ID == "" || idx[p.ID] != i {
			continue
		}
		p = p.Clone()
		if _, ok := idx[p.FatherID]; !ok {
			p.FatherID = ""
		}
		if _, ok := idx[p.MotherID]; !ok {
			p.MotherID = ""
		}
		res.People = append(res.People, p)
		res.Metrics[p.ID] = Person{}
	}

	children := ChildCounts(res.People)
	depths := AncestryDepths(res.People)
	for id := range res.Metrics {
		res.Metrics[id] = Person{ChildCount: children[id], AncestryDepth: depths[id]}
	}
	return res
}

// ChildCounts counts, per parent ID, the children that reference it. A child
// listing the same person as both father and mother counts once.
func ChildCounts(people []record.Person) map[string]int {
	idx := record.Index(people)
	counts := make(map[string]int, len(idx))
	for id := range idx {
		counts[id] = 0
	}
	for i, p := range people {
		if p.ID != "" && idx[p.ID] != i {
			continue
		}
		if _, ok := idx[p.FatherID]; ok {
			counts[p.FatherID]++
		}
		if _, ok := idx[p.MotherID]; ok && p.MotherID != p.FatherID {
			counts[p.MotherID]++
		}
	}
	return counts
}
