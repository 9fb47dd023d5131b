package lineage

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/matzehuels/kinship/pkg/record"
)

// family is the reference fixture: c+d are parents of b, a+b are parents of e.
func family() []record.Person {
	return []record.Person{
		{ID: "a", SpouseIDs: []string{"b"}},
		{ID: "b", FatherID: "c", MotherID: "d", SpouseIDs: []string{"a"}},
		{ID: "c", SpouseIDs: []string{"d"}},
		{ID: "d", SpouseIDs: []string{"c"}},
		{ID: "e", FatherID: "a", MotherID: "b"},
	}
}

func permutations(people []record.Person) [][]record.Person {
	if len(people) <= 1 {
		return [][]record.Person{append([]record.Person(nil), people...)}
	}
	var out [][]record.Person
	for i := range people {
		rest := append(append([]record.Person(nil), people[:i]...), people[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]record.Person{people[i]}, p...))
		}
	}
	return out
}

func TestAssignGenerationsFamily(t *testing.T) {
	want := map[string]int{"a": 1, "b": 1, "c": 0, "d": 0, "e": 2}

	for i, people := range permutations(family()) {
		got := AssignGenerations(people)
		if len(got) != len(want) {
			t.Fatalf("perm %d: %d entries, want %d", i, len(got), len(want))
		}
		for id, g := range want {
			if got[id] != g {
				t.Fatalf("perm %d: gen(%s) = %d, want %d", i, id, got[id], g)
			}
		}
	}
}

func TestAssignGenerationsOneSidedSpouse(t *testing.T) {
	people := family()
	people[0].SpouseIDs = nil // only b lists a
	got := AssignGenerations(people)
	if got["a"] != 1 || got["b"] != 1 {
		t.Errorf("one-directional spouse link should still merge: %v", got)
	}
}

func TestAnalyzeUnits(t *testing.T) {
	res := Analyze(family())

	if len(res.Units) != 3 {
		t.Fatalf("units = %d, want 3", len(res.Units))
	}
	if res.UnitOf["a"] != res.UnitOf["b"] || res.UnitOf["c"] != res.UnitOf["d"] {
		t.Errorf("spouses should share units: %v", res.UnitOf)
	}
	// Units are numbered by first appearance.
	if res.UnitOf["a"] != 0 || res.UnitOf["c"] != 1 || res.UnitOf["e"] != 2 {
		t.Errorf("unit numbering = %v", res.UnitOf)
	}
	if len(res.Edges) != 4 {
		t.Errorf("edges = %d, want 4 (one per parent link)", len(res.Edges))
	}
	if res.Unresolved != 0 || res.CyclicEdges != 0 {
		t.Errorf("acyclic input reported cycles: %+v", res)
	}
}

func TestHalfSiblingsShareUnit(t *testing.T) {
	people := []record.Person{
		{ID: "dad"},
		{ID: "mom1"},
		{ID: "mom2"},
		{ID: "x", FatherID: "dad", MotherID: "mom1"},
		{ID: "y", FatherID: "dad", MotherID: "mom2"},
		{ID: "z", MotherID: "mom2"},
	}
	res := Analyze(people)
	if res.UnitOf["x"] != res.UnitOf["y"] || res.UnitOf["y"] != res.UnitOf["z"] {
		t.Errorf("half siblings should be grouped: %v", res.UnitOf)
	}
	if res.Generations["x"] != 1 || res.Generations["dad"] != 0 {
		t.Errorf("generations = %v", res.Generations)
	}
}

func TestSingletonsAndDangling(t *testing.T) {
	people := []record.Person{
		{ID: "loner"},
		{ID: "orphan", FatherID: "ghost", MotherID: "ghost2", SpouseIDs: []string{"nobody"}},
		{ID: "sib", FatherID: "ghost"},
		{FirstName: "no id"},
	}
	res := Analyze(people)
	if len(res.Generations) != 3 {
		t.Fatalf("generations = %v, want 3 entries", res.Generations)
	}
	for id, g := range res.Generations {
		if g != 0 {
			t.Errorf("gen(%s) = %d, want 0", id, g)
		}
	}
	if res.UnitOf["orphan"] == res.UnitOf["sib"] {
		t.Error("a dangling shared father must not group people")
	}
	if len(res.Edges) != 0 {
		t.Errorf("edges = %v, want none", res.Edges)
	}
}

func TestSameUnitParentDropped(t *testing.T) {
	// p is married to her own child c: the parent link collapses into one unit.
	people := []record.Person{
		{ID: "p", SpouseIDs: []string{"c"}},
		{ID: "c", MotherID: "p", SpouseIDs: []string{"p"}},
	}
	res := Analyze(people)
	if len(res.Units) != 1 || len(res.Edges) != 0 {
		t.Errorf("units = %d edges = %d, want 1 and 0", len(res.Units), len(res.Edges))
	}
	if res.Generations["c"] != 0 {
		t.Errorf("gen(c) = %d, want 0", res.Generations["c"])
	}
}

func TestCyclicUnits(t *testing.T) {
	// a is b's father and b is a's father: two singleton units parenting each other.
	people := []record.Person{
		{ID: "a", FatherID: "b"},
		{ID: "b", FatherID: "a"},
		{ID: "kid", FatherID: "a"},
	}
	res := Analyze(people)
	if res.Generations["a"] != 0 || res.Generations["b"] != 0 {
		t.Errorf("cycle members should stay at 0: %v", res.Generations)
	}
	if res.Unresolved == 0 || res.CyclicEdges != 1 {
		t.Errorf("Unresolved = %d, CyclicEdges = %d", res.Unresolved, res.CyclicEdges)
	}
	if len(res.Generations) != 3 {
		t.Errorf("every person needs an entry: %v", res.Generations)
	}
}

func TestDuplicateIDsFirstWins(t *testing.T) {
	people := []record.Person{
		{ID: "p"},
		{ID: "c", FatherID: "p"},
		{ID: "p", FatherID: "c"},
	}
	res := Analyze(people)
	if res.Generations["p"] != 0 || res.Generations["c"] != 1 {
		t.Errorf("generations = %v", res.Generations)
	}
}

func TestGenerationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		people := randomLayers(rng, 5, 8)
		res := Analyze(people)
		if len(res.Generations) != len(people) {
			t.Fatalf("trial %d: %d generations for %d people", trial, len(res.Generations), len(people))
		}
		if res.Unresolved != 0 {
			t.Fatalf("trial %d: layered population produced a cyclic unit graph", trial)
		}
		idx := record.Index(people)
		for _, p := range people {
			for _, parent := range []string{p.FatherID, p.MotherID} {
				if _, ok := idx[parent]; !ok {
					continue
				}
				if res.UnitOf[parent] == res.UnitOf[p.ID] {
					continue
				}
				if res.Generations[p.ID] < res.Generations[parent]+1 {
					t.Fatalf("trial %d: gen(%s)=%d but parent %s has %d",
						trial, p.ID, res.Generations[p.ID], parent, res.Generations[parent])
				}
			}
		}
	}
}

func TestOrderIndependenceRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		people := randomForest(rng, 40)
		want := AssignGenerations(people)

		shuffled := append([]record.Person(nil), people...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		got := AssignGenerations(shuffled)
		for id, g := range want {
			if got[id] != g {
				t.Fatalf("trial %d: gen(%s) = %d after shuffle, want %d", trial, id, got[id], g)
			}
		}
	}
}

// randomLayers builds a population of depth layers where parents come from
// the previous layer and spouses from the same one, so every grouping stays
// inside a layer and the unit graph is acyclic.
func randomLayers(rng *rand.Rand, depth, width int) []record.Person {
	var people []record.Person
	id := func(layer, i int) string { return fmt.Sprintf("g%d-%d", layer, i) }
	for layer := 0; layer < depth; layer++ {
		for i := 0; i < width; i++ {
			p := record.Person{ID: id(layer, i)}
			if layer > 0 {
				if rng.Intn(4) > 0 {
					p.FatherID = id(layer-1, rng.Intn(width))
				}
				if rng.Intn(4) > 0 {
					p.MotherID = id(layer-1, rng.Intn(width))
				}
			}
			if rng.Intn(3) == 0 {
				p.SpouseIDs = []string{id(layer, rng.Intn(width))}
			}
			people = append(people, p)
		}
	}
	rng.Shuffle(len(people), func(i, j int) { people[i], people[j] = people[j], people[i] })
	return people
}

// randomForest builds an acyclic population: parents always have a smaller
// index than their children.
func randomForest(rng *rand.Rand, n int) []record.Person {
	people := make([]record.Person, n)
	for i := range people {
		people[i].ID = fmt.Sprintf("p%d", i)
		if i == 0 {
			continue
		}
		if rng.Intn(3) > 0 {
			people[i].FatherID = fmt.Sprintf("p%d", rng.Intn(i))
		}
		if rng.Intn(3) > 0 {
			people[i].MotherID = fmt.Sprintf("p%d", rng.Intn(i))
		}
		if rng.Intn(5) == 0 {
			s := rng.Intn(i)
			people[i].SpouseIDs = []string{fmt.Sprintf("p%d", s)}
		}
	}
	return people
}

func TestAnalyzeDoesNotMutate(t *testing.T) {
	people := family()
	_ = Analyze(people)
	if people[1].FatherID != "c" || len(people[0].SpouseIDs) != 1 {
		t.Error("Analyze modified its input")
	}
}
