package metrics

import (
	"fmt"
	"testing"

	"github.com/matzehuels/kinship/pkg/record"
)

func TestChildCount(t *testing.T) {
	people := []record.Person{
		{ID: "mom"},
		{ID: "dad"},
		{ID: "a", FatherID: "dad", MotherID: "mom"},
		{ID: "b", FatherID: "dad", MotherID: "mom"},
		{ID: "c", MotherID: "mom"},
	}
	res := Compute(people)

	tests := map[string]int{"mom": 3, "dad": 2, "a": 0, "b": 0, "c": 0}
	for id, want := range tests {
		if got := res.Metrics[id].ChildCount; got != want {
			t.Errorf("childCount(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestChildCountSamePersonBothRoles(t *testing.T) {
	people := []record.Person{
		{ID: "p"},
		{ID: "x", FatherID: "p", MotherID: "p"},
		{ID: "y", FatherID: "p"},
		{ID: "z", MotherID: "p"},
	}
	if got := Compute(people).Metrics["p"].ChildCount; got != 3 {
		t.Errorf("childCount(p) = %d, want 3", got)
	}
}

func TestAncestryDepth(t *testing.T) {
	people := []record.Person{
		{ID: "kid", FatherID: "dad", MotherID: "mom"},
		{ID: "dad", FatherID: "grandpa"},
		{ID: "mom"},
		{ID: "grandpa", FatherID: "ghost"},
	}
	res := Compute(people)

	tests := map[string]int{"grandpa": 0, "mom": 0, "dad": 1, "kid": 2}
	for id, want := range tests {
		if got := res.Metrics[id].AncestryDepth; got != want {
			t.Errorf("ancestryDepth(%s) = %d, want %d", id, got, want)
		}
	}
}

func TestCycleTerminates(t *testing.T) {
	tests := []struct {
		name   string
		people []record.Person
		want   map[string]int
	}{
		{
			name: "TwoCycle",
			people: []record.Person{
				{ID: "A", FatherID: "B"},
				{ID: "B", FatherID: "A"},
			},
			want: map[string]int{"A": 0, "B": 0},
		},
		{
			name: "SelfParent",
			people: []record.Person{
				{ID: "A", FatherID: "A", MotherID: "A"},
			},
			want: map[string]int{"A": 0},
		},
		{
			name: "DescendantOfCycle",
			people: []record.Person{
				{ID: "kid", FatherID: "A"},
				{ID: "A", FatherID: "B"},
				{ID: "B", FatherID: "C"},
				{ID: "C", FatherID: "A"},
			},
			want: map[string]int{"A": 0, "B": 0, "C": 0, "kid": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AncestryDepths(tt.people)
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("depth(%s) = %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestDeepChain(t *testing.T) {
	const n = 200_000
	people := make([]record.Person, n)
	for i := range people {
		people[i].ID = fmt.Sprint(i)
		if i > 0 {
			people[i].FatherID = fmt.Sprint(i - 1)
		}
	}
	// Start the walk at the deepest descendant.
	people[0], people[n-1] = people[n-1], people[0]

	depths := AncestryDepths(people)
	if got := depths[fmt.Sprint(n-1)]; got != n-1 {
		t.Errorf("depth of last = %d, want %d", got, n-1)
	}
}

func TestDanglingTreatedAsNoParent(t *testing.T) {
	people := []record.Person{
		{ID: "x", FatherID: "missing", MotherID: "gone"},
	}
	res := Compute(people)
	if m := res.Metrics["x"]; m.ChildCount != 0 || m.AncestryDepth != 0 {
		t.Errorf("metrics = %+v", m)
	}
	if _, ok := res.Metrics["missing"]; ok {
		t.Error("dangling IDs must not get metrics")
	}
	if p := res.People[0]; p.FatherID != "" || p.MotherID != "" {
		t.Errorf("normalized person keeps dangling refs: %+v", p)
	}
	if people[0].FatherID != "missing" {
		t.Error("Compute modified its input")
	}
}

func TestComputeNormalizes(t *testing.T) {
	people := []record.Person{
		{ID: "a"},
		{FirstName: "anonymous"},
		{ID: "a", FirstName: "dup"},
	}
	res := Compute(people)
	if len(res.People) != 1 || len(res.Metrics) != 1 {
		t.Errorf("people = %d metrics = %d, want 1 and 1", len(res.People), len(res.Metrics))
	}
}
