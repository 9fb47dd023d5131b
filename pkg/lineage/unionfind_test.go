package lineage

import (
	"math/rand"
	"testing"
)

// partition returns, for each element, the smallest element of its set.
func partition(s *disjointSet) []int {
	minOf := map[int]int{}
	for i := range s.parent {
		r := s.find(i)
		if m, ok := minOf[r]; !ok || i < m {
			minOf[r] = i
		}
	}
	out := make([]int, len(s.parent))
	for i := range out {
		out[i] = minOf[s.find(i)]
	}
	return out
}

func TestDisjointSetBasics(t *testing.T) {
	s := newDisjointSet(5)
	s.union(0, 1)
	s.union(3, 4)
	s.union(1, 0)

	if s.find(0) != s.find(1) {
		t.Error("0 and 1 should share a root")
	}
	if s.find(1) == s.find(3) {
		t.Error("1 and 3 should be in different sets")
	}
	if s.find(2) != 2 {
		t.Error("2 should be its own root")
	}
}

func TestDisjointSetOrderIndependent(t *testing.T) {
	const n = 200
	rng := rand.New(rand.NewSource(7))
	pairs := make([][2]int, 150)
	for i := range pairs {
		pairs[i] = [2]int{rng.Intn(n), rng.Intn(n)}
	}

	ref := newDisjointSet(n)
	for _, p := range pairs {
		ref.union(p[0], p[1])
	}
	want := partition(ref)

	for trial := 0; trial < 20; trial++ {
		shuffled := append([][2]int(nil), pairs...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		s := newDisjointSet(n)
		for _, p := range shuffled {
			if rng.Intn(2) == 0 {
				s.union(p[0], p[1])
			} else {
				s.union(p[1], p[0])
			}
		}
		got := partition(s)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("trial %d: element %d in set %d, want %d", trial, i, got[i], want[i])
			}
		}
	}
}

func TestDisjointSetPathCompression(t *testing.T) {
	s := newDisjointSet(4)
	// Build a chain by hand so find has something to compress.
	s.parent = []int{0, 0, 1, 2}
	if r := s.find(3); r != 0 {
		t.Fatalf("find(3) = %d, want 0", r)
	}
	for i, p := range s.parent {
		if p != 0 {
			t.Errorf("parent[%d] = %d after compression, want 0", i, p)
		}
	}
}
