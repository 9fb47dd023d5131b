package metrics

import "github.com/matzehuels/kinship/pkg/record"

type state uint8

const (
	unvisited state = iota
	inProgress
	done
)

// frame is one entry of the explicit DFS stack.
type frame struct {
	node int
	next int // index of the next parent slot to visit (0 father, 1 mother)
}

// AncestryDepths returns the ancestry depth of every person with an ID.
func AncestryDepths(people []record.Person) map[string]int {
	idx := record.Index(people)
	n := len(people)

	// parents[i] holds resolved parent indices, -1 for none.
	parents := make([][2]int, n)
	for i, p := range people {
		parents[i] = [2]int{resolve(idx, p.FatherID), resolve(idx, p.MotherID)}
	}

	states := make([]state, n)
	depth := make([]int, n)
	cyclic := make([]bool, n)
	onStack := make([]int, n) // position on stack while inProgress

	var stack []frame
	for start := range people {
		if states[start] != unvisited {
			continue
		}
		states[start] = inProgress
		onStack[start] = 0
		stack = append(stack[:0], frame{node: start})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < 2 {
				parent := parents[top.node][top.next]
				top.next++
				if parent < 0 {
					continue
				}
				switch states[parent] {
				case unvisited:
					states[parent] = inProgress
					onStack[parent] = len(stack)
					stack = append(stack, frame{node: parent})
				case inProgress:
					// Back edge: everything from parent up to top is a cycle.
					for k := onStack[parent]; k < len(stack); k++ {
						cyclic[stack[k].node] = true
					}
				}
				continue
			}

			node := top.node
			stack = stack[:len(stack)-1]
			states[node] = done
			if cyclic[node] {
				depth[node] = 0
				continue
			}
			d := 0
			for _, parent := range parents[node] {
				if parent >= 0 && states[parent] == done && depth[parent]+1 > d {
					d = depth[parent] + 1
				}
			}
			depth[node] = d
		}
	}

	out := make(map[string]int, len(idx))
	for id, i := range idx {
		out[id] = depth[i]
	}
	return out
}

func resolve(idx map[string]int, id string) int {
	if i, ok := idx[id]; ok {
		return i
	}
	return -1
}
