package transform

import "github.com/matzehuels/kinship/pkg/dag"

// AssignLayers assigns nodes to horizontal rows (layers) based on their depth
// in the graph and returns the number of nodes that were never released from
// the queue.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute row assignments. Each node is placed at one plus the
// maximum row of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at row 0
//   - All parents are strictly above their children
//   - Each node is pushed as deep as necessary to avoid parent conflicts
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// Nodes on a cycle, and nodes reachable only through one, never reach zero
// in-degree. They keep the deepest row any released parent pushed them to,
// or 0 when no parent was released. The return value counts them so callers
// can report inconsistent input.
//
// # Parallel Edges
//
// Each parallel edge raises the in-degree once and is relaxed once, so
// parallel edges do not change the result.
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLayers(g *dag.DAG) int {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	released := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		released++

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
	return len(nodes) - released
}
