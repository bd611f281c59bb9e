package dag

// WouldCreateCycle reports whether adding the hypothetical edge from→to
// would introduce a directed cycle. The graph itself is not modified.
// A self-referential edge is a degenerate cycle and returns true
// immediately, without running the search.
func WouldCreateCycle(g *Graph, from, to string) bool {
	if from == to {
		return true
	}
	return detectCycle(g, &Edge{From: from, To: to})
}

// HasCycle reports whether the graph's current edge set contains a
// directed cycle. Self-referential edges count as cycles.
func HasCycle(g *Graph) bool {
	return detectCycle(g, nil)
}

// frame is one level of the explicit DFS stack: a node and the index of
// the next child to examine.
type frame struct {
	id   string
	next int
}

// detectCycle runs an iterative depth-first search over the graph's edges
// plus an optional extra edge. It keeps a global visited set across all
// starts and an on-stack set for the active path; reaching a node on the
// active path is a back-edge, which proves a cycle. Every node enters the
// stack at most once, so the search is O(V+E).
func detectCycle(g *Graph, extra *Edge) bool {
	adj := make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	if extra != nil {
		adj[extra.From] = append(adj[extra.From], extra.To)
	}

	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	for _, start := range g.order {
		if visited[start] {
			continue
		}
		visited[start] = true
		onStack[start] = true
		stack := []frame{{id: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := adj[top.id]
			if top.next < len(children) {
				child := children[top.next]
				top.next++
				if onStack[child] {
					return true
				}
				if !visited[child] {
					visited[child] = true
					onStack[child] = true
					stack = append(stack, frame{id: child})
				}
				continue
			}
			onStack[top.id] = false
			stack = stack[:len(stack)-1]
		}
	}
	return false
}
