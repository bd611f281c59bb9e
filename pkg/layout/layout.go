// Package layout computes deterministic layered positions for a graph.
//
// Nodes are grouped into horizontal layers by topological depth: a node's
// layer is one more than the maximum layer of its direct parents, and
// source nodes sit at layer 0. Within a layer, nodes keep the graph's
// insertion order and are spaced at a fixed horizontal gap; layers are
// spaced at a fixed vertical gap.
//
// The computation is total: a graph containing a (transient, invalid)
// cycle still gets a full position assignment. Nodes whose depth cannot
// be resolved because of a cycle are placed together in a terminal layer
// below everything else rather than failing, since layout may run on an
// in-progress graph that validation has not yet cleaned up.
package layout

import "github.com/dagboard/dagboard/pkg/dag"

// Position is a 2D canvas coordinate assigned to a node.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Spacing constants for the layered layout.
const (
	GapX    = 150.0 // horizontal distance between nodes in a layer
	GapY    = 120.0 // vertical distance between layers
	OriginX = 80.0  // left margin of the first node in each layer
	OriginY = 60.0  // top margin of layer 0
)

// Compute assigns every node in the graph a position based on its
// topological depth. The result is a full replacement assignment: every
// node ID in the graph maps to a position, and the caller applies it
// wholesale. Compute never mutates the graph.
//
// Layer assignment uses a longest-path traversal (Kahn's algorithm):
// nodes are processed in topological order and each child is pushed to
// one past its deepest parent. Nodes trapped in a cycle never reach zero
// in-degree; they fall back to maxLayer+1, preserving insertion order.
func Compute(g *dag.Graph) map[string]Position {
	nodes := g.Nodes()
	layers := Layers(g)

	// Group by layer, preserving insertion order within each layer.
	byLayer := make(map[int][]string)
	maxLayer := 0
	for _, n := range nodes {
		l := layers[n.ID]
		byLayer[l] = append(byLayer[l], n.ID)
		if l > maxLayer {
			maxLayer = l
		}
	}

	positions := make(map[string]Position, len(nodes))
	for layer := 0; layer <= maxLayer; layer++ {
		for i, id := range byLayer[layer] {
			positions[id] = Position{
				X: OriginX + float64(i)*GapX,
				Y: OriginY + float64(layer)*GapY,
			}
		}
	}
	return positions
}

// Layers computes the topological depth of every node. Source nodes are
// at layer 0; every other resolvable node is one past its deepest parent.
// Nodes unresolvable due to a cycle share the terminal layer maxLayer+1.
func Layers(g *dag.Graph) map[string]int {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	layers := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	resolved := make(map[string]bool, len(nodes))
	maxLayer := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		resolved[curr] = true
		if layers[curr] > maxLayer {
			maxLayer = layers[curr]
		}

		for _, child := range g.Children(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	// Anything left unresolved sits on a cycle. Park it below the
	// resolved layers so layout stays total.
	for _, n := range nodes {
		if !resolved[n.ID] {
			layers[n.ID] = maxLayer + 1
		}
	}
	return layers
}
