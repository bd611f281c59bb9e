package dag

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs are unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is
	// empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with
	// the same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to a node. It carries
// opaque display data (color, shape, notes) that the model round-trips
// without interpreting. Metadata maps are never nil after AddNode.
type Metadata map[string]any

// Clone returns a shallow copy of the metadata map, or nil for nil input.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Node represents a vertex in the graph with a 2D canvas position.
//
// The zero value is not usable - ID must be set before adding to a Graph.
type Node struct {
	ID    string   // Unique identifier within the graph
	Label string   // Display label (defaults to ID when empty)
	X, Y  float64  // Canvas position
	Meta  Metadata // Arbitrary display data (never nil after AddNode)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge represents a directed connection between two nodes. The model
// accepts self-referential edges (From == To) so that externally-authored
// graphs can be loaded and reported on; the editor never creates them.
type Edge struct {
	ID   string // Unique edge identifier
	From string // Source node ID
	To   string // Target node ID
}

// IsSelfLoop reports whether the edge points back at its own source.
func (e Edge) IsSelfLoop() bool { return e.From == e.To }

// Graph is a mutable collection of nodes and directed edges. Nodes keep
// their insertion order, which drives display ordering and deterministic
// layout; the order carries no graph semantics.
//
// The zero value is not usable - use New to create a Graph. Graph is not
// safe for concurrent use without external synchronization; the editor
// session serializes all access.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	edgeIDs  map[string]struct{}
	outgoing map[string][]string // nodeID -> target IDs
	incoming map[string][]string // nodeID -> source IDs
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeIDs:  make(map[string]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph, appending it to the display order.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// ID is taken. The node's Meta field is initialized to an empty map if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode for dangling
// endpoints, ErrInvalidEdgeID for an empty ID, and ErrDuplicateEdgeID
// for a reused ID. Self-referential edges are accepted here and flagged
// by Validate; rejecting them at edit time is the editor's job.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.edgeIDs[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.edgeIDs[e.ID] = struct{}{}
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveNode removes the node and every edge incident to it in one step,
// so the graph never holds a dangling edge. Removing an unknown ID is a
// no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, e := range g.edges {
		if e.From == id || e.To == id {
			delete(g.edgeIDs, e.ID)
			g.unlink(e)
		}
	}
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == id || e.To == id })
	delete(g.nodes, id)
	delete(g.outgoing, id)
	delete(g.incoming, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
}

// RemoveEdge removes the edge with the given ID if it exists.
func (g *Graph) RemoveEdge(id string) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if idx < 0 {
		return
	}
	e := g.edges[idx]
	g.edges = slices.Delete(g.edges, idx, idx+1)
	delete(g.edgeIDs, id)
	g.unlink(e)
}

// unlink drops one adjacency entry for the edge. Parallel edges each hold
// their own entry, so only the first occurrence is removed.
func (g *Graph) unlink(e Edge) {
	if i := slices.Index(g.outgoing[e.From], e.To); i >= 0 {
		g.outgoing[e.From] = slices.Delete(g.outgoing[e.From], i, i+1)
	}
	if i := slices.Index(g.incoming[e.To], e.From); i >= 0 {
		g.incoming[e.To] = slices.Delete(g.incoming[e.To], i, i+1)
	}
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.order = nil
	g.edges = nil
	g.edgeIDs = make(map[string]struct{})
	g.outgoing = make(map[string][]string)
	g.incoming = make(map[string][]string)
}

// Node returns the node with the given ID and true, or nil and false if
// not found. The pointer refers to the live node, so position and label
// updates through it affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order. The slice contains pointers
// to the live node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID and true, or a zero Edge and
// false if not found.
func (g *Graph) Edge(id string) (Edge, bool) {
	idx := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if idx < 0 {
		return Edge{}, false
	}
	return g.edges[idx], true
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs of nodes this node has edges to.
// The returned slice is a read-only view; do not modify it.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node.
// The returned slice is a read-only view; do not modify it.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Clone returns a deep copy of the graph. The copy shares no state with
// the original; node metadata is copied one level deep.
func (g *Graph) Clone() *Graph {
	out := New()
	for _, id := range g.order {
		n := g.nodes[id]
		out.AddNode(Node{ID: n.ID, Label: n.Label, X: n.X, Y: n.Y, Meta: n.Meta.Clone()})
	}
	for _, e := range g.edges {
		out.AddEdge(e)
	}
	return out
}
