package dag

import (
	"errors"
	"testing"
)

// buildGraph adds the given nodes and edges, failing the test on any error.
func buildGraph(t *testing.T, nodeIDs []string, edges []Edge) *Graph {
	t.Helper()
	g := New()
	for _, id := range nodeIDs {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New()

	if err := g.AddNode(Node{ID: "1", Label: "First"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", g.NodeCount())
	}

	// Meta is initialized so callers never nil-check it
	n, ok := g.Node("1")
	if !ok {
		t.Fatal("Node(1) not found")
	}
	if n.Meta == nil {
		t.Error("Meta should be initialized on add")
	}

	// Empty ID rejected
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty ID: got %v, want ErrInvalidNodeID", err)
	}

	// Duplicate ID rejected
	if err := g.AddNode(Node{ID: "1"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate ID: got %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdge(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, nil)

	if err := g.AddEdge(Edge{ID: "e1", From: "1", To: "2"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", g.EdgeCount())
	}

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"empty ID", Edge{From: "1", To: "2"}, ErrInvalidEdgeID},
		{"duplicate ID", Edge{ID: "e1", From: "2", To: "1"}, ErrDuplicateEdgeID},
		{"unknown source", Edge{ID: "e2", From: "9", To: "2"}, ErrUnknownSourceNode},
		{"unknown target", Edge{ID: "e2", From: "1", To: "9"}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	// Self-loops are accepted by the model; validation flags them
	if err := g.AddEdge(Edge{ID: "loop", From: "1", To: "1"}); err != nil {
		t.Errorf("self-loop should be accepted by the model: %v", err)
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	g := buildGraph(t, []string{"1", "2", "3"}, []Edge{
		{ID: "a", From: "1", To: "2"},
		{ID: "b", From: "2", To: "3"},
		{ID: "c", From: "1", To: "3"},
	})

	g.RemoveNode("2")

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	// Both edges touching node 2 are gone, the 1→3 edge survives
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if e := g.Edges()[0]; e.ID != "c" {
		t.Errorf("surviving edge = %s, want c", e.ID)
	}
	if g.OutDegree("1") != 1 || g.InDegree("3") != 1 {
		t.Error("adjacency not updated after cascade")
	}

	// Removing an unknown node is a no-op
	g.RemoveNode("nope")
	if g.NodeCount() != 2 {
		t.Error("removing unknown node should be a no-op")
	}
}

func TestRemoveEdge(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, []Edge{{ID: "a", From: "1", To: "2"}})

	g.RemoveEdge("a")
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if g.OutDegree("1") != 0 || g.InDegree("2") != 0 {
		t.Error("adjacency not updated after edge removal")
	}

	// Idempotent
	g.RemoveEdge("a")
	if g.EdgeCount() != 0 {
		t.Error("removing a missing edge should be a no-op")
	}
}

func TestNodesInsertionOrder(t *testing.T) {
	g := buildGraph(t, []string{"c", "a", "b"}, nil)

	got := g.Nodes()
	want := []string{"c", "a", "b"}
	for i, n := range got {
		if n.ID != want[i] {
			t.Errorf("Nodes()[%d] = %s, want %s", i, n.ID, want[i])
		}
	}

	// Order survives a removal
	g.RemoveNode("a")
	got = g.Nodes()
	want = []string{"c", "b"}
	for i, n := range got {
		if n.ID != want[i] {
			t.Errorf("after removal Nodes()[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestAdjacency(t *testing.T) {
	g := buildGraph(t, []string{"1", "2", "3"}, []Edge{
		{ID: "a", From: "1", To: "2"},
		{ID: "b", From: "1", To: "3"},
	})

	if got := g.Children("1"); len(got) != 2 {
		t.Errorf("Children(1) = %v, want 2 entries", got)
	}
	if got := g.Parents("2"); len(got) != 1 || got[0] != "1" {
		t.Errorf("Parents(2) = %v, want [1]", got)
	}

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "1" {
		t.Errorf("Sources = %v, want just node 1", sources)
	}
}

func TestClear(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, []Edge{{ID: "a", From: "1", To: "2"}})

	g.Clear()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("Clear should empty the graph")
	}

	// Graph remains usable after Clear
	if err := g.AddNode(Node{ID: "1"}); err != nil {
		t.Errorf("AddNode after Clear: %v", err)
	}
}

func TestClone(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, []Edge{{ID: "a", From: "1", To: "2"}})
	n, _ := g.Node("1")
	n.Meta["color"] = "red"
	n.X = 100

	c := g.Clone()

	// Mutating the clone must not touch the original
	cn, _ := c.Node("1")
	cn.X = 999
	cn.Meta["color"] = "blue"
	c.RemoveNode("2")

	if n.X != 100 {
		t.Errorf("original X = %v, want 100", n.X)
	}
	if n.Meta["color"] != "red" {
		t.Errorf("original meta = %v, want red", n.Meta["color"])
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Error("original topology changed by clone mutation")
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := (Node{ID: "7"}).DisplayLabel(); got != "7" {
		t.Errorf("DisplayLabel = %q, want ID fallback", got)
	}
	if got := (Node{ID: "7", Label: "Build"}).DisplayLabel(); got != "Build" {
		t.Errorf("DisplayLabel = %q, want Build", got)
	}
}
