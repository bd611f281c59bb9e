package dag

import (
	"strconv"
	"testing"
)

func TestWouldCreateCycle(t *testing.T) {
	// 1 → 2 → 3, plus a detached node 4
	g := buildGraph(t, []string{"1", "2", "3", "4"}, []Edge{
		{ID: "a", From: "1", To: "2"},
		{ID: "b", From: "2", To: "3"},
	})

	tests := []struct {
		name     string
		from, to string
		want     bool
	}{
		{"closing the chain", "3", "1", true},
		{"back edge", "2", "1", true},
		{"self loop", "1", "1", true},
		{"forward shortcut", "1", "3", false},
		{"into detached node", "3", "4", false},
		{"from detached node", "4", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WouldCreateCycle(g, tt.from, tt.to); got != tt.want {
				t.Errorf("WouldCreateCycle(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}

	// The probe must not mutate the graph
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d after probes, want 2", g.EdgeCount())
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges []Edge
		want  bool
	}{
		{"empty", nil, nil, false},
		{"single node", []string{"1"}, nil, false},
		{"chain", []string{"1", "2", "3"}, []Edge{
			{ID: "a", From: "1", To: "2"},
			{ID: "b", From: "2", To: "3"},
		}, false},
		{"diamond", []string{"1", "2", "3", "4"}, []Edge{
			{ID: "a", From: "1", To: "2"},
			{ID: "b", From: "1", To: "3"},
			{ID: "c", From: "2", To: "4"},
			{ID: "d", From: "3", To: "4"},
		}, false},
		{"two-cycle", []string{"1", "2"}, []Edge{
			{ID: "a", From: "1", To: "2"},
			{ID: "b", From: "2", To: "1"},
		}, true},
		{"self loop", []string{"1"}, []Edge{
			{ID: "a", From: "1", To: "1"},
		}, true},
		{"cycle in detached component", []string{"1", "2", "3", "4"}, []Edge{
			{ID: "a", From: "1", To: "2"},
			{ID: "b", From: "3", To: "4"},
			{ID: "c", From: "4", To: "3"},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			if got := HasCycle(g); got != tt.want {
				t.Errorf("HasCycle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCycleDetectionDeepChain(t *testing.T) {
	// A long chain exercises the iterative traversal without recursion
	// depth limits.
	const n = 10000
	g := New()
	prev := ""
	for i := 0; i < n; i++ {
		id := "n" + strconv.Itoa(i)
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
		if prev != "" {
			if err := g.AddEdge(Edge{ID: "e" + id, From: prev, To: id}); err != nil {
				t.Fatalf("AddEdge: %v", err)
			}
		}
		prev = id
	}

	if HasCycle(g) {
		t.Error("chain should be acyclic")
	}
	if !WouldCreateCycle(g, prev, "n0") {
		t.Error("closing the chain should be detected as a cycle")
	}
}
