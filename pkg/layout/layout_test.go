package layout

import (
	"testing"

	"github.com/dagboard/dagboard/pkg/dag"
)

func buildGraph(t *testing.T, nodeIDs []string, edges [][2]string) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, id := range nodeIDs {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(dag.Edge{ID: "e" + string(rune('a'+i)), From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestLayers(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  map[string]int
	}{
		{
			name:  "chain",
			nodes: []string{"1", "2", "3"},
			edges: [][2]string{{"1", "2"}, {"2", "3"}},
			want:  map[string]int{"1": 0, "2": 1, "3": 2},
		},
		{
			name:  "diamond takes longest path",
			nodes: []string{"1", "2", "3", "4"},
			edges: [][2]string{{"1", "2"}, {"2", "3"}, {"1", "3"}, {"3", "4"}},
			want:  map[string]int{"1": 0, "2": 1, "3": 2, "4": 3},
		},
		{
			name:  "detached nodes are sources",
			nodes: []string{"1", "2", "3"},
			edges: [][2]string{{"1", "2"}},
			want:  map[string]int{"1": 0, "2": 1, "3": 0},
		},
		{
			name:  "empty graph",
			nodes: nil,
			want:  map[string]int{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.nodes, tt.edges)
			got := Layers(g)
			if len(got) != len(tt.want) {
				t.Fatalf("Layers = %v, want %v", got, tt.want)
			}
			for id, layer := range tt.want {
				if got[id] != layer {
					t.Errorf("layer[%s] = %d, want %d", id, got[id], layer)
				}
			}
		})
	}
}

func TestLayersEdgeMonotonic(t *testing.T) {
	// Every edge in an acyclic graph must point to a strictly deeper layer.
	g := buildGraph(t, []string{"a", "b", "c", "d", "e"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"d", "e"}, {"a", "e"},
	})
	layers := Layers(g)
	for _, e := range g.Edges() {
		if layers[e.To] <= layers[e.From] {
			t.Errorf("edge %s→%s: layer %d ≤ %d", e.From, e.To, layers[e.To], layers[e.From])
		}
	}
}

func TestLayersCycleFallback(t *testing.T) {
	// 1 → 2, plus a 3↔4 cycle. The cycle members share the terminal layer.
	g := buildGraph(t, []string{"1", "2", "3", "4"}, [][2]string{
		{"1", "2"}, {"3", "4"}, {"4", "3"},
	})

	layers := Layers(g)
	if layers["1"] != 0 || layers["2"] != 1 {
		t.Errorf("acyclic part misplaced: %v", layers)
	}
	if layers["3"] != 2 || layers["4"] != 2 {
		t.Errorf("cycle members should be parked below resolved layers: %v", layers)
	}
}

func TestCompute(t *testing.T) {
	g := buildGraph(t, []string{"1", "2", "3"}, [][2]string{
		{"1", "3"}, {"2", "3"},
	})

	got := Compute(g)

	// Total assignment: every node gets a position
	if len(got) != 3 {
		t.Fatalf("Compute returned %d positions, want 3", len(got))
	}

	// Layer 0 holds both sources at the origin row, spaced by GapX
	if got["1"] != (Position{X: OriginX, Y: OriginY}) {
		t.Errorf("pos[1] = %+v", got["1"])
	}
	if got["2"] != (Position{X: OriginX + GapX, Y: OriginY}) {
		t.Errorf("pos[2] = %+v", got["2"])
	}
	if got["3"] != (Position{X: OriginX, Y: OriginY + GapY}) {
		t.Errorf("pos[3] = %+v", got["3"])
	}
}

func TestComputeDeterministic(t *testing.T) {
	g := buildGraph(t, []string{"z", "m", "a"}, [][2]string{
		{"z", "m"}, {"z", "a"},
	})

	first := Compute(g)
	for i := 0; i < 10; i++ {
		if next := Compute(g); len(next) != len(first) {
			t.Fatal("non-deterministic position count")
		} else {
			for id, p := range first {
				if next[id] != p {
					t.Fatalf("position for %s changed between runs", id)
				}
			}
		}
	}

	// Insertion order, not lexical order, drives within-layer placement
	if first["m"].X >= first["a"].X {
		t.Error("within-layer order should follow insertion order")
	}
}

func TestComputeTotalOnCycle(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, [][2]string{
		{"1", "2"}, {"2", "1"},
	})

	got := Compute(g)
	if len(got) != 2 {
		t.Fatalf("Compute on cyclic graph returned %d positions, want 2", len(got))
	}
}

func TestComputeDoesNotMutate(t *testing.T) {
	g := buildGraph(t, []string{"1", "2"}, [][2]string{{"1", "2"}})
	n, _ := g.Node("1")
	n.X, n.Y = 5, 7

	Compute(g)

	if n.X != 5 || n.Y != 7 {
		t.Error("Compute must not write positions back to the graph")
	}
}
